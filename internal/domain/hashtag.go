package domain

// Hashtag представляет модель хэштега,
// соответствует таблице hashtags в бд. Метка уникальна в пределах системы.
type Hashtag struct {
	HashtagID uint64 `gorm:"column:hashtag_id;primaryKey;autoIncrement" json:"hashtag_id"`
	Hashtag   string `gorm:"column:hashtag;size:64;not null;uniqueIndex" json:"hashtag"`
}

func (Hashtag) TableName() string {
	return "hashtags"
}

// Photohashtag представляет связующую модель для отношения Many-to-Many между Photo и Hashtag,
// соответствует таблице photohashtags в бд
type Photohashtag struct {
	PhotohashtagID uint64 `gorm:"column:photohashtag_id;primaryKey;autoIncrement" json:"photohashtag_id"`
	PhotoID        uint64 `gorm:"column:photo_id;not null;uniqueIndex:idx_photohashtags_pair" json:"photo_id"`
	HashtagID      uint64 `gorm:"column:hashtag_id;not null;uniqueIndex:idx_photohashtags_pair;index" json:"hashtag_id"`

	Photo   *Photo   `gorm:"foreignKey:PhotoID;references:PhotoID" json:"-"`
	Hashtag *Hashtag `gorm:"foreignKey:HashtagID;references:HashtagID" json:"-"`
}

func (Photohashtag) TableName() string {
	return "photohashtags"
}
