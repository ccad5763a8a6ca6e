package domain

import (
	"time"
)

// Photo представляет модель фотографии в системе,
// соответствует таблице photos в бд.
// NumLike и NumDislike могут отсутствовать (NULL) до первого голоса.
type Photo struct {
	PhotoID      uint64    `gorm:"column:photo_id;primaryKey;autoIncrement" json:"photo_id"`
	PhotoUserID  uint64    `gorm:"column:photo_user_id;not null;index" json:"photo_user_id"`
	PhotoURL     string    `gorm:"column:photo_url;not null" json:"photo_url"`
	Caption      string    `gorm:"not null;default:''" json:"caption"`
	DateUploaded time.Time `gorm:"column:date_uploaded;not null;index;autoCreateTime" json:"date_uploaded"`
	NumLike      *int64    `gorm:"column:num_like" json:"num_like"`
	NumDislike   *int64    `gorm:"column:num_dislike" json:"num_dislike"`

	User *User `gorm:"foreignKey:PhotoUserID;references:UserID" json:"-"`

	// Hashtags заполняется сценариями для страниц, в таблице photos не хранится
	Hashtags []Hashtag `gorm:"-" json:"-"`
}

func (Photo) TableName() string {
	return "photos"
}

// Likes возвращает счетчик лайков, отсутствующее значение считается нулем
func (p Photo) Likes() int64 {
	if p.NumLike == nil {
		return 0
	}
	return *p.NumLike
}

// Dislikes возвращает счетчик дизлайков, отсутствующее значение считается нулем
func (p Photo) Dislikes() int64 {
	if p.NumDislike == nil {
		return 0
	}
	return *p.NumDislike
}

// Userphoto - запись о том, что пользователь сохранил фото в свою коллекцию.
// Повторное сохранение того же фото создает новую запись.
type Userphoto struct {
	UserphotoID uint64 `gorm:"column:userphoto_id;primaryKey;autoIncrement" json:"userphoto_id"`
	UserID      uint64 `gorm:"column:user_id;not null;index" json:"user_id"`
	PhotoID     uint64 `gorm:"column:photo_id;not null;index" json:"photo_id"`

	Photo *Photo `gorm:"foreignKey:PhotoID;references:PhotoID" json:"-"`
}

func (Userphoto) TableName() string {
	return "userphotos"
}
