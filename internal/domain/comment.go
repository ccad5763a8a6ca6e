package domain

// Comment - комментарий к фото. UserID пустой, если комментарий оставлен без входа.
type Comment struct {
	CommentID uint64  `gorm:"column:comment_id;primaryKey;autoIncrement" json:"comment_id"`
	PhotoID   uint64  `gorm:"column:photo_id;not null;index" json:"photo_id"`
	UserID    *uint64 `gorm:"column:user_id;index" json:"user_id"`
	Comment   string  `gorm:"column:comment;not null" json:"comment"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// Author возвращает имя автора или пустую строку для анонимного комментария
func (c Comment) Author() string {
	if c.User == nil {
		return ""
	}
	return c.User.Username
}
