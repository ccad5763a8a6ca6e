// internal/domain/user.go
package domain

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
// В поле Password хранится bcrypt-хэш, открытый пароль нигде не сохраняется.
type User struct {
	UserID   uint64 `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Username string `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email    string `gorm:"size:128;not null;default:''" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}
