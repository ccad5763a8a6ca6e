package domain

// Models перечисляет все сущности, которыми управляет приложение (для AutoMigrate)
func Models() []any {
	return []any{&User{}, &Photo{}, &Hashtag{}, &Photohashtag{}, &Comment{}, &Userphoto{}}
}
