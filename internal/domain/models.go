package domain

// Models AutoMigrate 用的全部表
func Models() []any {
	return []any{&User{}, &Item{}, &CartItem{}, &Order{}, &OrderItem{}}
}
