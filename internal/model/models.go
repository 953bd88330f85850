package model

// All lists every persisted model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{&User{}, &Brand{}, &Product{}, &Sale{}, &SaleLineItem{}}
}
