package models

// Sequence is a named monotonically increasing counter.
type Sequence struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value int64  `gorm:"column:value;not null"`
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&Sequence{},
		&User{},
		&Category{},
		&Brand{},
		&Customer{},
		&Product{},
		&ProductVariant{},
		&ProductCombination{},
		&Order{},
		&OrderItem{},
	}
}
