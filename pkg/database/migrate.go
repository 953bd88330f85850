package database

import (
	"fmt"

	"go-inventory-pos/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates every table of the persisted schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, table := range []string{"users", "brands", "products", "sales", "sale_line_items"} {
		if !db.Migrator().HasTable(table) {
			return fmt.Errorf("missing table after migration: %s", table)
		}
	}
	return nil
}
