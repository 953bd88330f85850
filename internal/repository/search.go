package repository

import (
	"strings"

	"gorm.io/gorm"
)

// containsFold matches rows where any of columns contains term, ignoring
// case. Both sides are lowered so SQLite and Postgres agree.
func containsFold(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + strings.ToLower(term) + "%"
	return func(db *gorm.DB) *gorm.DB {
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}
