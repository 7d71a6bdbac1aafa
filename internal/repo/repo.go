package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRepo struct {
	DB *gorm.DB
}

// conn resolves the handle a query should run on. Mutating operations
// receive the surrounding transaction explicitly; standalone reads pass
// nil and run on the base connection at read-committed level.
func (r *GormRepo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.DB.WithContext(ctx)
}

func lockForUpdate(tx *gorm.DB) *gorm.DB {
	// sqlite has no FOR UPDATE; its single-writer model serializes anyway
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
