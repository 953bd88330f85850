package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos gives a unit of work access to repositories that all share one
// database transaction.
type TxRepos struct {
	Products ProductRepository
	Brands   BrandRepository
	Sales    SaleRepository
	Stock    StockLedger
}

func newTxRepos(db *gorm.DB) TxRepos {
	return TxRepos{
		Products: NewProductRepo(db),
		Brands:   NewBrandRepo(db),
		Sales:    NewSaleRepo(db),
		Stock:    NewStockLedger(db),
	}
}

// UnitOfWork commits when fn returns nil and rolls back on an error or a
// panic, in which case nothing fn wrote is visible afterwards.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos TxRepos) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(repos TxRepos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepos(tx))
	})
}
