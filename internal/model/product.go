package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	BaseModel
	Name         string          `gorm:"type:varchar(255);not null;index" json:"name" validate:"required,max=255"`
	Description  string          `gorm:"type:text" json:"description,omitempty"`
	SKU          *string         `gorm:"type:varchar(20);uniqueIndex" json:"sku,omitempty" validate:"omitempty,sku"`
	NetCost      decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"net_cost"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"sale_price"`
	Stock        int             `gorm:"not null;default:0;check:chk_products_stock,stock >= 0" json:"stock" validate:"gte=0"`
	Unit         Unit            `gorm:"type:varchar(10);not null" json:"unit"`
	UnitQuantity decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"unit_quantity"`
	Packaging    Packaging       `gorm:"type:varchar(20);not null" json:"packaging"`
	ExpiresOn    *time.Time      `gorm:"type:date;index" json:"expires_on,omitempty"`
	Active       bool            `gorm:"not null;index" json:"active"`

	// Weak reference: deleting the brand nulls this column.
	BrandID *uuid.UUID `gorm:"type:uuid;index" json:"brand_id,omitempty"`
	Brand   *Brand     `gorm:"constraint:OnDelete:SET NULL" json:"brand,omitempty" validate:"-"`
}

// BeforeSave fills the enum columns so an omitted unit or packaging never
// reaches the closed-set Valuer as an empty string. Expiry dates are kept in
// UTC so date comparisons agree across drivers.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.ExpiresOn != nil {
		utc := p.ExpiresOn.UTC()
		p.ExpiresOn = &utc
	}
	if p.Unit == "" {
		p.Unit = UnitEach
	}
	if p.Packaging == "" {
		p.Packaging = PackIndividual
	}
	return nil
}

// SKUCode returns the SKU or an empty string when the product has none.
func (p *Product) SKUCode() string {
	if p.SKU == nil {
		return ""
	}
	return *p.SKU
}
