package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is created only by the sale coordinator, together with its line items,
// in a single unit of work.
type Sale struct {
	BaseModel
	SoldAt       time.Time       `gorm:"<-:create;not null;index" json:"sold_at"`
	Total        decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"total"`
	SellerID     *uuid.UUID      `gorm:"type:uuid;index" json:"seller_id,omitempty"`
	Seller       *User           `gorm:"foreignKey:SellerID;constraint:OnDelete:SET NULL" json:"seller,omitempty"`
	CustomerName string          `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	Items        []SaleLineItem  `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type SaleLineItem struct {
	BaseModel
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `gorm:"constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity  int             `gorm:"not null;check:chk_sale_line_items_quantity,quantity > 0" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"subtotal"`
}

// LineSubtotal is quantity x unit price.
func LineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// SubtotalSum adds up the subtotals of the loaded line items.
func (s *Sale) SubtotalSum() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range s.Items {
		sum = sum.Add(it.Subtotal)
	}
	return sum
}
