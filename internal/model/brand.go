package model

// Brand owns products by reference only; there is no back-collection.
type Brand struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required,max=255"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
	Logo        string  `gorm:"type:varchar(255)" json:"logo,omitempty"`
	TaxID       *string `gorm:"type:varchar(50);uniqueIndex" json:"tax_id,omitempty" validate:"omitempty,max=50"`
}

// DefaultBrandName is seeded on first start for products without a specific brand.
const DefaultBrandName = "Generic"
