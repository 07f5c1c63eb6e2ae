package entity

import (
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Name        string  `gorm:"size:255;index;not null" json:"name"`
	Detail      string  `gorm:"type:text" json:"detail"`
	Category    string  `gorm:"size:50;index" json:"category"` // sides, drinks, desserts, calzones
	BasePrice   float64 `gorm:"type:decimal(10,2);not null" json:"basePrice"`
	IsAvailable bool    `gorm:"default:true" json:"isAvailable"`

	// customization groups offered for this item
	OptionGroups []OptionGroup `gorm:"many2many:menu_item_option_groups;" json:"-"`
}
