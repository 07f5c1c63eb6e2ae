package entity

import (
	"gorm.io/gorm"
)

type Crust struct {
	gorm.Model
	Name          string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	PriceModifier float64 `gorm:"type:decimal(10,2)" json:"priceModifier"`
	IsAvailable   bool    `gorm:"default:true" json:"isAvailable"`
}
