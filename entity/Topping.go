package entity

import (
	"gorm.io/gorm"
)

type Topping struct {
	gorm.Model
	Name        string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string  `gorm:"size:50" json:"category"` // meat, veggie, cheese
	IsAvailable bool    `gorm:"default:true" json:"isAvailable"`
}
