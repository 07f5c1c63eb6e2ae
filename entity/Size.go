package entity

import (
	"gorm.io/gorm"
)

type Size struct {
	gorm.Model
	Name      string  `gorm:"size:50;uniqueIndex;not null" json:"name"`
	BasePrice float64 `gorm:"type:decimal(10,2);not null" json:"basePrice"`
	SortOrder int     `json:"sortOrder"`
}
