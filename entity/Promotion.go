package entity

import (
	"time"

	"gorm.io/gorm"
)

type Promotion struct {
	gorm.Model
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Kind        PromoKind `gorm:"size:50;not null;index" json:"kind"`

	// DiscountType matters only for CATEGORY_DISCOUNT; the other kinds carry
	// their math in Kind itself.
	DiscountType  string  `gorm:"size:20;default:'percentage'" json:"discountType"`
	DiscountValue float64 `gorm:"type:decimal(10,2)" json:"discountValue"`

	MinimumOrderAmount    float64 `gorm:"type:decimal(10,2)" json:"minimumOrderAmount"`
	MaximumDiscountAmount float64 `gorm:"type:decimal(10,2)" json:"maximumDiscountAmount"`
	MinimumQuantity       int     `json:"minimumQuantity"`

	ApplicableCategories StringSet `gorm:"serializer:json" json:"applicableCategories"`
	ApplicableItems      StringSet `gorm:"serializer:json" json:"applicableItems"`

	RequiresLogin bool      `json:"requiresLogin"`
	UserGroups    StringSet `gorm:"serializer:json" json:"userGroups"`

	StartAt *time.Time `json:"startAt,omitempty"`
	EndAt   *time.Time `json:"endAt,omitempty"`

	IsActive     bool `gorm:"default:true;index" json:"isActive"`
	UsageLimit   int  `gorm:"default:0" json:"usageLimit"` // 0 = unlimited
	UsageCount   int  `gorm:"default:0" json:"usageCount"`
	PerUserLimit int  `gorm:"default:0" json:"perUserLimit"`
	Stackable    bool `json:"stackable"`
	Priority     int  `gorm:"default:0;index" json:"priority"`
}
