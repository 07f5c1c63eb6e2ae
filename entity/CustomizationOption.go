package entity

import (
	"gorm.io/gorm"
)

// ModifierKind says how a customization option's PriceModifier is meant to
// be read: a flat amount, a percentage of the base price, or a per-unit
// amount. The stored modifier value already reflects the intended amount, so
// pricing treats all kinds alike; the distinction is an authoring concern.
type ModifierKind string

const (
	ModifierFlat       ModifierKind = "FLAT"
	ModifierPercentage ModifierKind = "PERCENTAGE"
	ModifierPerUnit    ModifierKind = "PER_UNIT"
)

type CustomizationOption struct {
	gorm.Model
	OptionGroupID uint        `gorm:"index" json:"optionGroupId"`
	OptionGroup   OptionGroup `json:"-"`

	Name          string       `gorm:"size:100;index;not null" json:"name"`
	PriceModifier float64      `gorm:"type:decimal(10,2)" json:"priceModifier"`
	ModifierKind  ModifierKind `gorm:"size:20;default:'FLAT'" json:"modifierKind"`
	DefaultSelect bool         `json:"defaultSelect"`
	IsAvailable   bool         `gorm:"default:true" json:"isAvailable"`
	SortOrder     int          `json:"sortOrder"`
}
