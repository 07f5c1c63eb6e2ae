package entity

import (
	"gorm.io/gorm"
)

type OptionGroup struct {
	gorm.Model
	Name       string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	MinSelect  int    `json:"minSelect"`
	MaxSelect  int    `json:"maxSelect"`
	IsRequired bool   `json:"isRequired"`
	SortOrder  int    `json:"sortOrder"`

	Options []CustomizationOption `json:"options"`

	MenuItems []MenuItem `gorm:"many2many:menu_item_option_groups;" json:"-"`
}
