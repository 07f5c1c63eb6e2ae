package entity

// Cart lines arrive as client-submitted JSON and may be stale. Every cached
// price on them is a hint only; services.PriceService recomputes the
// authoritative numbers and never mutates the lines.

type ToppingSelection struct {
	ToppingID uint    `json:"toppingId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`     // cached unit price
	Quantity  int     `json:"quantity"`  // 0 = not set, intensity applies instead
	Intensity string  `json:"intensity"` // LIGHT | REGULAR | EXTRA
}

type PizzaLine struct {
	ID         string  `json:"id"`
	SizeID     uint    `json:"sizeId"`
	SizePrice  float64 `json:"sizePrice"` // cached base price
	CrustID    uint    `json:"crustId"`
	CrustPrice float64 `json:"crustPrice"` // cached modifier
	SauceID    uint    `json:"sauceId"`
	SaucePrice float64 `json:"saucePrice"` // cached modifier

	Toppings []ToppingSelection `json:"toppings"`
	Notes    string             `json:"notes"`

	// specialty signals, checked in this order by the pricing predicate
	IsSpecialty   bool   `json:"isSpecialty"`
	SpecialtyID   uint   `json:"specialtyId"`
	SpecialtyName string `json:"specialtyName"`
}

type CustomizationSelection struct {
	OptionID      uint         `json:"optionId"`
	OptionName    string       `json:"optionName"`
	GroupName     string       `json:"groupName"`
	PriceModifier float64      `json:"priceModifier"` // cached modifier
	ModifierKind  ModifierKind `json:"modifierKind"`
	Quantity      int          `json:"quantity"`
}

type MenuLine struct {
	ID           string  `json:"id"`
	MenuItemID   uint    `json:"menuItemId"`
	MenuItemName string  `json:"menuItemName"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"` // cached unit price
	Quantity     int     `json:"quantity"`

	Customizations []CustomizationSelection `json:"customizations"`
}

type Cart struct {
	PizzaLines []PizzaLine `json:"pizzaItems"`
	MenuLines  []MenuLine  `json:"menuItems"`
}
