package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/auy1jlll/pizza-vx-sub002/entity"
	"github.com/auy1jlll/pizza-vx-sub002/utils"

	"gorm.io/gorm"
)

// CatalogStore is the read surface PriceService needs from the catalog.
// repository.CatalogRepository satisfies it.
type CatalogStore interface {
	SizeByID(id uint) (*entity.Size, error)
	CrustByID(id uint) (*entity.Crust, error)
	SauceByID(id uint) (*entity.Sauce, error)
	ToppingByID(id uint) (*entity.Topping, error)
	MenuItemByID(id uint) (*entity.MenuItem, error)
	MenuItemByName(name string) (*entity.MenuItem, error)
	OptionByID(id uint) (*entity.CustomizationOption, error)
	OptionByNameInGroup(name, group string) (*entity.CustomizationOption, error)
	Ping() error
}

// ErrCatalogUnavailable is returned when the store cannot be reached at all
// before any line is priced. It is the only error RefreshCart propagates.
var ErrCatalogUnavailable = errors.New("catalog store unavailable")

// Specialty pizzas and calzones are priced as whole compositions outside the
// per-size table, so a size lookup would silently return the wrong
// (non-specialty) number. Any cached size price above this threshold is
// treated as specialty even without an explicit flag.
const specialtyPriceThreshold = 20.0

const (
	intensityLight = "LIGHT"
	intensityExtra = "EXTRA"
)

type PizzaPrice struct {
	BasePrice           float64 `json:"basePrice"`
	ToppingsPrice       float64 `json:"toppingsPrice"`
	CustomizationsPrice float64 `json:"customizationsPrice"`
	TotalPrice          float64 `json:"totalPrice"`
}

type LinePrice struct {
	ID           string  `json:"id"`
	CurrentPrice float64 `json:"currentPrice"`
}

type CartPrices struct {
	PizzaLines []LinePrice `json:"pizzaItems"`
	MenuLines  []LinePrice `json:"menuItems"`
}

type PriceService struct {
	Store CatalogStore
}

func NewPriceService(store CatalogStore) *PriceService {
	return &PriceService{Store: store}
}

// isSpecialtyPriced combines the explicit flags, the note markers and the
// price threshold, in that order.
func isSpecialtyPriced(line *entity.PizzaLine) bool {
	if line.IsSpecialty || line.SpecialtyID != 0 || line.SpecialtyName != "" {
		return true
	}
	if strings.Contains(line.Notes, "Specialty Pizza:") ||
		strings.Contains(line.Notes, "Specialty Calzone:") ||
		strings.Contains(line.Notes, "**") {
		return true
	}
	return line.SizePrice > specialtyPriceThreshold
}

// toppingMultiplier applies exactly one multiplier per selection.
// An explicit quantity wins over the intensity tag.
func toppingMultiplier(t entity.ToppingSelection) float64 {
	if t.Quantity > 0 {
		return float64(t.Quantity)
	}
	switch strings.ToUpper(t.Intensity) {
	case intensityLight:
		return 0.75
	case intensityExtra:
		return 1.5
	default:
		return 1.0
	}
}

// ResolvePizzaPrice recomputes the authoritative price of one pizza line
// from current catalog data, falling back to the line's cached values
// component by component when a lookup fails. A panic anywhere degrades the
// line to an all-zero result; the caller isolates it.
func (s *PriceService) ResolvePizzaPrice(line *entity.PizzaLine) (out PizzaPrice) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pizza line %s: pricing failed, returning zero result: %v", line.ID, r)
			out = PizzaPrice{}
		}
	}()

	var base float64
	switch {
	case isSpecialtyPriced(line):
		// the cached price is the whole composition; skip the size lookup
		base = line.SizePrice
	case line.SizeID != 0:
		if size, err := s.Store.SizeByID(line.SizeID); err == nil {
			base = size.BasePrice
		} else {
			log.Printf("pizza line %s: size %d lookup failed, using cached price: %v", line.ID, line.SizeID, err)
			base = line.SizePrice
		}
	default:
		base = line.SizePrice
	}

	if line.CrustID != 0 {
		if crust, err := s.Store.CrustByID(line.CrustID); err == nil {
			base += crust.PriceModifier
		} else {
			log.Printf("pizza line %s: crust %d lookup failed, using cached modifier: %v", line.ID, line.CrustID, err)
			base += line.CrustPrice
		}
	}

	if line.SauceID != 0 {
		if sauce, err := s.Store.SauceByID(line.SauceID); err == nil {
			base += sauce.PriceModifier
		} else {
			log.Printf("pizza line %s: sauce %d lookup failed, using cached modifier: %v", line.ID, line.SauceID, err)
			base += line.SaucePrice
		}
	}

	var toppings float64
	for _, t := range line.Toppings {
		unit := t.Price
		if top, err := s.Store.ToppingByID(t.ToppingID); err == nil {
			unit = top.Price
		} else {
			log.Printf("pizza line %s: topping %d lookup failed, using cached price: %v", line.ID, t.ToppingID, err)
		}
		toppings += unit * toppingMultiplier(t)
	}

	out = PizzaPrice{
		BasePrice:     utils.Round2(base),
		ToppingsPrice: utils.Round2(toppings),
	}
	out.TotalPrice = utils.Round2(out.BasePrice + out.ToppingsPrice + out.CustomizationsPrice)
	return out
}

// ResolveMenuLinePrice recomputes the authoritative unit price of one menu
// line. An unresolvable menu item or a panic degrades to the cached price.
func (s *PriceService) ResolveMenuLinePrice(line *entity.MenuLine) (out float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("menu line %s: pricing failed, keeping cached price: %v", line.ID, r)
			out = line.Price
		}
	}()

	item := s.resolveMenuItem(line)
	if item == nil {
		log.Printf("menu line %s: menu item not found (id=%d name=%q), keeping cached price", line.ID, line.MenuItemID, line.MenuItemName)
		return line.Price
	}

	total := item.BasePrice
	for _, sel := range line.Customizations {
		total += s.customizationPrice(line.ID, sel)
	}
	return utils.Round2(total)
}

func (s *PriceService) resolveMenuItem(line *entity.MenuLine) *entity.MenuItem {
	if line.MenuItemID != 0 {
		if item, err := s.Store.MenuItemByID(line.MenuItemID); err == nil {
			return item
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("menu line %s: menu item %d lookup failed: %v", line.ID, line.MenuItemID, err)
		}
	}
	if line.MenuItemName != "" {
		if item, err := s.Store.MenuItemByName(line.MenuItemName); err == nil {
			return item
		}
	}
	return nil
}

// customizationPrice uses the first method that succeeds: option by id,
// option by name within its group, then the cached modifier from the line.
// Percentage-kind modifiers already carry the intended amount, so all kinds
// resolve the same way here.
func (s *PriceService) customizationPrice(lineID string, sel entity.CustomizationSelection) float64 {
	qty := sel.Quantity
	if qty <= 0 {
		qty = 1
	}
	if sel.OptionID != 0 {
		if opt, err := s.Store.OptionByID(sel.OptionID); err == nil && opt.PriceModifier != 0 {
			return opt.PriceModifier * float64(qty)
		}
	}
	if sel.OptionName != "" && sel.GroupName != "" {
		if opt, err := s.Store.OptionByNameInGroup(sel.OptionName, sel.GroupName); err == nil && opt.PriceModifier != 0 {
			return opt.PriceModifier * float64(qty)
		}
	}
	log.Printf("menu line %s: option %q unresolved, using cached modifier", lineID, sel.OptionName)
	return sel.PriceModifier * float64(qty)
}

// RefreshCart recomputes every line's price, isolating failures per line so
// one bad lookup can never abort the rest of the cart. The store is probed
// once up front; an unreachable store is the only error that propagates.
func (s *PriceService) RefreshCart(cart *entity.Cart) (*CartPrices, error) {
	if err := s.Store.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	out := &CartPrices{
		PizzaLines: make([]LinePrice, 0, len(cart.PizzaLines)),
		MenuLines:  make([]LinePrice, 0, len(cart.MenuLines)),
	}

	for i := range cart.PizzaLines {
		line := &cart.PizzaLines[i]
		if line.ID == "" {
			log.Println("skipping pizza line without id")
			continue
		}
		price := s.safePizzaPrice(line)
		out.PizzaLines = append(out.PizzaLines, LinePrice{ID: line.ID, CurrentPrice: price.TotalPrice})
	}

	for i := range cart.MenuLines {
		line := &cart.MenuLines[i]
		if line.ID == "" {
			log.Println("skipping menu line without id")
			continue
		}
		out.MenuLines = append(out.MenuLines, LinePrice{ID: line.ID, CurrentPrice: s.safeMenuPrice(line)})
	}

	return out, nil
}

// safePizzaPrice backstops ResolvePizzaPrice's own recover so a corrupt line
// degrades to the all-zero result instead of taking down the refresh.
func (s *PriceService) safePizzaPrice(line *entity.PizzaLine) (out PizzaPrice) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pizza line %s: refresh failed: %v", line.ID, r)
			out = PizzaPrice{}
		}
	}()
	return s.ResolvePizzaPrice(line)
}

func (s *PriceService) safeMenuPrice(line *entity.MenuLine) (out float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("menu line %s: refresh failed: %v", line.ID, r)
			out = line.Price
		}
	}()
	return s.ResolveMenuLinePrice(line)
}
