package services

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/auy1jlll/pizza-vx-sub002/entity"
	"github.com/auy1jlll/pizza-vx-sub002/utils"
)

// PromotionStore is the promotion surface of the catalog store.
// repository.PromotionRepository satisfies it.
type PromotionStore interface {
	Active(now time.Time) ([]entity.Promotion, error)
	IncrementUsage(id uint) error
}

// PricedLine is one cart line after the price refresh; its totals are
// authoritative. BuildPricedLines assembles these from the refresh output.
type PricedLine struct {
	LineID    string  `json:"lineId"`
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

type DiscountDetail struct {
	LineID         string  `json:"lineId"`
	Name           string  `json:"name"`
	OriginalPrice  float64 `json:"originalPrice"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalPrice     float64 `json:"finalPrice"`
	Reason         string  `json:"reason"`
}

type AppliedPromotion struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	DiscountAmount float64 `json:"discountAmount"`
}

// PromotionResult is built fresh per evaluation and never persisted.
// OriginalTotal is always the full cart total, even for promotions whose
// discount is computed over a restricted subset, so callers can always take
// FinalTotal = OriginalTotal - DiscountAmount.
type PromotionResult struct {
	OriginalTotal  float64            `json:"originalTotal"`
	DiscountAmount float64            `json:"discountAmount"`
	FinalTotal     float64            `json:"finalTotal"`
	Description    string             `json:"description"`
	Details        []DiscountDetail   `json:"details"`
	Applied        []AppliedPromotion `json:"appliedPromotions"`
}

type ApplyOptions struct {
	UserGroup string
	LoggedIn  bool
}

type PromotionService struct {
	Store PromotionStore
}

func NewPromotionService(store PromotionStore) *PromotionService {
	return &PromotionService{Store: store}
}

// BuildPricedLines joins the client cart with the refreshed prices so the
// promotion engine only ever sees authoritative totals. Lines the refresh
// skipped are omitted here too.
func BuildPricedLines(cart *entity.Cart, prices *CartPrices) []PricedLine {
	pizza := make(map[string]float64, len(prices.PizzaLines))
	for _, lp := range prices.PizzaLines {
		pizza[lp.ID] = lp.CurrentPrice
	}
	menu := make(map[string]float64, len(prices.MenuLines))
	for _, lp := range prices.MenuLines {
		menu[lp.ID] = lp.CurrentPrice
	}

	out := make([]PricedLine, 0, len(pizza)+len(menu))
	for _, l := range cart.PizzaLines {
		price, ok := pizza[l.ID]
		if !ok {
			continue
		}
		name := l.SpecialtyName
		if name == "" {
			name = "Custom Pizza"
		}
		var itemID string
		if l.SpecialtyID != 0 {
			itemID = strconv.FormatUint(uint64(l.SpecialtyID), 10)
		}
		out = append(out, PricedLine{
			LineID:    l.ID,
			ItemID:    itemID,
			Name:      name,
			Category:  "pizza",
			Quantity:  1,
			UnitPrice: price,
			Total:     price,
		})
	}
	for _, l := range cart.MenuLines {
		price, ok := menu[l.ID]
		if !ok {
			continue
		}
		qty := l.Quantity
		if qty <= 0 {
			qty = 1
		}
		category := l.Category
		if category == "" {
			category = "menu"
		}
		out = append(out, PricedLine{
			LineID:    l.ID,
			ItemID:    strconv.FormatUint(uint64(l.MenuItemID), 10),
			Name:      l.MenuItemName,
			Category:  category,
			Quantity:  qty,
			UnitPrice: price,
			Total:     utils.Round2(price * float64(qty)),
		})
	}
	return out
}

// ApplyBestPromotions evaluates every active, eligible, applicable promotion
// independently and returns the one yielding the strictly largest discount.
// Ties keep the earlier candidate, which is the higher-priority one since
// the active set arrives priority-ordered.
func (s *PromotionService) ApplyBestPromotions(lines []PricedLine, opts ApplyOptions) (*PromotionResult, error) {
	total := cartTotal(lines)

	promos, err := s.Store.Active(time.Now())
	if err != nil {
		return nil, err
	}

	var best *PromotionResult
	var bestAmount float64
	for i := range promos {
		p := &promos[i]
		if p.RequiresLogin && !opts.LoggedIn {
			continue
		}
		if len(p.UserGroups) > 0 && !p.UserGroups.Contains(opts.UserGroup) {
			continue
		}
		if !isApplicable(p, lines, total) {
			continue
		}
		res := s.allocate(p, lines, total)
		if res == nil {
			continue
		}
		if res.DiscountAmount > bestAmount {
			best = res
			bestAmount = res.DiscountAmount
		}
	}

	if best == nil {
		return noPromotionResult(total), nil
	}
	return best, nil
}

// RecordUsage bumps the promotion's usage counter. The order-finalization
// flow must call this exactly once per completed order that used it.
func (s *PromotionService) RecordUsage(promotionID uint) error {
	return s.Store.IncrementUsage(promotionID)
}

func noPromotionResult(total float64) *PromotionResult {
	return &PromotionResult{
		OriginalTotal: utils.Round2(total),
		FinalTotal:    utils.Round2(total),
		Description:   "no applicable promotions",
		Details:       []DiscountDetail{},
		Applied:       []AppliedPromotion{},
	}
}

func cartTotal(lines []PricedLine) float64 {
	var t float64
	for _, l := range lines {
		t += l.Total
	}
	return t
}

func cartQuantity(lines []PricedLine) int {
	var n int
	for _, l := range lines {
		if l.Quantity > 0 {
			n += l.Quantity
		} else {
			n++
		}
	}
	return n
}

// isApplicable is the gate a promotion must pass before allocation is even
// attempted. Failing any check skips the promotion for this evaluation.
func isApplicable(p *entity.Promotion, lines []PricedLine, total float64) bool {
	if p.MinimumOrderAmount > 0 && total < p.MinimumOrderAmount {
		return false
	}
	if p.MinimumQuantity > 0 && cartQuantity(lines) < p.MinimumQuantity {
		return false
	}
	if len(p.ApplicableCategories) > 0 {
		found := false
		for _, l := range lines {
			if p.ApplicableCategories.Contains(l.Category) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(p.ApplicableItems) > 0 {
		found := false
		for _, l := range lines {
			if l.ItemID != "" && p.ApplicableItems.Contains(l.ItemID) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *PromotionService) allocate(p *entity.Promotion, lines []PricedLine, total float64) *PromotionResult {
	switch p.Kind {
	case entity.PromoPercentage:
		return s.percentageDiscount(p, lines, total)
	case entity.PromoFixedAmount:
		return s.fixedAmountDiscount(p, total)
	case entity.PromoCategory:
		return s.categoryDiscount(p, lines, total)
	case entity.PromoBuyOneGetSecondHalf:
		return s.bogoDiscount(p, lines, total, 0.5)
	case entity.PromoBuyOneGetOneFree:
		return s.bogoDiscount(p, lines, total, 1.0)
	case entity.PromoFreeDelivery:
		return s.freeDelivery(p, total)
	default:
		// a kind added upstream without an allocator here
		log.Printf("promotion %d: unknown kind %q, skipping", p.ID, p.Kind)
		return nil
	}
}

// matchingLines restricts to the promotion's categories when set, otherwise
// the whole cart is eligible.
func matchingLines(p *entity.Promotion, lines []PricedLine) []PricedLine {
	if len(p.ApplicableCategories) == 0 {
		return lines
	}
	out := make([]PricedLine, 0, len(lines))
	for _, l := range lines {
		if p.ApplicableCategories.Contains(l.Category) {
			out = append(out, l)
		}
	}
	return out
}

func capDiscount(p *entity.Promotion, discount float64) float64 {
	if p.MaximumDiscountAmount > 0 && discount > p.MaximumDiscountAmount {
		return p.MaximumDiscountAmount
	}
	return discount
}

func (s *PromotionService) result(p *entity.Promotion, total, discount float64, desc string, details []DiscountDetail) *PromotionResult {
	discount = utils.Round2(discount)
	if details == nil {
		details = []DiscountDetail{}
	}
	return &PromotionResult{
		OriginalTotal:  utils.Round2(total),
		DiscountAmount: discount,
		FinalTotal:     utils.Round2(total - discount),
		Description:    desc,
		Details:        details,
		Applied:        []AppliedPromotion{{ID: p.ID, Name: p.Name, DiscountAmount: discount}},
	}
}

// lineShareDetails splits one discount across the eligible lines in
// proportion to their totals, so the details always sum to the reported
// discount even after capping.
func lineShareDetails(eligible []PricedLine, subtotal, discount float64, reason string) []DiscountDetail {
	if subtotal <= 0 {
		return nil
	}
	details := make([]DiscountDetail, 0, len(eligible))
	for _, l := range eligible {
		d := utils.Round2(discount * l.Total / subtotal)
		details = append(details, DiscountDetail{
			LineID:         l.LineID,
			Name:           l.Name,
			OriginalPrice:  l.Total,
			DiscountAmount: d,
			FinalPrice:     utils.Round2(l.Total - d),
			Reason:         reason,
		})
	}
	return details
}

func (s *PromotionService) percentageDiscount(p *entity.Promotion, lines []PricedLine, total float64) *PromotionResult {
	eligible := matchingLines(p, lines)
	subtotal := cartTotal(eligible)
	discount := capDiscount(p, subtotal*p.DiscountValue/100)
	reason := fmt.Sprintf("%.0f%% off (%s)", p.DiscountValue, p.Name)
	desc := fmt.Sprintf("%s: %.0f%% off", p.Name, p.DiscountValue)
	return s.result(p, total, discount, desc, lineShareDetails(eligible, subtotal, discount, reason))
}

// fixedAmountDiscount never discounts below zero.
func (s *PromotionService) fixedAmountDiscount(p *entity.Promotion, total float64) *PromotionResult {
	discount := p.DiscountValue
	if discount > total {
		discount = total
	}
	return s.result(p, total, discount, fmt.Sprintf("%s: %.2f off", p.Name, discount), nil)
}

// categoryDiscount requires at least one matching line; zero matches yields
// a zero-discount result, not an error. Percentage vs fixed math is read
// from the promotion's own discount-type field.
func (s *PromotionService) categoryDiscount(p *entity.Promotion, lines []PricedLine, total float64) *PromotionResult {
	eligible := matchingLines(p, lines)
	if len(eligible) == 0 {
		return s.result(p, total, 0, fmt.Sprintf("%s: no matching items", p.Name), nil)
	}

	subtotal := cartTotal(eligible)
	var discount float64
	if p.DiscountType == entity.DiscountFixed {
		discount = p.DiscountValue
		if discount > subtotal {
			discount = subtotal
		}
	} else {
		discount = subtotal * p.DiscountValue / 100
	}
	discount = capDiscount(p, discount)
	reason := fmt.Sprintf("category discount (%s)", p.Name)
	return s.result(p, total, discount, p.Name, lineShareDetails(eligible, subtotal, discount, reason))
}

type bogoUnit struct {
	lineID string
	name   string
	price  float64
}

// bogoDiscount expands every eligible line into one unit per unit of
// quantity, sorts the units by ascending price and discounts the cheapest
// floor(n/2) of them at the given rate. The customer keeps their most
// expensive units at full price.
func (s *PromotionService) bogoDiscount(p *entity.Promotion, lines []PricedLine, total, rate float64) *PromotionResult {
	eligible := matchingLines(p, lines)

	var units []bogoUnit
	for _, l := range eligible {
		qty := l.Quantity
		if qty <= 0 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			units = append(units, bogoUnit{lineID: l.LineID, name: l.Name, price: l.UnitPrice})
		}
	}
	if len(units) < 2 {
		return s.result(p, total, 0, fmt.Sprintf("%s: not enough eligible items", p.Name), nil)
	}

	sort.Slice(units, func(i, j int) bool { return units[i].price < units[j].price })

	discounted := len(units) / 2
	var discount float64
	details := make([]DiscountDetail, 0, discounted)
	for i := 0; i < discounted; i++ {
		d := utils.Round2(units[i].price * rate)
		discount += d
		details = append(details, DiscountDetail{
			LineID:         units[i].lineID,
			Name:           units[i].name,
			OriginalPrice:  units[i].price,
			DiscountAmount: d,
			FinalPrice:     utils.Round2(units[i].price - d),
			Reason:         p.Name,
		})
	}
	discount = capDiscount(p, discount)
	desc := fmt.Sprintf("%s: %d item(s) discounted", p.Name, discounted)
	return s.result(p, total, discount, desc, details)
}

// freeDelivery waives the configured delivery fee as a flat subtraction; it
// never inspects the line contents beyond the generic applicability gate.
func (s *PromotionService) freeDelivery(p *entity.Promotion, total float64) *PromotionResult {
	return s.result(p, total, p.DiscountValue, fmt.Sprintf("%s: delivery fee waived", p.Name), nil)
}
