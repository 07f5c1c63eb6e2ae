package controllers

import (
	"errors"

	"github.com/auy1jlll/pizza-vx-sub002/entity"
	"github.com/auy1jlll/pizza-vx-sub002/pkg/resp"
	"github.com/auy1jlll/pizza-vx-sub002/services"
	"github.com/auy1jlll/pizza-vx-sub002/utils"

	"github.com/gin-gonic/gin"
)

type PricingController struct {
	Prices *services.PriceService
	Promos *services.PromotionService
}

func NewPricingController(prices *services.PriceService, promos *services.PromotionService) *PricingController {
	return &PricingController{Prices: prices, Promos: promos}
}

// POST /cart/price
func (h *PricingController) RefreshPrices(c *gin.Context) {
	var cart entity.Cart
	if err := c.ShouldBindJSON(&cart); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	prices, err := h.Prices.RefreshCart(&cart)
	if err != nil {
		if errors.Is(err, services.ErrCatalogUnavailable) {
			resp.Unavailable(c, err)
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, prices)
}

// POST /cart/quote
// Refreshes prices and applies the best promotion in one round trip. Tax and
// delivery fee stay with the checkout flow; this returns item-level totals.
func (h *PricingController) Quote(c *gin.Context) {
	var cart entity.Cart
	if err := c.ShouldBindJSON(&cart); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	prices, err := h.Prices.RefreshCart(&cart)
	if err != nil {
		if errors.Is(err, services.ErrCatalogUnavailable) {
			resp.Unavailable(c, err)
			return
		}
		resp.ServerError(c, err)
		return
	}

	lines := services.BuildPricedLines(&cart, prices)
	result, err := h.Promos.ApplyBestPromotions(lines, services.ApplyOptions{
		UserGroup: utils.CurrentUserGroup(c),
		LoggedIn:  utils.CurrentUserID(c) != 0,
	})
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	resp.OK(c, gin.H{"prices": prices, "promotion": result})
}
