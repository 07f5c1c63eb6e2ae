package controllers

import (
	"strconv"
	"time"

	"github.com/auy1jlll/pizza-vx-sub002/pkg/resp"
	"github.com/auy1jlll/pizza-vx-sub002/repository"
	"github.com/auy1jlll/pizza-vx-sub002/services"

	"github.com/gin-gonic/gin"
)

type PromotionController struct {
	Repo *repository.PromotionRepository
	Svc  *services.PromotionService
}

func NewPromotionController(repo *repository.PromotionRepository, svc *services.PromotionService) *PromotionController {
	return &PromotionController{Repo: repo, Svc: svc}
}

// GET /promotions (public)
func (h *PromotionController) ListActive(c *gin.Context) {
	rows, err := h.Repo.Active(time.Now())
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rows)
}

// POST /promotions/:id/redemptions
// Called by the order-finalization flow, once per completed order that used
// the promotion.
func (h *PromotionController) RecordRedemption(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		resp.BadRequest(c, "invalid promotion id")
		return
	}
	if err := h.Svc.RecordUsage(uint(id)); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"recorded": true})
}
