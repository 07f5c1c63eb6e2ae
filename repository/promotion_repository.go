package repository

import (
	"time"

	"github.com/auy1jlll/pizza-vx-sub002/entity"
	"github.com/auy1jlll/pizza-vx-sub002/pkg/resilient"

	"gorm.io/gorm"
)

type PromotionRepository struct {
	DB   *gorm.DB
	Exec *resilient.Executor
}

func NewPromotionRepository(db *gorm.DB, exec *resilient.Executor) *PromotionRepository {
	return &PromotionRepository{DB: db, Exec: exec}
}

// Active returns promotions valid at now: active flag set, inside the date
// window (either bound may be open) and under their usage limit, highest
// priority first. User-group and login gates are applied by the engine, not
// here, because they depend on the requesting user.
func (r *PromotionRepository) Active(now time.Time) ([]entity.Promotion, error) {
	var rows []entity.Promotion
	err := r.Exec.Do(func() error {
		return r.DB.
			Where("is_active = ?", true).
			Where("(start_at IS NULL OR start_at <= ?) AND (end_at IS NULL OR end_at >= ?)", now, now).
			Where("usage_limit = 0 OR usage_count < usage_limit").
			Order("priority DESC").
			Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// IncrementUsage bumps usage_count as a single SQL expression so concurrent
// order completions for the same promotion stay correct.
func (r *PromotionRepository) IncrementUsage(id uint) error {
	return r.Exec.Do(func() error {
		return r.DB.Model(&entity.Promotion{}).
			Where("id = ?", id).
			UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1)).Error
	})
}
