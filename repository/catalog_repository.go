package repository

import (
	"github.com/auy1jlll/pizza-vx-sub002/entity"
	"github.com/auy1jlll/pizza-vx-sub002/pkg/resilient"

	"gorm.io/gorm"
)

// CatalogRepository is the read side of the catalog. Every query goes
// through the resilient executor so transient connection failures surface to
// callers only as latency.
type CatalogRepository struct {
	DB   *gorm.DB
	Exec *resilient.Executor
}

func NewCatalogRepository(db *gorm.DB, exec *resilient.Executor) *CatalogRepository {
	return &CatalogRepository{DB: db, Exec: exec}
}

func (r *CatalogRepository) SizeByID(id uint) (*entity.Size, error) {
	var row entity.Size
	if err := r.Exec.Do(func() error { return r.DB.First(&row, id).Error }); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) CrustByID(id uint) (*entity.Crust, error) {
	var row entity.Crust
	if err := r.Exec.Do(func() error { return r.DB.First(&row, id).Error }); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) SauceByID(id uint) (*entity.Sauce, error) {
	var row entity.Sauce
	if err := r.Exec.Do(func() error { return r.DB.First(&row, id).Error }); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) ToppingByID(id uint) (*entity.Topping, error) {
	var row entity.Topping
	if err := r.Exec.Do(func() error { return r.DB.First(&row, id).Error }); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) MenuItemByID(id uint) (*entity.MenuItem, error) {
	var row entity.MenuItem
	if err := r.Exec.Do(func() error { return r.DB.First(&row, id).Error }); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) MenuItemByName(name string) (*entity.MenuItem, error) {
	var row entity.MenuItem
	err := r.Exec.Do(func() error {
		return r.DB.Where("name = ?", name).First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CatalogRepository) OptionByID(id uint) (*entity.CustomizationOption, error) {
	var row entity.CustomizationOption
	if err := r.Exec.Do(func() error { return r.DB.First(&row, id).Error }); err != nil {
		return nil, err
	}
	return &row, nil
}

// OptionByNameInGroup resolves an option by its name within a named group,
// the fallback identity menu lines carry when the option id is absent.
func (r *CatalogRepository) OptionByNameInGroup(name, group string) (*entity.CustomizationOption, error) {
	var row entity.CustomizationOption
	err := r.Exec.Do(func() error {
		return r.DB.
			Joins("JOIN option_groups ON option_groups.id = customization_options.option_group_id").
			Where("customization_options.name = ? AND option_groups.name = ?", name, group).
			First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Ping is the trivial liveness probe.
func (r *CatalogRepository) Ping() error {
	return r.Exec.Do(func() error { return r.DB.Exec("SELECT 1").Error })
}
