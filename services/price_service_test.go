package services

import (
	"errors"
	"testing"
	"time"

	"github.com/auy1jlll/pizza-vx-sub002/entity"
	"github.com/auy1jlll/pizza-vx-sub002/pkg/resilient"
	"github.com/auy1jlll/pizza-vx-sub002/repository"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&entity.Size{}, &entity.Crust{}, &entity.Sauce{}, &entity.Topping{},
		&entity.MenuItem{}, &entity.OptionGroup{}, &entity.CustomizationOption{},
		&entity.Promotion{},
	); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func testExecutor() *resilient.Executor {
	return resilient.NewExecutor(resilient.Options{Retries: 1, Delay: time.Millisecond, Backoff: false}, nil)
}

func seedCatalog(t *testing.T, db *gorm.DB) (size entity.Size, crust entity.Crust, sauce entity.Sauce, pep entity.Topping, mush entity.Topping) {
	size = entity.Size{Name: "Medium", BasePrice: 12.99}
	crust = entity.Crust{Name: "Stuffed", PriceModifier: 2.50, IsAvailable: true}
	sauce = entity.Sauce{Name: "Garlic", PriceModifier: 1.00, IsAvailable: true}
	pep = entity.Topping{Name: "Pepperoni", Price: 1.50, IsAvailable: true}
	mush = entity.Topping{Name: "Mushrooms", Price: 1.00, IsAvailable: true}

	assert.NoError(t, db.Create(&size).Error)
	assert.NoError(t, db.Create(&crust).Error)
	assert.NoError(t, db.Create(&sauce).Error)
	assert.NoError(t, db.Create(&pep).Error)
	assert.NoError(t, db.Create(&mush).Error)
	return
}

func newPriceService(t *testing.T, db *gorm.DB) *PriceService {
	return NewPriceService(repository.NewCatalogRepository(db, testExecutor()))
}

// flakyStore wraps a real store but fails or panics on chosen lookups.
type flakyStore struct {
	CatalogStore
	failCrustID    uint
	panicToppingID uint
	pingErr        error
}

func (f *flakyStore) CrustByID(id uint) (*entity.Crust, error) {
	if id == f.failCrustID {
		return nil, errors.New("dial tcp: connection refused")
	}
	return f.CatalogStore.CrustByID(id)
}

func (f *flakyStore) ToppingByID(id uint) (*entity.Topping, error) {
	if id == f.panicToppingID {
		panic("corrupt topping row")
	}
	return f.CatalogStore.ToppingByID(id)
}

func (f *flakyStore) Ping() error {
	if f.pingErr != nil {
		return f.pingErr
	}
	return f.CatalogStore.Ping()
}

func TestResolvePizzaPriceAdditivity(t *testing.T) {
	db := setupTestDB(t)
	size, crust, sauce, pep, mush := seedCatalog(t, db)
	svc := newPriceService(t, db)

	line := entity.PizzaLine{
		ID:     "p1",
		SizeID: size.ID, SizePrice: 10.00, // stale hint, catalog wins
		CrustID: crust.ID, CrustPrice: 9.99,
		SauceID: sauce.ID, SaucePrice: 9.99,
		Toppings: []entity.ToppingSelection{
			{ToppingID: pep.ID, Price: 9.99},
			{ToppingID: mush.ID, Price: 9.99, Intensity: "LIGHT"},
		},
	}

	out := svc.ResolvePizzaPrice(&line)
	assert.Equal(t, 16.49, out.BasePrice) // 12.99 + 2.50 + 1.00
	assert.Equal(t, 2.25, out.ToppingsPrice) // 1.50 + 1.00*0.75
	assert.Equal(t, 0.0, out.CustomizationsPrice)
	assert.Equal(t, 18.74, out.TotalPrice)
}

func TestSpecialtyThresholdBypassesCatalog(t *testing.T) {
	db := setupTestDB(t)
	size, _, _, _, _ := seedCatalog(t, db)
	svc := newPriceService(t, db)

	// no explicit specialty flags, but the cached price is over the
	// threshold: the catalog's 12.99 must not be used
	line := entity.PizzaLine{ID: "p1", SizeID: size.ID, SizePrice: 35.00}
	out := svc.ResolvePizzaPrice(&line)
	assert.Equal(t, 35.00, out.BasePrice)
	assert.Equal(t, 35.00, out.TotalPrice)
}

func TestSpecialtyNoteMarker(t *testing.T) {
	db := setupTestDB(t)
	size, _, _, _, _ := seedCatalog(t, db)
	svc := newPriceService(t, db)

	line := entity.PizzaLine{
		ID:     "p1",
		SizeID: size.ID, SizePrice: 18.99,
		Notes: "Specialty Calzone: Meat Lovers",
	}
	out := svc.ResolvePizzaPrice(&line)
	assert.Equal(t, 18.99, out.BasePrice)
}

func TestSpecialtyExplicitFlag(t *testing.T) {
	db := setupTestDB(t)
	size, _, _, _, _ := seedCatalog(t, db)
	svc := newPriceService(t, db)

	line := entity.PizzaLine{ID: "p1", SizeID: size.ID, SizePrice: 17.49, IsSpecialty: true}
	out := svc.ResolvePizzaPrice(&line)
	assert.Equal(t, 17.49, out.BasePrice)
}

func TestToppingQuantityBeatsIntensity(t *testing.T) {
	db := setupTestDB(t)
	size, _, _, pep, _ := seedCatalog(t, db)
	svc := newPriceService(t, db)

	line := entity.PizzaLine{
		ID:     "p1",
		SizeID: size.ID,
		Toppings: []entity.ToppingSelection{
			{ToppingID: pep.ID, Quantity: 3, Intensity: "EXTRA"},
		},
	}
	out := svc.ResolvePizzaPrice(&line)
	assert.Equal(t, 4.50, out.ToppingsPrice) // 1.50 * 3, not * 1.5
}

func TestToppingIntensityExtra(t *testing.T) {
	db := setupTestDB(t)
	size, _, _, pep, _ := seedCatalog(t, db)
	svc := newPriceService(t, db)

	line := entity.PizzaLine{
		ID:       "p1",
		SizeID:   size.ID,
		Toppings: []entity.ToppingSelection{{ToppingID: pep.ID, Intensity: "EXTRA"}},
	}
	out := svc.ResolvePizzaPrice(&line)
	assert.Equal(t, 2.25, out.ToppingsPrice) // 1.50 * 1.5
}

func TestCrustLookupFallsBackToCachedModifier(t *testing.T) {
	db := setupTestDB(t)
	size, crust, _, _, _ := seedCatalog(t, db)
	store := &flakyStore{
		CatalogStore: repository.NewCatalogRepository(db, testExecutor()),
		failCrustID:  crust.ID,
	}
	svc := NewPriceService(store)

	line := entity.PizzaLine{
		ID:     "p1",
		SizeID: size.ID,
		CrustID: crust.ID, CrustPrice: 3.25,
	}
	out := svc.ResolvePizzaPrice(&line)
	assert.Equal(t, 16.24, out.BasePrice) // 12.99 + cached 3.25
}

func TestUnknownSizeFallsBackToCachedPrice(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := newPriceService(t, db)

	line := entity.PizzaLine{ID: "p1", SizeID: 9999, SizePrice: 11.49}
	out := svc.ResolvePizzaPrice(&line)
	assert.Equal(t, 11.49, out.BasePrice)
}

func seedMenu(t *testing.T, db *gorm.DB) (entity.MenuItem, entity.CustomizationOption) {
	item := entity.MenuItem{Name: "Caesar Salad", Category: "sides", BasePrice: 8.49, IsAvailable: true}
	assert.NoError(t, db.Create(&item).Error)

	group := entity.OptionGroup{Name: "Dressing"}
	assert.NoError(t, db.Create(&group).Error)
	opt := entity.CustomizationOption{
		OptionGroupID: group.ID, Name: "Ranch",
		PriceModifier: 0.75, ModifierKind: entity.ModifierFlat, IsAvailable: true,
	}
	assert.NoError(t, db.Create(&opt).Error)
	return item, opt
}

func TestResolveMenuLineByID(t *testing.T) {
	db := setupTestDB(t)
	item, opt := seedMenu(t, db)
	svc := newPriceService(t, db)

	line := entity.MenuLine{
		ID: "m1", MenuItemID: item.ID, Price: 1.00,
		Customizations: []entity.CustomizationSelection{
			{OptionID: opt.ID, Quantity: 2},
		},
	}
	assert.Equal(t, 9.99, svc.ResolveMenuLinePrice(&line)) // 8.49 + 0.75*2
}

func TestResolveMenuLineByName(t *testing.T) {
	db := setupTestDB(t)
	_, _ = seedMenu(t, db)
	svc := newPriceService(t, db)

	line := entity.MenuLine{ID: "m1", MenuItemName: "Caesar Salad", Price: 1.00}
	assert.Equal(t, 8.49, svc.ResolveMenuLinePrice(&line))
}

func TestCustomizationNameGroupFallback(t *testing.T) {
	db := setupTestDB(t)
	item, _ := seedMenu(t, db)
	svc := newPriceService(t, db)

	// no option id, resolved by name within the group
	line := entity.MenuLine{
		ID: "m1", MenuItemID: item.ID,
		Customizations: []entity.CustomizationSelection{
			{OptionName: "Ranch", GroupName: "Dressing"},
		},
	}
	assert.Equal(t, 9.24, svc.ResolveMenuLinePrice(&line)) // 8.49 + 0.75
}

func TestCustomizationCachedFallback(t *testing.T) {
	db := setupTestDB(t)
	item, _ := seedMenu(t, db)
	svc := newPriceService(t, db)

	// neither id nor name resolves: the cached modifier is used
	line := entity.MenuLine{
		ID: "m1", MenuItemID: item.ID,
		Customizations: []entity.CustomizationSelection{
			{OptionName: "Blue Cheese", GroupName: "Dressing", PriceModifier: 1.25},
		},
	}
	assert.Equal(t, 9.74, svc.ResolveMenuLinePrice(&line))
}

func TestMenuItemNotFoundKeepsCachedPrice(t *testing.T) {
	db := setupTestDB(t)
	svc := newPriceService(t, db)

	line := entity.MenuLine{ID: "m1", MenuItemID: 9999, MenuItemName: "Nope", Price: 6.25}
	assert.Equal(t, 6.25, svc.ResolveMenuLinePrice(&line))
}

func TestRefreshCartPerLineIsolation(t *testing.T) {
	db := setupTestDB(t)
	size, _, _, pep, _ := seedCatalog(t, db)
	store := &flakyStore{
		CatalogStore:   repository.NewCatalogRepository(db, testExecutor()),
		panicToppingID: pep.ID,
	}
	svc := NewPriceService(store)

	cart := entity.Cart{
		PizzaLines: []entity.PizzaLine{
			{ID: "p1", SizeID: size.ID},
			{ID: "p2", SizeID: size.ID, Toppings: []entity.ToppingSelection{{ToppingID: pep.ID}}},
			{ID: "p3", SizeID: size.ID},
		},
	}

	out, err := svc.RefreshCart(&cart)
	assert.NoError(t, err)
	assert.Len(t, out.PizzaLines, 3)
	assert.Equal(t, 12.99, out.PizzaLines[0].CurrentPrice)
	assert.Equal(t, 0.0, out.PizzaLines[1].CurrentPrice) // degraded to zero
	assert.Equal(t, 12.99, out.PizzaLines[2].CurrentPrice)
}

func TestRefreshCartSkipsLinesWithoutID(t *testing.T) {
	db := setupTestDB(t)
	size, _, _, _, _ := seedCatalog(t, db)
	svc := newPriceService(t, db)

	cart := entity.Cart{
		PizzaLines: []entity.PizzaLine{
			{ID: "", SizeID: size.ID},
			{ID: "p1", SizeID: size.ID},
		},
	}
	out, err := svc.RefreshCart(&cart)
	assert.NoError(t, err)
	assert.Len(t, out.PizzaLines, 1)
	assert.Equal(t, "p1", out.PizzaLines[0].ID)
}

func TestRefreshCartUnreachableStore(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	store := &flakyStore{
		CatalogStore: repository.NewCatalogRepository(db, testExecutor()),
		pingErr:      errors.New("dial tcp: connection refused"),
	}
	svc := NewPriceService(store)

	_, err := svc.RefreshCart(&entity.Cart{})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestMenuLinePriceRounding(t *testing.T) {
	db := setupTestDB(t)
	item := entity.MenuItem{Name: "Wings", Category: "sides", BasePrice: 7.333, IsAvailable: true}
	assert.NoError(t, db.Create(&item).Error)
	svc := newPriceService(t, db)

	line := entity.MenuLine{
		ID: "m1", MenuItemID: item.ID,
		Customizations: []entity.CustomizationSelection{
			{OptionName: "Sauce", GroupName: "Nope", PriceModifier: 0.333},
		},
	}
	assert.Equal(t, 7.67, svc.ResolveMenuLinePrice(&line))
}
