package configs

import (
	"log"

	"github.com/auy1jlll/pizza-vx-sub002/entity"
)

// SeedCatalog fills an empty catalog with a starter menu for local runs.
func SeedCatalog() error {
	db := DB()

	var count int64
	db.Model(&entity.Size{}).Count(&count)
	if count > 0 {
		log.Println("catalog already seeded")
		return nil
	}

	// Sizes
	db.FirstOrCreate(&entity.Size{}, entity.Size{Name: "Small", BasePrice: 9.99, SortOrder: 1})
	db.FirstOrCreate(&entity.Size{}, entity.Size{Name: "Medium", BasePrice: 12.99, SortOrder: 2})
	db.FirstOrCreate(&entity.Size{}, entity.Size{Name: "Large", BasePrice: 15.99, SortOrder: 3})

	// Crusts
	db.FirstOrCreate(&entity.Crust{}, entity.Crust{Name: "Hand Tossed", PriceModifier: 0, IsAvailable: true})
	db.FirstOrCreate(&entity.Crust{}, entity.Crust{Name: "Thin", PriceModifier: 0, IsAvailable: true})
	db.FirstOrCreate(&entity.Crust{}, entity.Crust{Name: "Stuffed", PriceModifier: 2.50, IsAvailable: true})

	// Sauces
	db.FirstOrCreate(&entity.Sauce{}, entity.Sauce{Name: "Tomato", PriceModifier: 0, IsAvailable: true})
	db.FirstOrCreate(&entity.Sauce{}, entity.Sauce{Name: "Garlic Parmesan", PriceModifier: 1.00, IsAvailable: true})

	// Toppings
	db.FirstOrCreate(&entity.Topping{}, entity.Topping{Name: "Pepperoni", Price: 1.50, Category: "meat", IsAvailable: true})
	db.FirstOrCreate(&entity.Topping{}, entity.Topping{Name: "Mushrooms", Price: 1.00, Category: "veggie", IsAvailable: true})
	db.FirstOrCreate(&entity.Topping{}, entity.Topping{Name: "Extra Cheese", Price: 2.00, Category: "cheese", IsAvailable: true})

	// Menu items
	db.FirstOrCreate(&entity.MenuItem{}, entity.MenuItem{Name: "Garlic Knots", Category: "sides", BasePrice: 5.99, IsAvailable: true})
	db.FirstOrCreate(&entity.MenuItem{}, entity.MenuItem{Name: "Caesar Salad", Category: "sides", BasePrice: 8.49, IsAvailable: true})
	db.FirstOrCreate(&entity.MenuItem{}, entity.MenuItem{Name: "Soda", Category: "drinks", BasePrice: 2.49, IsAvailable: true})

	// Customization groups
	dressing := entity.OptionGroup{Name: "Dressing", MaxSelect: 1}
	db.FirstOrCreate(&dressing, entity.OptionGroup{Name: "Dressing"})
	db.FirstOrCreate(&entity.CustomizationOption{}, entity.CustomizationOption{
		OptionGroupID: dressing.ID, Name: "Ranch", PriceModifier: 0.75, ModifierKind: entity.ModifierFlat, IsAvailable: true,
	})
	db.FirstOrCreate(&entity.CustomizationOption{}, entity.CustomizationOption{
		OptionGroupID: dressing.ID, Name: "Extra Caesar", PriceModifier: 0.50, ModifierKind: entity.ModifierFlat, IsAvailable: true,
	})

	log.Println("catalog seeded")
	return nil
}

// SeedPromotions creates a few demo promotions on first run.
func SeedPromotions() error {
	db := DB()

	var count int64
	db.Model(&entity.Promotion{}).Count(&count)
	if count > 0 {
		log.Println("promotions already seeded")
		return nil
	}

	rows := []entity.Promotion{
		{
			Name: "10% Off Everything", Kind: entity.PromoPercentage,
			DiscountValue: 10, IsActive: true, Priority: 1,
		},
		{
			Name: "5 Off Orders Over 30", Kind: entity.PromoFixedAmount,
			DiscountValue: 5, MinimumOrderAmount: 30, IsActive: true, Priority: 2,
		},
		{
			Name: "Pizza BOGO Half Off", Kind: entity.PromoBuyOneGetSecondHalf,
			DiscountValue: 50, ApplicableCategories: entity.StringSet{"pizza"},
			IsActive: true, Priority: 3,
		},
		{
			Name: "Members Free Delivery", Kind: entity.PromoFreeDelivery,
			DiscountValue: 4.99, RequiresLogin: true,
			UserGroups: entity.StringSet{"member", "vip"},
			IsActive:   true, Priority: 0,
		},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			return err
		}
	}

	log.Println("promotions seeded")
	return nil
}
