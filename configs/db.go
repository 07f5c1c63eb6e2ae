package configs

import (
	"github.com/auy1jlll/pizza-vx-sub002/entity"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(cfg *Config) {
	var dial gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dial = mysql.Open(cfg.DBSource)
	default:
		dial = sqlite.Open(cfg.DBSource)
	}

	database, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db = database
}

func SetupDatabase() {

	// Migrate the schema
	db.AutoMigrate(
		&entity.Size{}, &entity.Crust{}, &entity.Sauce{}, &entity.Topping{},
		&entity.MenuItem{}, &entity.OptionGroup{}, &entity.CustomizationOption{},
		&entity.Promotion{},
	)
}
