package infra

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dario-aloisi/gestionale-ordini/internal/model"
)

// NewDatabase opens the sqlite file behind GORM and runs AutoMigrate over the
// four domain tables. The store is one local file; the only tuning needed is
// foreign_keys, which sqlite leaves off by default and the RigaOrdine cascade
// depends on.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("pragma foreign_keys: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Cliente{},
		&model.Prodotto{},
		&model.Ordine{},
		&model.RigaOrdine{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}
