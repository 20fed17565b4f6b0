package migration

import (
	"github.com/procurahq/procura/internal/config"
	invoicedomain "github.com/procurahq/procura/internal/invoice/domain"
	productdomain "github.com/procurahq/procura/internal/product/domain"
	"github.com/procurahq/procura/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite installs derive the schema from the models.
			if err := conn.AutoMigrate(
				&productdomain.Product{},
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceItem{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoCatalog(conn)
		}
		return nil
	}),
)
