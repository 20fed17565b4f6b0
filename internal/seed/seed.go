// Package seed fills an empty install with a small demo catalog so the
// dashboard is explorable before any real data exists.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	productdomain "github.com/procurahq/procura/internal/product/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type demoProduct struct {
	name          string
	price         string
	company       string
	address       string
	contactNumber string
	email         string
	costPrice     string
}

var demoCatalog = []demoProduct{
	{"A4 Copy Paper (500 sheets)", "4.99", "Northwind Supplies", "12 Harbor Rd, Portland", "555-0104", "orders@northwind.test", "3.10"},
	{"Ballpoint Pens (box of 50)", "12.50", "Northwind Supplies", "12 Harbor Rd, Portland", "555-0104", "orders@northwind.test", "7.25"},
	{"Laser Toner Cartridge", "64.00", "Contoso Office", "88 5th Ave, New York", "555-0177", "sales@contoso.test", "41.00"},
	{"Ergonomic Desk Chair", "189.99", "Fabrikam Furniture", "3 Mill Lane, Austin", "555-0123", "hello@fabrikam.test", "122.00"},
	{"LED Desk Lamp", "27.49", "Fabrikam Furniture", "3 Mill Lane, Austin", "555-0123", "hello@fabrikam.test", "15.80"},
}

// EnsureDemoCatalog inserts the demo products once. A non-empty catalog
// is left untouched.
func EnsureDemoCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&productdomain.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, demo := range demoCatalog {
			price, err := decimal.NewFromString(demo.price)
			if err != nil {
				return err
			}
			costPrice, err := decimal.NewFromString(demo.costPrice)
			if err != nil {
				return err
			}

			product := productdomain.Product{
				ID:            node.Generate().Int64(),
				Name:          demo.name,
				Price:         price,
				Company:       demo.company,
				Address:       demo.address,
				ContactNumber: demo.contactNumber,
				Email:         demo.email,
				CostPrice:     &costPrice,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
