// Package seed provides database seeding utilities for development and demos.
package seed

import (
	_ "embed"
	"fmt"

	"nightlife/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed catalog.yml
var catalogYAML []byte

// CategoryEntry is one built-in establishment category.
type CategoryEntry struct {
	Name      string `yaml:"name"`
	Icon      string `yaml:"icon"`
	Color     string `yaml:"color"`
	SortOrder int    `yaml:"sort_order"`
}

// ConsumableEntry is one built-in catalog item. Prices are decimal strings.
type ConsumableEntry struct {
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	Icon         string `yaml:"icon"`
	DefaultPrice string `yaml:"default_price"`
}

// Catalog is the reference data every environment needs.
type Catalog struct {
	Categories  []CategoryEntry   `yaml:"categories"`
	Consumables []ConsumableEntry `yaml:"consumables"`
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog parses a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("catalog category without a name")
		}
	}
	for _, item := range c.Consumables {
		if item.Name == "" || item.Category == "" {
			return nil, fmt.Errorf("catalog consumable %q needs a name and category", item.Name)
		}
		if item.DefaultPrice != "" {
			if _, err := decimal.NewFromString(item.DefaultPrice); err != nil {
				return nil, fmt.Errorf("catalog consumable %q: invalid price %q", item.Name, item.DefaultPrice)
			}
		}
	}
	return &c, nil
}

// ApplyCatalog upserts categories and consumable templates by name.
func ApplyCatalog(db *gorm.DB, c *Catalog) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range c.Categories {
			cat := models.EstablishmentCategory{
				Name:      entry.Name,
				Icon:      entry.Icon,
				Color:     entry.Color,
				SortOrder: entry.SortOrder,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"icon", "color", "sort_order"}),
			}).Create(&cat).Error; err != nil {
				return fmt.Errorf("upsert category %q: %w", entry.Name, err)
			}
		}

		for _, entry := range c.Consumables {
			item := models.ConsumableTemplate{
				Name:     entry.Name,
				Category: entry.Category,
				Icon:     entry.Icon,
				IsActive: true,
			}
			if entry.DefaultPrice != "" {
				price, _ := decimal.NewFromString(entry.DefaultPrice)
				item.DefaultPrice = decimal.NewNullDecimal(price.Round(2))
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"category", "icon", "default_price", "updated_at"}),
			}).Create(&item).Error; err != nil {
				return fmt.Errorf("upsert consumable %q: %w", entry.Name, err)
			}
		}
		return nil
	})
}

// BuiltIns seeds the embedded catalog.
func BuiltIns(db *gorm.DB) error {
	c, err := LoadCatalog()
	if err != nil {
		return err
	}
	return ApplyCatalog(db, c)
}
