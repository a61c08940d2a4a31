package content

import (
	"fmt"

	"gorm.io/gorm"
)

// Catalog holds the portal's static panel content in memory. It is built once
// at startup; tab switches read from it and never hit the database again.
type Catalog struct {
	Units         *Units
	Announcements []Announcement
	News          []NewsItem
	Documents     []DocumentLink
}

// FromConfig builds a catalog straight from configuration, used when the
// portal runs without its own database (hosted or memory provider).
func FromConfig(cfg Config) *Catalog {
	return &Catalog{
		Units:         NewUnits(cfg.Units),
		Announcements: cfg.Announcements,
		News:          cfg.News,
		Documents:     cfg.Documents,
	}
}

// FromDB builds a catalog from the seeded content tables. The unit
// enumeration always comes from configuration.
func FromDB(d *gorm.DB, cfg Config) (*Catalog, error) {
	var announcements []AnnouncementRecord
	if err := d.Order("position").Find(&announcements).Error; err != nil {
		return nil, fmt.Errorf("loading announcements: %w", err)
	}

	var news []NewsRecord
	if err := d.Order("position").Find(&news).Error; err != nil {
		return nil, fmt.Errorf("loading news: %w", err)
	}

	var documents []DocumentRecord
	if err := d.Order("position").Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("loading documents: %w", err)
	}

	catalog := &Catalog{Units: NewUnits(cfg.Units)}
	for _, a := range announcements {
		catalog.Announcements = append(catalog.Announcements, Announcement{Title: a.Title, Body: a.Body})
	}
	for _, n := range news {
		catalog.News = append(catalog.News, NewsItem{Title: n.Title, Excerpt: n.Excerpt, Image: n.Image})
	}
	for _, doc := range documents {
		catalog.Documents = append(catalog.Documents, DocumentLink{Title: doc.Title, UpdatedAt: doc.UpdatedAt, Tags: doc.Tags})
	}

	return catalog, nil
}
