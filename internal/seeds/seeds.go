package seeds

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/sirtec-dev/portal-backend/internal/content"
	"github.com/sirtec-dev/portal-backend/internal/db"
	"gorm.io/gorm"
)

// SeedContent migrates the content tables and fills them from the portal
// config, skipping rows that already exist. It is safe to run on every boot.
func SeedContent(d *gorm.DB, cfg content.Config) error {
	if err := db.EnsureSchema(d, "portal"); err != nil {
		return fmt.Errorf("failed to ensure schema portal: %w", err)
	}
	if err := d.AutoMigrate(&content.AnnouncementRecord{}, &content.NewsRecord{}, &content.DocumentRecord{}); err != nil {
		return fmt.Errorf("failed to auto-migrate content tables: %w", err)
	}

	for i, a := range cfg.Announcements {
		var existing content.AnnouncementRecord
		err := d.First(&existing, "title = ?", a.Title).Error
		if err == nil {
			log.Printf("Announcement exists, skipping: %s", a.Title)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("DB error on announcement %s: %w", a.Title, err)
		}

		record := content.AnnouncementRecord{
			ID:       uuid.NewString(),
			Position: i,
			Title:    a.Title,
			Body:     a.Body,
		}
		if err := d.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to seed announcement %s: %w", a.Title, err)
		}
	}

	for i, n := range cfg.News {
		var existing content.NewsRecord
		err := d.First(&existing, "title = ?", n.Title).Error
		if err == nil {
			log.Printf("News item exists, skipping: %s", n.Title)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("DB error on news item %s: %w", n.Title, err)
		}

		record := content.NewsRecord{
			ID:       uuid.NewString(),
			Position: i,
			Title:    n.Title,
			Excerpt:  n.Excerpt,
			Image:    n.Image,
		}
		if err := d.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to seed news item %s: %w", n.Title, err)
		}
	}

	for i, doc := range cfg.Documents {
		var existing content.DocumentRecord
		err := d.First(&existing, "title = ?", doc.Title).Error
		if err == nil {
			log.Printf("Document exists, skipping: %s", doc.Title)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("DB error on document %s: %w", doc.Title, err)
		}

		record := content.DocumentRecord{
			ID:        uuid.NewString(),
			Position:  i,
			Title:     doc.Title,
			UpdatedAt: doc.UpdatedAt,
			Tags:      doc.Tags,
		}
		if err := d.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to seed document %s: %w", doc.Title, err)
		}
	}

	return nil
}
