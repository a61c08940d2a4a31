package content

import (
	"github.com/lib/pq"
)

type AnnouncementRecord struct {
	ID       string `gorm:"primaryKey"`
	Position int    `gorm:"not null"`
	Title    string `gorm:"not null"`
	Body     string
}

type NewsRecord struct {
	ID       string `gorm:"primaryKey"`
	Position int    `gorm:"not null"`
	Title    string `gorm:"not null"`
	Excerpt  string
	Image    string
}

type DocumentRecord struct {
	ID        string         `gorm:"primaryKey"`
	Position  int            `gorm:"not null"`
	Title     string         `gorm:"not null"`
	UpdatedAt string
	Tags      pq.StringArray `gorm:"type:text[]"`
}

func (AnnouncementRecord) TableName() string { return "portal.announcements" }
func (NewsRecord) TableName() string         { return "portal.news" }
func (DocumentRecord) TableName() string     { return "portal.documents" }
