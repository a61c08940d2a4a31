package local

import "time"

type Account struct {
	UserID            string `gorm:"primaryKey" json:"user_id"`
	Email             string `gorm:"not null;uniqueIndex" json:"email"`
	HashedPassword    string `gorm:"not null" json:"-"`
	Confirmed         bool   `gorm:"default:false" json:"confirmed"`
	ConfirmationToken string `gorm:"index" json:"-"`
}

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"-"`
}

type Profile struct {
	UserID       string `gorm:"primaryKey" json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	BirthDate    string `json:"birth_date"`
	Registration string `json:"registration"`
	Position     string `json:"position"`
	Unit         string `json:"unit"`
}

func (Account) TableName() string { return "portal_auth.accounts" }
func (Session) TableName() string { return "portal_auth.sessions" }
func (Profile) TableName() string { return "portal.profiles" }
