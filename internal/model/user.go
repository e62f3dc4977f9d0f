package model

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string `json:"email" gorm:"uniqueIndex;not null"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`

	// Ücretsiz ilan kotası
	MaxFreeListings int `json:"max_free_listings" gorm:"default:1"`

	// İlişkiler
	Listings     []Listing     `json:"-"`
	Transactions []Transaction `json:"-"`
	UserPackages []UserPackage `json:"-"`
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
