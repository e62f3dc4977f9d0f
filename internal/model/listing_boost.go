package model

import (
	"time"

	"gorm.io/gorm"
)

// Boost Status
type BoostStatus string

const (
	BoostStatusActive    BoostStatus = "active"
	BoostStatusExpired   BoostStatus = "expired"
	BoostStatusCancelled BoostStatus = "cancelled"
)

// ListingBoost ilanın öne çıkarılması; bir ilanda aynı anda
// en fazla bir aktif boost bulunur
type ListingBoost struct {
	gorm.Model
	ListingID     uint  `json:"listing_id" gorm:"not null;index"`
	UserID        uint  `json:"user_id" gorm:"not null"`
	UserPackageID *uint `json:"user_package_id"`

	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null;index"`
	BoostDays int       `json:"boost_days" gorm:"not null"`

	IsActive bool        `json:"is_active" gorm:"default:true"`
	Status   BoostStatus `json:"status" gorm:"default:'active';index"`

	// İlişkiler
	Listing     Listing      `json:"-" gorm:"foreignKey:ListingID"`
	User        User         `json:"-" gorm:"foreignKey:UserID"`
	UserPackage *UserPackage `json:"-" gorm:"foreignKey:UserPackageID"`
}
