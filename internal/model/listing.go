package model

import "gorm.io/gorm"

// Listing Status
type ListingStatus string

const (
	ListingStatusDraft         ListingStatus = "draft"
	ListingStatusPendingReview ListingStatus = "pending_review"
	ListingStatusPublished     ListingStatus = "published"
	ListingStatusRejected      ListingStatus = "rejected"
	ListingStatusExpired       ListingStatus = "expired"
)

// Listing ilan kaydı. İçerik/arama alanları ilan servisine ait;
// burada sadece paket haklarından türeyen alanlar yönetilir.
type Listing struct {
	gorm.Model
	Title  string        `json:"title" gorm:"not null"`
	UserID uint          `json:"user_id" gorm:"not null;index"`
	Status ListingStatus `json:"status" gorm:"default:'draft';index"`

	// Paket haklarından türeyen alanlar
	MaxPhotos     int   `json:"max_photos" gorm:"default:5"`
	AllowVideo    bool  `json:"allow_video" gorm:"default:false"`
	IsBoosted     bool  `json:"is_boosted" gorm:"default:false"`
	UserPackageID *uint `json:"user_package_id"`
	IsFreeListing bool  `json:"is_free_listing" gorm:"default:true"`

	// İlişkiler
	User        User         `json:"-" gorm:"foreignKey:UserID"`
	UserPackage *UserPackage `json:"-" gorm:"foreignKey:UserPackageID"`
	Boosts      []ListingBoost `json:"-" gorm:"foreignKey:ListingID"`
}
