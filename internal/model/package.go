package model

import (
	gosimpleslug "github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Package Types
type PackageType string

const (
	PackageTypeAdditionalListing PackageType = "additional_listing"
	PackageTypePhotoPackage      PackageType = "photo_package"
	PackageTypeVideoUpload       PackageType = "video_upload"
	PackageTypeBoostListing      PackageType = "boost_listing"
	PackageTypeFree              PackageType = "free"
)

// Package satın alınabilir paket tanımı (katalog)
type Package struct {
	gorm.Model
	Name        string      `json:"name" gorm:"not null"`
	Slug        string      `json:"slug" gorm:"index"`
	Description string      `json:"description" gorm:"type:text"`
	Type        PackageType `json:"type" gorm:"not null;index"`
	Price       int64       `json:"price" gorm:"not null"` // VND

	// nil = bu paket tipi için geçerli değil
	DurationDays *int `json:"duration_days"`
	ListingCount *int `json:"listing_count"`
	PhotoLimit   *int `json:"photo_limit"`
	AllowVideo   bool `json:"allow_video" gorm:"default:false"`
	BoostDays    *int `json:"boost_days"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	// İlişkiler
	UserPackages []UserPackage `json:"-"`
}

// BeforeCreate paket oluşturulurken slug'ı otomatik oluşturur
func (p *Package) BeforeCreate(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = gosimpleslug.Make(p.Name)
	}
	return nil
}
