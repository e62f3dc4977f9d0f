package model

import (
	"time"

	"gorm.io/gorm"
)

// UserPackage Status
// pending -> active -> used | expired | cancelled
type UserPackageStatus string

const (
	UserPackageStatusPending   UserPackageStatus = "pending"
	UserPackageStatusActive    UserPackageStatus = "active"
	UserPackageStatusUsed      UserPackageStatus = "used"
	UserPackageStatusExpired   UserPackageStatus = "expired"
	UserPackageStatusCancelled UserPackageStatus = "cancelled"
)

// UserPackage kullanıcının satın aldığı paket hakkı (entitlement)
type UserPackage struct {
	gorm.Model
	UserID        uint `json:"user_id" gorm:"not null;index"`
	PackageID     uint `json:"package_id" gorm:"not null"`
	TransactionID uint `json:"transaction_id" gorm:"not null;index"`

	// nil = bu pakette böyle bir sayaç yok; 0 = tükenmiş
	RemainingListings *int `json:"remaining_listings"`
	RemainingPhotos   *int `json:"remaining_photos"`
	VideoAvailable    bool `json:"video_available" gorm:"default:false"`
	RemainingBoosts   *int `json:"remaining_boosts"`

	PurchasedAt *time.Time `json:"purchased_at"`
	ExpiresAt   *time.Time `json:"expires_at"`

	IsActive bool              `json:"is_active" gorm:"default:false"`
	Status   UserPackageStatus `json:"status" gorm:"default:'pending';index"`

	// İlişkiler
	User        User        `json:"-" gorm:"foreignKey:UserID"`
	Package     Package     `json:"package" gorm:"foreignKey:PackageID"`
	Transaction Transaction `json:"-" gorm:"foreignKey:TransactionID"`
}

// IsUsable hak ancak aktifken ve süresi dolmamışken kullanılabilir
func (up *UserPackage) IsUsable(now time.Time) bool {
	if !up.IsActive || up.Status != UserPackageStatusActive {
		return false
	}
	if up.ExpiresAt != nil && !up.ExpiresAt.After(now) {
		return false
	}
	return true
}
