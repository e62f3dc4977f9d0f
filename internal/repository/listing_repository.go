package repository

import (
	"estateport_backend/internal/model"

	"gorm.io/gorm"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{
		db: db,
	}
}

func (r *ListingRepository) Create(listing *model.Listing) error {
	return r.db.Create(listing).Error
}

func (r *ListingRepository) GetByID(id uint) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.First(&listing, id).Error
	return &listing, err
}

func (r *ListingRepository) Update(listing *model.Listing) error {
	return r.db.Save(listing).Error
}

// UpdateFields sadece verilen kolonları yazar
func (r *ListingRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&model.Listing{}).Where("id = ?", id).Updates(fields).Error
}

// CountActiveFreeListings kullanıcının ücretsiz kotasından düşen ilan sayısı
func (r *ListingRepository) CountActiveFreeListings(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Listing{}).
		Where("user_id = ? AND is_free_listing = ?", userID, true).
		Where("status IN ?", []model.ListingStatus{
			model.ListingStatusDraft,
			model.ListingStatusPendingReview,
			model.ListingStatusPublished,
		}).
		Count(&count).Error
	return count, err
}
