package repository

import (
	"errors"
	"time"

	"estateport_backend/internal/model"

	"gorm.io/gorm"
)

type ListingBoostRepository struct {
	db *gorm.DB
}

func NewListingBoostRepository(db *gorm.DB) *ListingBoostRepository {
	return &ListingBoostRepository{
		db: db,
	}
}

func (r *ListingBoostRepository) Create(boost *model.ListingBoost) error {
	return r.db.Create(boost).Error
}

func (r *ListingBoostRepository) GetActive() ([]model.ListingBoost, error) {
	var boosts []model.ListingBoost
	err := r.db.Where("status = ?", model.BoostStatusActive).
		Order("end_date ASC").
		Find(&boosts).Error
	return boosts, err
}

// GetActiveByListingID bir ilanda en fazla bir aktif boost bulunur
func (r *ListingBoostRepository) GetActiveByListingID(listingID uint) (*model.ListingBoost, error) {
	var boost model.ListingBoost
	err := r.db.Where("listing_id = ? AND status = ?", listingID, model.BoostStatusActive).
		First(&boost).Error
	return &boost, err
}

func (r *ListingBoostRepository) HasActiveBoost(listingID uint) (bool, error) {
	_, err := r.GetActiveByListingID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ExpireOld süresi geçen aktif boost'ları kapatır. Filtre aktif satırlarla
// sınırlı olduğundan tekrar çalıştırmak no-op'tur.
func (r *ListingBoostRepository) ExpireOld(now time.Time) (int64, error) {
	result := r.db.Model(&model.ListingBoost{}).
		Where("status = ? AND end_date <= ?", model.BoostStatusActive, now).
		Updates(map[string]interface{}{
			"status":    model.BoostStatusExpired,
			"is_active": false,
		})
	return result.RowsAffected, result.Error
}
