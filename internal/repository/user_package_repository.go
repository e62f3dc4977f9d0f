package repository

import (
	"time"

	"estateport_backend/internal/model"

	"gorm.io/gorm"
)

type UserPackageRepository struct {
	db *gorm.DB
}

func NewUserPackageRepository(db *gorm.DB) *UserPackageRepository {
	return &UserPackageRepository{
		db: db,
	}
}

func (r *UserPackageRepository) Create(up *model.UserPackage) error {
	return r.db.Create(up).Error
}

func (r *UserPackageRepository) GetByID(id uint) (*model.UserPackage, error) {
	var up model.UserPackage
	err := r.db.First(&up, id).Error
	return &up, err
}

func (r *UserPackageRepository) GetWithDetails(id uint) (*model.UserPackage, error) {
	var up model.UserPackage
	err := r.db.Preload("Package").Preload("Transaction").First(&up, id).Error
	return &up, err
}

func (r *UserPackageRepository) GetByUserID(userID uint) ([]model.UserPackage, error) {
	var ups []model.UserPackage
	err := r.db.Where("user_id = ?", userID).
		Preload("Package").
		Order("created_at DESC").
		Find(&ups).Error
	return ups, err
}

// GetActiveByUserID kullanılabilir haklar: aktif ve süresi dolmamış
func (r *UserPackageRepository) GetActiveByUserID(userID uint, now time.Time) ([]model.UserPackage, error) {
	var ups []model.UserPackage
	err := r.db.Where("user_id = ? AND is_active = ? AND status = ?", userID, true, model.UserPackageStatusActive).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Preload("Package").
		Order("created_at ASC").
		Find(&ups).Error
	return ups, err
}

func (r *UserPackageRepository) GetByTransactionID(transactionID uint) ([]model.UserPackage, error) {
	var ups []model.UserPackage
	err := r.db.Where("transaction_id = ?", transactionID).Find(&ups).Error
	return ups, err
}

// GetFiltered sayfalı liste; status boş ise filtre uygulanmaz
func (r *UserPackageRepository) GetFiltered(userID uint, status model.UserPackageStatus, page, limit int) ([]model.UserPackage, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := r.db.Model(&model.UserPackage{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ups []model.UserPackage
	err := query.Preload("Package").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&ups).Error
	return ups, total, err
}

// ActivatePending satın alma işlemine bağlı pending hakları aktifleştirir.
// Sadece pending satırlara dokunduğu için tekrar çağrılması no-op'tur.
func (r *UserPackageRepository) ActivatePending(transactionID uint, now time.Time) (int64, error) {
	result := r.db.Model(&model.UserPackage{}).
		Where("transaction_id = ? AND status = ?", transactionID, model.UserPackageStatusPending).
		Updates(map[string]interface{}{
			"status":       model.UserPackageStatusActive,
			"is_active":    true,
			"purchased_at": now,
		})
	return result.RowsAffected, result.Error
}

// Sayaç güncellemeleri tek sorguluk koşullu update'lerdir; iki eşzamanlı
// tüketim aynı son hakkı paylaşamaz (RowsAffected kontrolü).

func (r *UserPackageRepository) DecrementPhotos(id uint) (int64, error) {
	result := r.db.Model(&model.UserPackage{}).
		Where("id = ? AND remaining_photos > 0", id).
		UpdateColumn("remaining_photos", gorm.Expr("remaining_photos - 1"))
	return result.RowsAffected, result.Error
}

func (r *UserPackageRepository) DecrementListings(id uint) (int64, error) {
	result := r.db.Model(&model.UserPackage{}).
		Where("id = ? AND remaining_listings > 0", id).
		UpdateColumn("remaining_listings", gorm.Expr("remaining_listings - 1"))
	return result.RowsAffected, result.Error
}

func (r *UserPackageRepository) IncrementPhotos(id uint) (int64, error) {
	result := r.db.Model(&model.UserPackage{}).
		Where("id = ? AND remaining_photos IS NOT NULL", id).
		UpdateColumn("remaining_photos", gorm.Expr("remaining_photos + 1"))
	return result.RowsAffected, result.Error
}

func (r *UserPackageRepository) IncrementListings(id uint) (int64, error) {
	result := r.db.Model(&model.UserPackage{}).
		Where("id = ? AND remaining_listings IS NOT NULL", id).
		UpdateColumn("remaining_listings", gorm.Expr("remaining_listings + 1"))
	return result.RowsAffected, result.Error
}

func (r *UserPackageRepository) IncrementBoosts(id uint) (int64, error) {
	result := r.db.Model(&model.UserPackage{}).
		Where("id = ? AND remaining_boosts IS NOT NULL", id).
		UpdateColumn("remaining_boosts", gorm.Expr("remaining_boosts + 1"))
	return result.RowsAffected, result.Error
}

func (r *UserPackageRepository) DecrementBoosts(id uint) (int64, error) {
	result := r.db.Model(&model.UserPackage{}).
		Where("id = ? AND remaining_boosts > 0", id).
		UpdateColumn("remaining_boosts", gorm.Expr("remaining_boosts - 1"))
	return result.RowsAffected, result.Error
}

// ConsumeVideo tek kullanımlık video hakkını düşer
func (r *UserPackageRepository) ConsumeVideo(id uint) (int64, error) {
	result := r.db.Model(&model.UserPackage{}).
		Where("id = ? AND video_available = ?", id, true).
		Updates(map[string]interface{}{
			"video_available": false,
			"status":          model.UserPackageStatusUsed,
		})
	return result.RowsAffected, result.Error
}

func (r *UserPackageRepository) UpdateStatus(id uint, status model.UserPackageStatus) error {
	return r.db.Model(&model.UserPackage{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CancelPendingByTransactionID bekleyen haklar ödeme gelmeyince iptal edilir
func (r *UserPackageRepository) CancelPendingByTransactionID(transactionID uint) (int64, error) {
	result := r.db.Model(&model.UserPackage{}).
		Where("transaction_id = ? AND status = ?", transactionID, model.UserPackageStatusPending).
		Updates(map[string]interface{}{
			"status":    model.UserPackageStatusCancelled,
			"is_active": false,
		})
	return result.RowsAffected, result.Error
}
