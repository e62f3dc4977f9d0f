package repository

import (
	"time"

	"estateport_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{
		db: db,
	}
}

func (r *TransactionRepository) Create(txn *model.Transaction) error {
	return r.db.Create(txn).Error
}

func (r *TransactionRepository) GetByID(id uint) (*model.Transaction, error) {
	var txn model.Transaction
	err := r.db.First(&txn, id).Error
	return &txn, err
}

func (r *TransactionRepository) GetByCode(code string) (*model.Transaction, error) {
	var txn model.Transaction
	err := r.db.Where("code = ?", code).First(&txn).Error
	return &txn, err
}

func (r *TransactionRepository) GetByGatewayOrderCode(orderCode int64) (*model.Transaction, error) {
	var txn model.Transaction
	err := r.db.Where("gateway_order_code = ?", orderCode).First(&txn).Error
	return &txn, err
}

func (r *TransactionRepository) GetByUserID(userID uint) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&txns).Error
	return txns, err
}

func (r *TransactionRepository) GetByDateRange(from, to time.Time) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at DESC").
		Find(&txns).Error
	return txns, err
}

func (r *TransactionRepository) GetAll() ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.Order("created_at DESC").Find(&txns).Error
	return txns, err
}

// GetStalePending verilen andan önce açılmış ve hala pending kalan kayıtlar
func (r *TransactionRepository) GetStalePending(before time.Time) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.Where("status = ? AND created_at < ?", model.TransactionStatusPending, before).
		Find(&txns).Error
	return txns, err
}

// MarkCompleted tek sorguluk koşullu geçiş: sadece pending kayıt
// tamamlanabilir. Dönen satır sayısı 0 ise geçiş reddedilmiştir.
func (r *TransactionRepository) MarkCompleted(id uint, reference, note string, now time.Time) (int64, error) {
	result := r.db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":            model.TransactionStatusCompleted,
			"payment_reference": reference,
			"completed_at":      now,
			"notes":             gorm.Expr("notes || ?", noteSuffix(note)),
		})
	return result.RowsAffected, result.Error
}

// MarkFailed koşulsuz: takılı kalmış işlemler de failed'a çekilebilir
func (r *TransactionRepository) MarkFailed(id uint, reason string) (int64, error) {
	result := r.db.Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": model.TransactionStatusFailed,
			"notes":  gorm.Expr("notes || ?", noteSuffix(reason)),
		})
	return result.RowsAffected, result.Error
}

// MarkFailedIfPending webhook ve iptal akışları için korumalı geçiş:
// geç gelen bir iptal/başarısızlık bildirimi tamamlanmış kaydı bozamaz
func (r *TransactionRepository) MarkFailedIfPending(id uint, reason string) (int64, error) {
	result := r.db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status": model.TransactionStatusFailed,
			"notes":  gorm.Expr("notes || ?", noteSuffix(reason)),
		})
	return result.RowsAffected, result.Error
}

// MarkRefunded sadece completed kayıtlar iade edilebilir
func (r *TransactionRepository) MarkRefunded(id uint, reason string) (int64, error) {
	result := r.db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionStatusCompleted).
		Updates(map[string]interface{}{
			"status": model.TransactionStatusRefunded,
			"notes":  gorm.Expr("notes || ?", noteSuffix(reason)),
		})
	return result.RowsAffected, result.Error
}

// SetGatewayLink checkout linki oluşturulduğunda order code + URL yazılır
func (r *TransactionRepository) SetGatewayLink(id uint, orderCode int64, checkoutURL string) error {
	return r.db.Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"gateway_order_code": orderCode,
			"checkout_url":       checkoutURL,
		}).Error
}

// SetGatewayResult doğrulanmış webhook verisini kayda iliştirir
func (r *TransactionRepository) SetGatewayResult(id uint, gatewayTxnID string, payload datatypes.JSON) error {
	return r.db.Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"gateway_txn_id":  gatewayTxnID,
			"gateway_payload": payload,
		}).Error
}

// RevenueInRange verilen aralıkta tamamlanmış işlemlerin toplam tutarı
func (r *TransactionRepository) RevenueInRange(from, to time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND completed_at >= ? AND completed_at < ?",
			model.TransactionStatusCompleted, from, to).
		Scan(&total).Error
	return total, err
}

func (r *TransactionRepository) CountByStatus() (map[model.TransactionStatus]int64, error) {
	var rows []struct {
		Status model.TransactionStatus
		Total  int64
	}
	err := r.db.Model(&model.Transaction{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.TransactionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// noteSuffix notlar tek text kolonunda satır satır birikir
func noteSuffix(note string) string {
	if note == "" {
		return ""
	}
	return "\n" + note
}
