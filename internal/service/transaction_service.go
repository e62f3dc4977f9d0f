package service

import (
	"errors"
	"fmt"
	"time"

	"estateport_backend/internal/model"
	"estateport_backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateTransactionInput struct {
	UserID        uint
	PackageID     *uint
	Type          model.TransactionType
	Amount        int64
	Currency      string
	PaymentMethod string
	Notes         string
}

// TransactionService para hareketi defteri. Durum geçişleri tek yönlüdür;
// terminal durumlardan geriye dönüş yoktur (completed -> refunded hariç).
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
}

func NewTransactionService(transactionRepo *repository.TransactionRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
	}
}

func (s *TransactionService) CreateTransaction(input CreateTransactionInput) (*model.Transaction, error) {
	currency := input.Currency
	if currency == "" {
		currency = "VND"
	}

	txn := &model.Transaction{
		Code:          "TXN-" + uuid.NewString(),
		UserID:        input.UserID,
		PackageID:     input.PackageID,
		Type:          input.Type,
		Amount:        input.Amount,
		Currency:      currency,
		Status:        model.TransactionStatusPending,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	}

	if err := s.transactionRepo.Create(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Complete pending -> completed geçişi. Kayıt pending değilse ErrInvalidState.
func (s *TransactionService) Complete(id uint, paymentReference, note string) error {
	rows, err := s.transactionRepo.MarkCompleted(id, paymentReference, note, time.Now())
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := s.GetByID(id); err != nil {
			return err
		}
		return fmt.Errorf("transaction %d is not pending: %w", id, ErrInvalidState)
	}
	return nil
}

// Fail her durumdan çağrılabilir; takılı kalan işlemler de kapatılabilsin
func (s *TransactionService) Fail(id uint, reason string) error {
	rows, err := s.transactionRepo.MarkFailed(id, reason)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return nil
}

// FailPending pending -> failed geçişi. Gateway'den veya iptal sayfasından
// tetiklenen akışlar bunu kullanır; kapanmış bir kayda ErrInvalidState döner.
func (s *TransactionService) FailPending(id uint, reason string) error {
	rows, err := s.transactionRepo.MarkFailedIfPending(id, reason)
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := s.GetByID(id); err != nil {
			return err
		}
		return fmt.Errorf("transaction %d is not pending: %w", id, ErrInvalidState)
	}
	return nil
}

// Refund sadece completed kayıtlar iade edilebilir
func (s *TransactionService) Refund(id uint, reason string) error {
	rows, err := s.transactionRepo.MarkRefunded(id, reason)
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := s.GetByID(id); err != nil {
			return err
		}
		return fmt.Errorf("transaction %d is not completed: %w", id, ErrInvalidState)
	}
	return nil
}

func (s *TransactionService) GetByID(id uint) (*model.Transaction, error) {
	txn, err := s.transactionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return txn, nil
}

func (s *TransactionService) GetByGatewayOrderCode(orderCode int64) (*model.Transaction, error) {
	txn, err := s.transactionRepo.GetByGatewayOrderCode(orderCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order code %d: %w", orderCode, ErrNotFound)
		}
		return nil, err
	}
	return txn, nil
}

func (s *TransactionService) GetUserTransactions(userID uint) ([]model.Transaction, error) {
	return s.transactionRepo.GetByUserID(userID)
}

func (s *TransactionService) GetByDateRange(from, to time.Time) ([]model.Transaction, error) {
	return s.transactionRepo.GetByDateRange(from, to)
}

func (s *TransactionService) GetAll() ([]model.Transaction, error) {
	return s.transactionRepo.GetAll()
}

// RevenueInRange tamamlanmış işlemlerin toplamı; iade edilenler
// completed durumundan çıktığı için toplamda görünmez
func (s *TransactionService) RevenueInRange(from, to time.Time) (int64, error) {
	return s.transactionRepo.RevenueInRange(from, to)
}

func (s *TransactionService) StatusCounts() (map[model.TransactionStatus]int64, error) {
	return s.transactionRepo.CountByStatus()
}
