package service

import (
	"errors"
	"fmt"
	"log"

	"estateport_backend/internal/model"
	"estateport_backend/internal/repository"
	"estateport_backend/pkg/email"
	"estateport_backend/pkg/payment"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// orderCodeAttempts üretilen order code defterdekiyle çakışırsa
// kaç kez yeniden denenir
const orderCodeAttempts = 5

type CheckoutResult struct {
	Transaction *model.Transaction `json:"transaction"`
	UserPackage *model.UserPackage `json:"user_package"`
	OrderCode   int64              `json:"order_code"`
	CheckoutURL string             `json:"checkout_url"`
}

// PaymentService satın alma ile gateway arasındaki orkestrasyon:
// checkout linki üretimi ve webhook mutabakatı (reconciliation).
type PaymentService struct {
	gateway            payment.PaymentGateway
	transactionRepo    *repository.TransactionRepository
	transactionService *TransactionService
	userPackageService *UserPackageService
	userRepo           *repository.UserRepository
	packageRepo        *repository.PackageRepository
}

func NewPaymentService(
	gateway payment.PaymentGateway,
	transactionRepo *repository.TransactionRepository,
	transactionService *TransactionService,
	userPackageService *UserPackageService,
	userRepo *repository.UserRepository,
	packageRepo *repository.PackageRepository,
) *PaymentService {
	return &PaymentService{
		gateway:            gateway,
		transactionRepo:    transactionRepo,
		transactionService: transactionService,
		userPackageService: userPackageService,
		userRepo:           userRepo,
		packageRepo:        packageRepo,
	}
}

// CreatePackageCheckout pending satın alma kaydını açar ve gateway'den
// checkout linki alır. Kullanıcı bu linkte ödemeyi tamamlar, sonuç
// webhook ile HandleWebhook'a düşer.
func (s *PaymentService) CreatePackageCheckout(userID, packageID uint, paymentMethod string) (*CheckoutResult, error) {
	up, txn, err := s.userPackageService.PurchasePackage(userID, packageID, paymentMethod, "")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	pkg, err := s.packageRepo.GetByID(packageID)
	if err != nil {
		return nil, err
	}

	orderCode, err := s.generateUniqueOrderCode()
	if err != nil {
		return nil, err
	}

	link, err := s.gateway.CreatePaymentLink(payment.CheckoutParams{
		OrderCode:   orderCode,
		Amount:      txn.Amount,
		Description: pkg.Name,
		BuyerName:   user.GetFullName(),
		BuyerEmail:  user.Email,
		BuyerPhone:  user.PhoneNumber,
	})
	if err != nil {
		// link çıkmadıysa bekleyen kayıtlar açık kalmasın
		if failErr := s.transactionService.Fail(txn.ID, "could not create payment link"); failErr != nil {
			log.Printf("Could not fail transaction %d after gateway error: %v", txn.ID, failErr)
		}
		if _, cancelErr := s.userPackageService.userPackageRepo.CancelPendingByTransactionID(txn.ID); cancelErr != nil {
			log.Printf("Could not cancel pending package for transaction %d: %v", txn.ID, cancelErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if err := s.transactionRepo.SetGatewayLink(txn.ID, link.OrderCode, link.CheckoutURL); err != nil {
		return nil, err
	}
	txn.GatewayOrderCode = &link.OrderCode
	txn.CheckoutURL = link.CheckoutURL

	return &CheckoutResult{
		Transaction: txn,
		UserPackage: up,
		OrderCode:   link.OrderCode,
		CheckoutURL: link.CheckoutURL,
	}, nil
}

// HandleWebhook gateway bildirimini doğrulayıp deftere işler.
//
// Aynı order code için webhook birden fazla kez teslim edilebilir:
// Complete ikinci çağrıda ErrInvalidState döner (loglanır, akış durmaz),
// ActivateForTransaction ise sadece pending satırlara dokunur. Sonuç:
// hak bir kez verilir, ciro bir kez sayılır.
func (s *PaymentService) HandleWebhook(rawPayload []byte) error {
	result, err := s.gateway.VerifyWebhook(rawPayload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}

	txn, err := s.transactionService.GetByGatewayOrderCode(result.OrderCode)
	if err != nil {
		return err
	}

	if result.Code != payment.SuccessCode {
		log.Printf("Payment failed for order %d with gateway code %s", result.OrderCode, result.Code)
		if err := s.transactionService.FailPending(txn.ID, "gateway response code "+result.Code); err != nil {
			if errors.Is(err, ErrInvalidState) {
				// kapanmış kayda geç gelen başarısızlık bildirimi yok sayılır
				log.Printf("Transaction %d already finalized, ignoring gateway code %s", txn.ID, result.Code)
				return nil
			}
			return err
		}
		s.notifyPaymentFailed(txn, result.Code)
		return nil
	}

	if err := s.transactionRepo.SetGatewayResult(txn.ID, result.Reference, datatypes.JSON(rawPayload)); err != nil {
		return err
	}

	if err := s.transactionService.Complete(txn.ID, result.Reference, "payment confirmed by gateway"); err != nil {
		if !errors.Is(err, ErrInvalidState) {
			return err
		}
		// tekrar teslim edilen webhook; aktivasyon yine de kontrol edilir
		log.Printf("Transaction %d already finalized, re-checking activation", txn.ID)
	}

	activated, err := s.userPackageService.ActivateForTransaction(txn.ID)
	if err != nil {
		return err
	}
	if activated > 0 {
		log.Printf("Activated %d user package(s) for transaction %d", activated, txn.ID)
		s.notifyPurchaseActivated(txn)
	}

	return nil
}

// PaymentStatus sonuç sayfaları için işlem durumu okur
func (s *PaymentService) PaymentStatus(orderCode int64) (*model.Transaction, error) {
	return s.transactionService.GetByGatewayOrderCode(orderCode)
}

// CancelCheckout kullanıcı checkout'tan vazgeçtiğinde çağrılır;
// gateway iptali best-effort'tur. İptal sayfası başarı webhook'undan
// sonra da açılabilir: kapanmış bir işlem iptalle değişmez.
func (s *PaymentService) CancelCheckout(orderCode int64, reason string) error {
	txn, err := s.transactionService.GetByGatewayOrderCode(orderCode)
	if err != nil {
		return err
	}
	if txn.IsTerminal() {
		return fmt.Errorf("transaction %d is already %s: %w", txn.ID, txn.Status, ErrInvalidState)
	}

	s.gateway.CancelPaymentLink(orderCode, reason)

	if err := s.transactionService.FailPending(txn.ID, "cancelled by user: "+reason); err != nil {
		return err
	}
	_, err = s.userPackageService.userPackageRepo.CancelPendingByTransactionID(txn.ID)
	return err
}

func (s *PaymentService) generateUniqueOrderCode() (int64, error) {
	for i := 0; i < orderCodeAttempts; i++ {
		code := payment.GenerateOrderCode()
		_, err := s.transactionRepo.GetByGatewayOrderCode(code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// kod defterde yoksa kullanılabilir
			return code, nil
		}
		if err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("could not generate a unique gateway order code")
}

// Bildirimler fire-and-forget: e-posta hatası ödeme akışını durdurmaz

func (s *PaymentService) notifyPurchaseActivated(txn *model.Transaction) {
	if email.GlobalEmailService == nil || txn.PackageID == nil {
		return
	}

	user, err := s.userRepo.GetByID(txn.UserID)
	if err != nil {
		log.Printf("Could not load user %d for purchase email: %v", txn.UserID, err)
		return
	}
	pkg, err := s.packageRepo.GetByID(*txn.PackageID)
	if err != nil {
		log.Printf("Could not load package %d for purchase email: %v", *txn.PackageID, err)
		return
	}

	if err := email.GlobalEmailService.SendPackagePurchasedEmail(
		user.Email, user.GetFullName(), pkg.Name, txn.Amount, txn.Currency,
	); err != nil {
		log.Printf("Could not send purchase email to %s: %v", user.Email, err)
	}
}

func (s *PaymentService) notifyPaymentFailed(txn *model.Transaction, gatewayCode string) {
	if email.GlobalEmailService == nil {
		return
	}

	user, err := s.userRepo.GetByID(txn.UserID)
	if err != nil {
		log.Printf("Could not load user %d for failure email: %v", txn.UserID, err)
		return
	}

	if err := email.GlobalEmailService.SendPaymentFailedEmail(
		user.Email, user.GetFullName(), txn.Code, gatewayCode,
	); err != nil {
		log.Printf("Could not send payment failure email to %s: %v", user.Email, err)
	}
}
