package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"estateport_backend/internal/model"
	"estateport_backend/pkg/payment"
)

// fakeGateway testlerde gerçek sağlayıcının yerine geçer
type fakeGateway struct {
	createErr    error
	verifyResult *payment.WebhookResult
	verifyErr    error

	createdParams []payment.CheckoutParams
	cancelled     []int64
}

func (g *fakeGateway) CreatePaymentLink(params payment.CheckoutParams) (*payment.CheckoutLink, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.createdParams = append(g.createdParams, params)
	return &payment.CheckoutLink{
		OrderCode:     params.OrderCode,
		CheckoutURL:   fmt.Sprintf("https://pay.example.com/%d", params.OrderCode),
		PaymentLinkID: fmt.Sprintf("link-%d", params.OrderCode),
	}, nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte) (*payment.WebhookResult, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	if g.verifyResult != nil {
		return g.verifyResult, nil
	}
	var result payment.WebhookResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *fakeGateway) GetPaymentInfo(orderCode int64) *payment.PaymentInfo {
	return nil
}

func (g *fakeGateway) CancelPaymentLink(orderCode int64, reason string) bool {
	g.cancelled = append(g.cancelled, orderCode)
	return true
}

func newPaymentEnv(t *testing.T) (*testEnv, *fakeGateway, *PaymentService) {
	t.Helper()
	env := newTestEnv(t)
	gateway := &fakeGateway{}
	svc := NewPaymentService(
		gateway,
		env.transactionRepo,
		env.transactions,
		env.userPackages,
		env.userRepo,
		env.packageRepo,
	)
	return env, gateway, svc
}

func webhookPayload(t *testing.T, orderCode int64, code, reference string, amount int64) []byte {
	t.Helper()
	payload, err := json.Marshal(payment.WebhookResult{
		Code:      code,
		OrderCode: orderCode,
		Reference: reference,
		Amount:    amount,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return payload
}

func TestCreatePackageCheckout(t *testing.T) {
	env, gateway, svc := newPaymentEnv(t)
	user := env.createUser(t)
	pkg := env.createPackage(t, model.Package{
		Name: "Photo Pack 10", Type: model.PackageTypePhotoPackage, Price: 50000, PhotoLimit: intPtr(10),
	})

	result, err := svc.CreatePackageCheckout(user.ID, pkg.ID, "payos")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if result.OrderCode <= 0 {
		t.Fatalf("expected positive order code, got %d", result.OrderCode)
	}
	if result.CheckoutURL == "" {
		t.Fatalf("expected checkout url")
	}
	if len(gateway.createdParams) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(gateway.createdParams))
	}
	if gateway.createdParams[0].Amount != 50000 {
		t.Fatalf("expected package price forwarded, got %d", gateway.createdParams[0].Amount)
	}

	txn, err := env.transactions.GetByGatewayOrderCode(result.OrderCode)
	if err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if txn.Status != model.TransactionStatusPending {
		t.Fatalf("expected pending transaction, got %s", txn.Status)
	}
	if txn.CheckoutURL != result.CheckoutURL {
		t.Fatalf("expected checkout url persisted")
	}
}

func TestCreatePackageCheckoutGatewayFailure(t *testing.T) {
	env, gateway, svc := newPaymentEnv(t)
	gateway.createErr = errors.New("provider unavailable")
	user := env.createUser(t)
	pkg := env.createPackage(t, model.Package{
		Name: "Photo Pack 10", Type: model.PackageTypePhotoPackage, Price: 50000, PhotoLimit: intPtr(10),
	})

	_, err := svc.CreatePackageCheckout(user.ID, pkg.ID, "payos")
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}

	// bekleyen kayıtlar açık bırakılmaz
	var txn model.Transaction
	if err := env.db.First(&txn).Error; err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if txn.Status != model.TransactionStatusFailed {
		t.Fatalf("expected failed transaction, got %s", txn.Status)
	}

	var up model.UserPackage
	if err := env.db.First(&up).Error; err != nil {
		t.Fatalf("load user package: %v", err)
	}
	if up.Status != model.UserPackageStatusCancelled {
		t.Fatalf("expected cancelled package, got %s", up.Status)
	}
}

func TestHandleWebhookSuccessActivatesPackage(t *testing.T) {
	env, _, svc := newPaymentEnv(t)
	user := env.createUser(t)
	pkg := env.createPackage(t, model.Package{
		Name: "Photo Pack 10", Type: model.PackageTypePhotoPackage, Price: 50000, PhotoLimit: intPtr(10),
	})

	result, err := svc.CreatePackageCheckout(user.ID, pkg.ID, "payos")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	payload := webhookPayload(t, result.OrderCode, payment.SuccessCode, "GW-123", 50000)
	if err := svc.HandleWebhook(payload); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	txn, err := env.transactions.GetByGatewayOrderCode(result.OrderCode)
	if err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if txn.Status != model.TransactionStatusCompleted {
		t.Fatalf("expected completed transaction, got %s", txn.Status)
	}
	if txn.PaymentReference != "GW-123" {
		t.Fatalf("expected gateway reference recorded, got %q", txn.PaymentReference)
	}
	if txn.CompletedAt == nil {
		t.Fatalf("expected completion timestamp")
	}
	if len(txn.GatewayPayload) == 0 {
		t.Fatalf("expected raw payload stored")
	}

	up := env.reloadUserPackage(t, result.UserPackage.ID)
	if up.Status != model.UserPackageStatusActive || !up.IsActive {
		t.Fatalf("expected active entitlement, got status=%s is_active=%v", up.Status, up.IsActive)
	}
	if up.PurchasedAt == nil {
		t.Fatalf("expected activation timestamp")
	}
}

func TestHandleWebhookDuplicateDelivery(t *testing.T) {
	env, _, svc := newPaymentEnv(t)
	user := env.createUser(t)
	pkg := env.createPackage(t, model.Package{
		Name: "Photo Pack 10", Type: model.PackageTypePhotoPackage, Price: 50000, PhotoLimit: intPtr(10),
	})

	result, err := svc.CreatePackageCheckout(user.ID, pkg.ID, "payos")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	payload := webhookPayload(t, result.OrderCode, payment.SuccessCode, "GW-123", 50000)
	for i := 0; i < 3; i++ {
		if err := svc.HandleWebhook(payload); err != nil {
			t.Fatalf("webhook delivery %d: %v", i, err)
		}
	}

	var activeCount int64
	env.db.Model(&model.UserPackage{}).
		Where("user_id = ? AND status = ?", user.ID, model.UserPackageStatusActive).
		Count(&activeCount)
	if activeCount != 1 {
		t.Fatalf("expected exactly one active package after replays, got %d", activeCount)
	}

	// ciro da bir kez sayılır
	revenue, err := env.transactions.RevenueInRange(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if revenue != 50000 {
		t.Fatalf("expected revenue counted once, got %d", revenue)
	}
}

func TestHandleWebhookFailureCode(t *testing.T) {
	env, _, svc := newPaymentEnv(t)
	user := env.createUser(t)
	pkg := env.createPackage(t, model.Package{
		Name: "Photo Pack 10", Type: model.PackageTypePhotoPackage, Price: 50000, PhotoLimit: intPtr(10),
	})

	result, err := svc.CreatePackageCheckout(user.ID, pkg.ID, "payos")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	payload := webhookPayload(t, result.OrderCode, "07", "", 0)
	if err := svc.HandleWebhook(payload); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	txn, err := env.transactions.GetByGatewayOrderCode(result.OrderCode)
	if err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if txn.Status != model.TransactionStatusFailed {
		t.Fatalf("expected failed transaction, got %s", txn.Status)
	}

	up := env.reloadUserPackage(t, result.UserPackage.ID)
	if up.Status != model.UserPackageStatusPending {
		t.Fatalf("failed payment must leave the package pending, got %s", up.Status)
	}
}

func TestHandleWebhookVerificationFailure(t *testing.T) {
	env, gateway, svc := newPaymentEnv(t)
	user := env.createUser(t)
	pkg := env.createPackage(t, model.Package{
		Name: "Photo Pack 10", Type: model.PackageTypePhotoPackage, Price: 50000, PhotoLimit: intPtr(10),
	})

	result, err := svc.CreatePackageCheckout(user.ID, pkg.ID, "payos")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	gateway.verifyErr = errors.New("invalid signature")
	err = svc.HandleWebhook([]byte(`{"code":"00"}`))
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}

	// doğrulanamayan bildirim durumu değiştirmez
	txn, err := env.transactions.GetByGatewayOrderCode(result.OrderCode)
	if err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if txn.Status != model.TransactionStatusPending {
		t.Fatalf("expected pending transaction, got %s", txn.Status)
	}
}

func TestHandleWebhookUnknownOrderCode(t *testing.T) {
	_, _, svc := newPaymentEnv(t)

	payload := webhookPayload(t, 424242424242, payment.SuccessCode, "GW-X", 1000)
	err := svc.HandleWebhook(payload)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelCheckoutAfterSuccessIsRejected(t *testing.T) {
	env, gateway, svc := newPaymentEnv(t)
	user := env.createUser(t)
	pkg := env.createPackage(t, model.Package{
		Name: "Photo Pack 10", Type: model.PackageTypePhotoPackage, Price: 50000, PhotoLimit: intPtr(10),
	})

	result, err := svc.CreatePackageCheckout(user.ID, pkg.ID, "payos")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	payload := webhookPayload(t, result.OrderCode, payment.SuccessCode, "GW-123", 50000)
	if err := svc.HandleWebhook(payload); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	// bayat iptal sayfası başarı webhook'undan sonra açıldı
	err = svc.CancelCheckout(result.OrderCode, "stale cancel page")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for late cancel, got %v", err)
	}
	if len(gateway.cancelled) != 0 {
		t.Fatalf("gateway cancel must not be called on a finalized payment")
	}

	txn, err := env.transactions.GetByGatewayOrderCode(result.OrderCode)
	if err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if txn.Status != model.TransactionStatusCompleted {
		t.Fatalf("completed transaction must survive the cancel, got %s", txn.Status)
	}

	revenue, err := env.transactions.RevenueInRange(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if revenue != 50000 {
		t.Fatalf("revenue must stay counted, got %d", revenue)
	}

	up := env.reloadUserPackage(t, result.UserPackage.ID)
	if up.Status != model.UserPackageStatusActive {
		t.Fatalf("activated entitlement must stay active, got %s", up.Status)
	}
}

func TestHandleWebhookLateFailureCodeIsIgnored(t *testing.T) {
	env, _, svc := newPaymentEnv(t)
	user := env.createUser(t)
	pkg := env.createPackage(t, model.Package{
		Name: "Photo Pack 10", Type: model.PackageTypePhotoPackage, Price: 50000, PhotoLimit: intPtr(10),
	})

	result, err := svc.CreatePackageCheckout(user.ID, pkg.ID, "payos")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	success := webhookPayload(t, result.OrderCode, payment.SuccessCode, "GW-123", 50000)
	if err := svc.HandleWebhook(success); err != nil {
		t.Fatalf("success webhook: %v", err)
	}

	// sırası karışmış başarısızlık bildirimi kapanmış kayda dokunmaz
	failure := webhookPayload(t, result.OrderCode, "07", "", 0)
	if err := svc.HandleWebhook(failure); err != nil {
		t.Fatalf("late failure webhook must be acknowledged, got %v", err)
	}

	txn, err := env.transactions.GetByGatewayOrderCode(result.OrderCode)
	if err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if txn.Status != model.TransactionStatusCompleted {
		t.Fatalf("expected transaction to stay completed, got %s", txn.Status)
	}
}

func TestCancelCheckout(t *testing.T) {
	env, gateway, svc := newPaymentEnv(t)
	user := env.createUser(t)
	pkg := env.createPackage(t, model.Package{
		Name: "Photo Pack 10", Type: model.PackageTypePhotoPackage, Price: 50000, PhotoLimit: intPtr(10),
	})

	result, err := svc.CreatePackageCheckout(user.ID, pkg.ID, "payos")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if err := svc.CancelCheckout(result.OrderCode, "changed my mind"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if len(gateway.cancelled) != 1 || gateway.cancelled[0] != result.OrderCode {
		t.Fatalf("expected gateway cancel call for order %d", result.OrderCode)
	}

	txn, err := env.transactions.GetByGatewayOrderCode(result.OrderCode)
	if err != nil {
		t.Fatalf("load transaction: %v", err)
	}
	if txn.Status != model.TransactionStatusFailed {
		t.Fatalf("expected failed transaction, got %s", txn.Status)
	}

	up := env.reloadUserPackage(t, result.UserPackage.ID)
	if up.Status != model.UserPackageStatusCancelled {
		t.Fatalf("expected cancelled package, got %s", up.Status)
	}
}
