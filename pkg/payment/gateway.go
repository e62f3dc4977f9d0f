package payment

import (
	"math/rand"
	"time"
)

// SuccessCode gateway'in başarılı ödeme yanıt kodu
const SuccessCode = "00"

// MaxDescriptionLen gateway kısıtı: checkout açıklaması en fazla 25 karakter
const MaxDescriptionLen = 25

type CheckoutParams struct {
	OrderCode   int64
	Amount      int64
	Description string
	BuyerName   string
	BuyerEmail  string
	BuyerPhone  string
}

type CheckoutLink struct {
	OrderCode     int64
	CheckoutURL   string
	PaymentLinkID string
}

// WebhookResult doğrulanmış webhook'un normalize edilmiş hali
type WebhookResult struct {
	Code      string
	OrderCode int64
	Reference string
	Amount    int64
}

type PaymentInfo struct {
	OrderCode     int64
	Status        string
	AmountPaid    int64
	PaymentLinkID string
}

// PaymentGateway harici ödeme sağlayıcısı soyutlaması
type PaymentGateway interface {
	CreatePaymentLink(params CheckoutParams) (*CheckoutLink, error)
	// VerifyWebhook imza doğrulaması başarısızsa veri DÖNDÜRMEZ
	VerifyWebhook(payload []byte) (*WebhookResult, error)
	// GetPaymentInfo ve CancelPaymentLink best-effort çalışır:
	// gateway hatasında nil/false döner
	GetPaymentInfo(orderCode int64) *PaymentInfo
	CancelPaymentLink(orderCode int64, reason string) bool
}

// GenerateOrderCode unix zaman damgası + iki haneli rastgele ek.
// Benzersizlik kayıt sırasında transaction tablosuna karşı doğrulanır.
func GenerateOrderCode() int64 {
	return time.Now().Unix()*100 + rand.Int63n(100)
}

// TruncateDescription gateway'in 25 karakter sınırına uyar
func TruncateDescription(desc string) string {
	if len(desc) <= MaxDescriptionLen {
		return desc
	}
	return desc[:MaxDescriptionLen]
}
