package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Transaction Types
type TransactionType string

const (
	TransactionTypePackagePurchase TransactionType = "package_purchase"
	TransactionTypeListingPayment  TransactionType = "listing_payment"
	TransactionTypeBoostPayment    TransactionType = "boost_payment"
	TransactionTypeRefund          TransactionType = "refund"
)

// Transaction Status
// pending -> completed | failed | refunded (completed -> refunded)
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// Transaction para hareketi kaydı
type Transaction struct {
	gorm.Model
	Code      string          `json:"code" gorm:"uniqueIndex;not null"`
	UserID    uint            `json:"user_id" gorm:"not null;index"`
	PackageID *uint           `json:"package_id"`
	Type      TransactionType `json:"type" gorm:"not null"`
	Amount    int64           `json:"amount" gorm:"not null"`
	Currency  string          `json:"currency" gorm:"default:'VND'"`

	Status        TransactionStatus `json:"status" gorm:"default:'pending';index"`
	PaymentMethod string            `json:"payment_method"`
	// Gateway'in webhook'ta bildirdiği referans
	PaymentReference string `json:"payment_reference"`

	// Gateway entegrasyonu tarafından yazılan alanlar
	GatewayOrderCode *int64         `json:"gateway_order_code" gorm:"uniqueIndex"`
	CheckoutURL      string         `json:"checkout_url"`
	GatewayTxnID     string         `json:"gateway_txn_id"`
	GatewayPayload   datatypes.JSON `json:"-"`

	Notes       string     `json:"notes" gorm:"type:text"`
	CompletedAt *time.Time `json:"completed_at"`

	// İlişkiler
	User    User     `json:"-" gorm:"foreignKey:UserID"`
	Package *Package `json:"-" gorm:"foreignKey:PackageID"`
}

// IsTerminal completed/failed/refunded durumları kalıcıdır
func (t *Transaction) IsTerminal() bool {
	return t.Status != TransactionStatusPending
}
