package service

import (
	"errors"
	"strings"
	"testing"

	"estateport_backend/internal/model"
)

func TestTransactionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)

	txn, err := env.transactions.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Type:   model.TransactionTypePackagePurchase,
		Amount: 50000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if txn.Status != model.TransactionStatusPending {
		t.Fatalf("expected pending, got %s", txn.Status)
	}
	if txn.Currency != "VND" {
		t.Fatalf("expected default currency VND, got %s", txn.Currency)
	}
	if !strings.HasPrefix(txn.Code, "TXN-") {
		t.Fatalf("expected internal code prefix, got %q", txn.Code)
	}

	if err := env.transactions.Complete(txn.ID, "GW-1", "paid"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// tamamlanmış işlem tekrar tamamlanamaz
	err = env.transactions.Complete(txn.ID, "GW-2", "")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on replay, got %v", err)
	}

	if err := env.transactions.Refund(txn.ID, "customer request"); err != nil {
		t.Fatalf("refund: %v", err)
	}

	fresh, err := env.transactions.GetByID(txn.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Status != model.TransactionStatusRefunded {
		t.Fatalf("expected refunded, got %s", fresh.Status)
	}
	if fresh.PaymentReference != "GW-1" {
		t.Fatalf("replay must not overwrite the reference, got %q", fresh.PaymentReference)
	}
}

func TestRefundRequiresCompleted(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)

	txn, err := env.transactions.CreateTransaction(CreateTransactionInput{
		UserID: user.ID,
		Type:   model.TransactionTypePackagePurchase,
		Amount: 50000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = env.transactions.Refund(txn.ID, "too early")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for pending refund, got %v", err)
	}
}

func TestCompleteUnknownTransaction(t *testing.T) {
	env := newTestEnv(t)

	err := env.transactions.Complete(98765, "GW-1", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
