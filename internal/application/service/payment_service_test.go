package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/enum"
	"github.com/dentiq/dentiq-api/pkg/apperror"
)

type paymentFixture struct {
	svc           *PaymentService
	receiptRepo   *fakeReceiptRepo
	treatmentRepo *fakeTreatmentRepo
	actor         uuid.UUID
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	f := &paymentFixture{
		receiptRepo:   newFakeReceiptRepo(),
		treatmentRepo: newFakeTreatmentRepo(),
		actor:         uuid.New(),
	}

	logger := zerolog.Nop()
	f.svc = NewPaymentService(
		f.receiptRepo, f.treatmentRepo, &fakeTxManager{},
		NewAuditor(&fakeAuditRepo{}, logger), logger,
	)
	return f
}

// seedReceipt creates a treatment plus its issued receipt with the given
// outstanding total.
func (f *paymentFixture) seedReceipt(t *testing.T, total int64) *entity.Receipt {
	t.Helper()

	treatment := &entity.Treatment{
		ID:            uuid.New(),
		TreatmentDate: time.Now(),
		TotalCost:     total,
		PaymentStatus: enum.PaymentStatusPending,
	}
	f.treatmentRepo.treatments[treatment.ID] = treatment

	receipt := &entity.Receipt{
		ID:            uuid.New(),
		TreatmentID:   treatment.ID,
		ReceiptNumber: "RCP-2608-001",
		Subtotal:      total,
		TotalAmount:   total,
		BalanceDue:    total,
		Status:        enum.PaymentStatusPartial,
	}
	f.receiptRepo.receipts[receipt.ID] = receipt
	return receipt
}

func TestProcessPayment(t *testing.T) {
	t.Run("partial then full payment", func(t *testing.T) {
		f := newPaymentFixture(t)
		receipt := f.seedReceipt(t, 21600)

		got, err := f.svc.ProcessPayment(context.Background(), &ProcessPaymentInput{
			ReceiptID:     receipt.ID,
			ActorID:       f.actor,
			Amount:        10000,
			PaymentMethod: enum.PaymentMethodCash,
		})
		if err != nil {
			t.Fatalf("ProcessPayment: %v", err)
		}
		if got.PaidAmount != 10000 || got.BalanceDue != 11600 {
			t.Errorf("paid = %d balance = %d, want 10000 and 11600", got.PaidAmount, got.BalanceDue)
		}
		if got.Status != enum.PaymentStatusPartial {
			t.Errorf("Status = %v, want partial", got.Status)
		}
		if got.PaymentDate == nil {
			t.Error("PaymentDate not set")
		}

		treatment, _ := f.treatmentRepo.GetByID(context.Background(), receipt.TreatmentID)
		if treatment.PaidAmount != 10000 {
			t.Errorf("treatment.PaidAmount = %d, want 10000", treatment.PaidAmount)
		}
		if treatment.PaymentStatus != enum.PaymentStatusPartial {
			t.Errorf("treatment.PaymentStatus = %v, want partial", treatment.PaymentStatus)
		}

		got, err = f.svc.ProcessPayment(context.Background(), &ProcessPaymentInput{
			ReceiptID:     receipt.ID,
			ActorID:       f.actor,
			Amount:        11600,
			PaymentMethod: enum.PaymentMethodCard,
			TransactionID: "txn-123",
		})
		if err != nil {
			t.Fatalf("ProcessPayment: %v", err)
		}
		if got.BalanceDue != 0 || got.Status != enum.PaymentStatusPaid {
			t.Errorf("balance = %d status = %v, want 0 and paid", got.BalanceDue, got.Status)
		}
		if got.TransactionID != "txn-123" {
			t.Errorf("TransactionID = %q, want txn-123", got.TransactionID)
		}

		treatment, _ = f.treatmentRepo.GetByID(context.Background(), receipt.TreatmentID)
		if treatment.PaymentStatus != enum.PaymentStatusPaid {
			t.Errorf("treatment.PaymentStatus = %v, want paid", treatment.PaymentStatus)
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		f := newPaymentFixture(t)
		receipt := f.seedReceipt(t, 21600)

		for _, amount := range []int64{0, -500} {
			_, err := f.svc.ProcessPayment(context.Background(), &ProcessPaymentInput{
				ReceiptID: receipt.ID,
				ActorID:   f.actor,
				Amount:    amount,
			})
			if appErr := apperror.GetAppError(err); appErr.Code != 400 {
				t.Errorf("amount %d: code = %d, want 400", amount, appErr.Code)
			}
		}
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		f := newPaymentFixture(t)
		receipt := f.seedReceipt(t, 21600)

		_, err := f.svc.ProcessPayment(context.Background(), &ProcessPaymentInput{
			ReceiptID:     receipt.ID,
			ActorID:       f.actor,
			Amount:        21601,
			PaymentMethod: enum.PaymentMethodCash,
		})
		if !apperror.IsConflict(err) {
			t.Errorf("err = %v, want conflict", err)
		}

		got, _ := f.receiptRepo.GetByID(context.Background(), receipt.ID)
		if got.PaidAmount != 0 {
			t.Errorf("PaidAmount = %d, want unchanged 0", got.PaidAmount)
		}
	})

	t.Run("unknown receipt", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.svc.ProcessPayment(context.Background(), &ProcessPaymentInput{
			ReceiptID: uuid.New(),
			ActorID:   f.actor,
			Amount:    100,
		})
		if appErr := apperror.GetAppError(err); appErr.Code != 404 {
			t.Errorf("code = %d, want 404", appErr.Code)
		}
	})

	t.Run("explicit payment date kept", func(t *testing.T) {
		f := newPaymentFixture(t)
		receipt := f.seedReceipt(t, 5000)
		when := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

		got, err := f.svc.ProcessPayment(context.Background(), &ProcessPaymentInput{
			ReceiptID:     receipt.ID,
			ActorID:       f.actor,
			Amount:        5000,
			PaymentMethod: enum.PaymentMethodInsurance,
			PaymentDate:   &when,
		})
		if err != nil {
			t.Fatalf("ProcessPayment: %v", err)
		}
		if got.PaymentDate == nil || !got.PaymentDate.Equal(when) {
			t.Errorf("PaymentDate = %v, want %v", got.PaymentDate, when)
		}
	})
}
