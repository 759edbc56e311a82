package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/enum"
	"github.com/dentiq/dentiq-api/pkg/apperror"
	"github.com/dentiq/dentiq-api/pkg/discount"
)

type receiptFixture struct {
	svc           *ReceiptService
	receiptRepo   *fakeReceiptRepo
	treatmentRepo *fakeTreatmentRepo
	issuedBy      uuid.UUID
}

func newReceiptFixture(t *testing.T) *receiptFixture {
	t.Helper()

	f := &receiptFixture{
		receiptRepo:   newFakeReceiptRepo(),
		treatmentRepo: newFakeTreatmentRepo(),
		issuedBy:      uuid.New(),
	}

	registry := discount.NewStaticRegistry([]discount.Discount{
		{Code: "UTMBEST", Percentage: 20, Description: "Promo", IsActive: true},
	})

	logger := zerolog.Nop()
	f.svc = NewReceiptService(
		f.receiptRepo, f.treatmentRepo, &fakeTxManager{},
		registry, fakeQR{}, NewAuditor(&fakeAuditRepo{}, logger), logger,
		0.08, "RCP",
	)
	return f
}

func (f *receiptFixture) seedTreatment(t *testing.T, totalCost int64) *entity.Treatment {
	t.Helper()
	treatment := &entity.Treatment{
		ID:            uuid.New(),
		PatientID:     uuid.New(),
		DentistID:     uuid.New(),
		TreatmentDate: time.Now(),
		TotalCost:     totalCost,
		PaymentStatus: enum.PaymentStatusPending,
	}
	f.treatmentRepo.treatments[treatment.ID] = treatment
	return treatment
}

func TestCalculateTotals(t *testing.T) {
	f := newReceiptFixture(t)
	ctx := context.Background()

	t.Run("tax on full subtotal", func(t *testing.T) {
		// 200.00 at 8% tax
		totals := f.svc.CalculateTotals(ctx, 20000, 0, "")
		if totals.Tax != 1600 {
			t.Errorf("Tax = %d, want 1600", totals.Tax)
		}
		if totals.TotalAmount != 21600 {
			t.Errorf("TotalAmount = %d, want 21600", totals.TotalAmount)
		}
	})

	t.Run("discount code before tax", func(t *testing.T) {
		// 200.00 with 20% code, then 8% tax on 160.00
		totals := f.svc.CalculateTotals(ctx, 20000, 0, "UTMBEST")
		if totals.Discount != 4000 {
			t.Errorf("Discount = %d, want 4000", totals.Discount)
		}
		if totals.Tax != 1280 {
			t.Errorf("Tax = %d, want 1280", totals.Tax)
		}
		if totals.TotalAmount != 17280 {
			t.Errorf("TotalAmount = %d, want 17280", totals.TotalAmount)
		}
		if totals.DiscountCodeApplied != "UTMBEST" {
			t.Errorf("DiscountCodeApplied = %q, want UTMBEST", totals.DiscountCodeApplied)
		}
	})

	t.Run("invalid code is skipped", func(t *testing.T) {
		totals := f.svc.CalculateTotals(ctx, 20000, 0, "NOPE")
		if totals.Discount != 0 || totals.DiscountCodeApplied != "" {
			t.Errorf("invalid code applied: %+v", totals)
		}
		if totals.TotalAmount != 21600 {
			t.Errorf("TotalAmount = %d, want 21600", totals.TotalAmount)
		}
	})

	t.Run("custom discount stacks with code and clamps", func(t *testing.T) {
		totals := f.svc.CalculateTotals(ctx, 10000, 9000, "UTMBEST")
		// 9000 custom + 2000 code would exceed the subtotal
		if totals.Discount != 10000 {
			t.Errorf("Discount = %d, want clamped 10000", totals.Discount)
		}
		if totals.TotalAmount != 0 {
			t.Errorf("TotalAmount = %d, want 0", totals.TotalAmount)
		}
	})
}

func TestGenerateReceiptNumber(t *testing.T) {
	f := newReceiptFixture(t)
	f.receiptRepo.issued = 4

	number, err := f.svc.GenerateReceiptNumber(context.Background())
	if err != nil {
		t.Fatalf("GenerateReceiptNumber: %v", err)
	}

	want := fmt.Sprintf("RCP-%s-005", time.Now().Format("0601"))
	if number != want {
		t.Errorf("number = %q, want %q", number, want)
	}
}

func TestGenerateReceipt(t *testing.T) {
	t.Run("issues receipt and marks treatment", func(t *testing.T) {
		f := newReceiptFixture(t)
		treatment := f.seedTreatment(t, 20000)

		receipt, err := f.svc.GenerateReceipt(context.Background(), &GenerateReceiptInput{
			TreatmentID:   treatment.ID,
			IssuedByID:    f.issuedBy,
			PaymentMethod: enum.PaymentMethodCash,
		})
		if err != nil {
			t.Fatalf("GenerateReceipt: %v", err)
		}

		if receipt.TotalAmount != 21600 {
			t.Errorf("TotalAmount = %d, want 21600", receipt.TotalAmount)
		}
		if receipt.BalanceDue != 21600 {
			t.Errorf("BalanceDue = %d, want 21600", receipt.BalanceDue)
		}
		if receipt.Status != enum.PaymentStatusPartial {
			t.Errorf("Status = %v, want partial", receipt.Status)
		}
		if !strings.HasPrefix(receipt.ReceiptNumber, "RCP-") {
			t.Errorf("ReceiptNumber = %q, want RCP- prefix", receipt.ReceiptNumber)
		}
		if !strings.HasPrefix(receipt.QRCode, "qr:") {
			t.Errorf("QRCode = %q, want generated payload", receipt.QRCode)
		}

		updated, _ := f.treatmentRepo.GetByID(context.Background(), treatment.ID)
		if updated.PaymentMethod != enum.PaymentMethodCash {
			t.Errorf("treatment.PaymentMethod = %v, want cash", updated.PaymentMethod)
		}
	})

	t.Run("applies discount code", func(t *testing.T) {
		f := newReceiptFixture(t)
		treatment := f.seedTreatment(t, 20000)

		receipt, err := f.svc.GenerateReceipt(context.Background(), &GenerateReceiptInput{
			TreatmentID:   treatment.ID,
			IssuedByID:    f.issuedBy,
			PaymentMethod: enum.PaymentMethodCard,
			DiscountCode:  "utmbest",
		})
		if err != nil {
			t.Fatalf("GenerateReceipt: %v", err)
		}
		if receipt.TotalAmount != 17280 {
			t.Errorf("TotalAmount = %d, want 17280", receipt.TotalAmount)
		}
	})

	t.Run("second receipt rejected", func(t *testing.T) {
		f := newReceiptFixture(t)
		treatment := f.seedTreatment(t, 20000)

		input := &GenerateReceiptInput{
			TreatmentID:   treatment.ID,
			IssuedByID:    f.issuedBy,
			PaymentMethod: enum.PaymentMethodCash,
		}
		if _, err := f.svc.GenerateReceipt(context.Background(), input); err != nil {
			t.Fatalf("first GenerateReceipt: %v", err)
		}
		_, err := f.svc.GenerateReceipt(context.Background(), input)
		if !apperror.IsConflict(err) {
			t.Errorf("err = %v, want conflict", err)
		}
	})

	t.Run("unknown treatment", func(t *testing.T) {
		f := newReceiptFixture(t)
		_, err := f.svc.GenerateReceipt(context.Background(), &GenerateReceiptInput{
			TreatmentID: uuid.New(),
			IssuedByID:  f.issuedBy,
		})
		if appErr := apperror.GetAppError(err); appErr.Code != 404 {
			t.Errorf("code = %d, want 404", appErr.Code)
		}
	})

	t.Run("zero balance receipt is paid", func(t *testing.T) {
		f := newReceiptFixture(t)
		treatment := f.seedTreatment(t, 0)

		receipt, err := f.svc.GenerateReceipt(context.Background(), &GenerateReceiptInput{
			TreatmentID:   treatment.ID,
			IssuedByID:    f.issuedBy,
			PaymentMethod: enum.PaymentMethodCash,
		})
		if err != nil {
			t.Fatalf("GenerateReceipt: %v", err)
		}
		if receipt.Status != enum.PaymentStatusPaid {
			t.Errorf("Status = %v, want paid", receipt.Status)
		}
	})

	t.Run("number collision retried with suffix", func(t *testing.T) {
		f := newReceiptFixture(t)
		treatment := f.seedTreatment(t, 20000)
		f.receiptRepo.createErrs = []error{gorm.ErrDuplicatedKey, nil}

		receipt, err := f.svc.GenerateReceipt(context.Background(), &GenerateReceiptInput{
			TreatmentID:   treatment.ID,
			IssuedByID:    f.issuedBy,
			PaymentMethod: enum.PaymentMethodCash,
		})
		if err != nil {
			t.Fatalf("GenerateReceipt: %v", err)
		}

		// base number plus a -HHMMSS suffix
		parts := strings.Split(receipt.ReceiptNumber, "-")
		if len(parts) != 4 {
			t.Errorf("ReceiptNumber = %q, want timestamp suffix", receipt.ReceiptNumber)
		}
	})

	t.Run("duplicate key from lost race maps to conflict", func(t *testing.T) {
		f := newReceiptFixture(t)
		treatment := f.seedTreatment(t, 20000)
		winner := &entity.Receipt{TreatmentID: treatment.ID, ReceiptNumber: "RCP-0000-001"}
		if err := f.receiptRepo.Create(context.Background(), winner); err != nil {
			t.Fatalf("seed winner: %v", err)
		}

		// The loser's insert fails on the treatment_id unique index after
		// its pre-check already passed.
		f.receiptRepo.createErrs = []error{gorm.ErrDuplicatedKey}
		loser := &entity.Receipt{TreatmentID: treatment.ID, ReceiptNumber: "RCP-0000-002"}
		err := f.svc.createWithRetry(context.Background(), loser)
		if !apperror.IsConflict(err) {
			t.Errorf("err = %v, want conflict", err)
		}
	})
}

// txConn mimics Postgres connection state: after a failed statement, every
// later statement on the same transaction fails until a rollback.
type txConn struct {
	aborted bool
}

var errTxAborted = errors.New("ERROR: current transaction is aborted, commands ignored until end of transaction block (SQLSTATE 25P02)")

// abortTxManager clears the aborted flag when a Do block returns an error,
// the way a rollback (to a savepoint, when nested) restores the connection.
type abortTxManager struct {
	conn *txConn
}

func (m *abortTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err != nil {
		m.conn.aborted = false
	}
	return err
}

type abortingReceiptRepo struct {
	*fakeReceiptRepo
	conn *txConn
}

func (r *abortingReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	if r.conn.aborted {
		return errTxAborted
	}
	if err := r.fakeReceiptRepo.Create(ctx, receipt); err != nil {
		r.conn.aborted = true
		return err
	}
	return nil
}

func (r *abortingReceiptRepo) GetByTreatmentID(ctx context.Context, treatmentID uuid.UUID) (*entity.Receipt, error) {
	if r.conn.aborted {
		return nil, errTxAborted
	}
	return r.fakeReceiptRepo.GetByTreatmentID(ctx, treatmentID)
}

func newAbortAwareReceiptFixture(t *testing.T) *receiptFixture {
	t.Helper()

	f := newReceiptFixture(t)
	conn := &txConn{}
	logger := zerolog.Nop()
	f.svc = NewReceiptService(
		&abortingReceiptRepo{fakeReceiptRepo: f.receiptRepo, conn: conn},
		f.treatmentRepo, &abortTxManager{conn: conn},
		discount.NewStaticRegistry(nil), fakeQR{},
		NewAuditor(&fakeAuditRepo{}, logger), logger,
		0.08, "RCP",
	)
	return f
}

// A unique-violation insert leaves the transaction rejecting further
// statements; the collision handling must still reach its lookup and retry.
func TestGenerateReceiptAfterFailedInsert(t *testing.T) {
	t.Run("number collision still retried", func(t *testing.T) {
		f := newAbortAwareReceiptFixture(t)
		treatment := f.seedTreatment(t, 20000)
		f.receiptRepo.createErrs = []error{gorm.ErrDuplicatedKey, nil}

		receipt, err := f.svc.GenerateReceipt(context.Background(), &GenerateReceiptInput{
			TreatmentID:   treatment.ID,
			IssuedByID:    f.issuedBy,
			PaymentMethod: enum.PaymentMethodCash,
		})
		if err != nil {
			t.Fatalf("GenerateReceipt: %v", err)
		}
		if parts := strings.Split(receipt.ReceiptNumber, "-"); len(parts) != 4 {
			t.Errorf("ReceiptNumber = %q, want timestamp suffix", receipt.ReceiptNumber)
		}

		updated, _ := f.treatmentRepo.GetByID(context.Background(), treatment.ID)
		if updated.PaymentMethod != enum.PaymentMethodCash {
			t.Errorf("treatment.PaymentMethod = %v, want cash", updated.PaymentMethod)
		}
	})

	t.Run("lost race still maps to conflict", func(t *testing.T) {
		f := newAbortAwareReceiptFixture(t)
		treatment := f.seedTreatment(t, 20000)
		winner := &entity.Receipt{TreatmentID: treatment.ID, ReceiptNumber: "RCP-0000-001"}
		if err := f.receiptRepo.Create(context.Background(), winner); err != nil {
			t.Fatalf("seed winner: %v", err)
		}

		f.receiptRepo.createErrs = []error{gorm.ErrDuplicatedKey}
		loser := &entity.Receipt{TreatmentID: treatment.ID, ReceiptNumber: "RCP-0000-002"}
		err := f.svc.createWithRetry(context.Background(), loser)
		if !apperror.IsConflict(err) {
			t.Errorf("err = %v, want conflict", err)
		}
	})
}
