package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/enum"
	"github.com/dentiq/dentiq-api/internal/domain/repository"
	"github.com/dentiq/dentiq-api/pkg/apperror"
	"github.com/dentiq/dentiq-api/pkg/discount"
	"github.com/dentiq/dentiq-api/pkg/pagination"
)

// QRGenerator produces the opaque QR payload carried on a receipt.
// Implementations must degrade to a placeholder rather than fail.
type QRGenerator interface {
	Generate(text string) string
}

// ReceiptService issues the one receipt a treatment gets: it computes
// totals, allocates a receipt number and persists the receipt together with
// the treatment status update in a single transaction
type ReceiptService struct {
	receiptRepo   repository.ReceiptRepository
	treatmentRepo repository.TreatmentRepository
	tx            repository.TxManager
	registry      discount.Registry
	qr            QRGenerator
	auditor       *Auditor
	logger        zerolog.Logger
	taxRate       float64
	prefix        string
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	treatmentRepo repository.TreatmentRepository,
	tx repository.TxManager,
	registry discount.Registry,
	qr QRGenerator,
	auditor *Auditor,
	logger zerolog.Logger,
	taxRate float64,
	prefix string,
) *ReceiptService {
	if prefix == "" {
		prefix = "RCP"
	}
	return &ReceiptService{
		receiptRepo:   receiptRepo,
		treatmentRepo: treatmentRepo,
		tx:            tx,
		registry:      registry,
		qr:            qr,
		auditor:       auditor,
		logger:        logger,
		taxRate:       taxRate,
		prefix:        prefix,
	}
}

// ReceiptTotals is the result of the totals computation. All amounts are in
// cents, rounded at each step.
type ReceiptTotals struct {
	Subtotal            int64
	Discount            int64
	DiscountCodeApplied string
	DiscountCodeValue   int64
	Tax                 int64
	TotalAmount         int64
	BalanceDue          int64
}

// CalculateTotals computes receipt figures from a treatment's total cost.
// The subtotal is the treatment's totalCost (already net of any treatment
// discount). customDiscount and the discount-code value both apply to the
// subtotal before tax; tax applies to the post-discount amount. An invalid
// discount code is skipped with a log entry, not a failure — callers that
// need hard validation use the registry directly.
func (s *ReceiptService) CalculateTotals(ctx context.Context, subtotal, customDiscount int64, discountCode string) ReceiptTotals {
	totals := ReceiptTotals{Subtotal: subtotal}

	if customDiscount > 0 {
		totals.Discount = customDiscount
	}

	if discountCode != "" {
		applied, err := s.registry.Validate(discountCode, subtotal)
		if err != nil {
			s.logger.Warn().Err(err).Str("code", discountCode).
				Msg("discount code skipped during receipt generation")
		} else {
			totals.DiscountCodeApplied = applied.Code
			totals.DiscountCodeValue = applied.Amount
			totals.Discount += applied.Amount
		}
	}

	if totals.Discount > subtotal {
		totals.Discount = subtotal
	}

	postDiscount := subtotal - totals.Discount
	totals.Tax = roundCents(float64(postDiscount) * s.taxRate)
	totals.TotalAmount = postDiscount + totals.Tax
	totals.BalanceDue = totals.TotalAmount

	return totals
}

// GenerateReceiptNumber allocates a human-readable receipt number of the
// form {PREFIX}-{YYMM}-{seq}, where seq counts receipts issued today.
// Uniqueness is best-effort: a concurrent issuer can produce the same
// number, which the unique index catches at insert time (see
// GenerateReceipt for the retry).
func (s *ReceiptService) GenerateReceiptNumber(ctx context.Context) (string, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	count, err := s.receiptRepo.CountIssuedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%03d", s.prefix, now.Format("0601"), count+1), nil
}

// GenerateReceiptInput represents the generate receipt input
type GenerateReceiptInput struct {
	TreatmentID    uuid.UUID
	IssuedByID     uuid.UUID
	PaymentMethod  enum.PaymentMethod
	CustomDiscount int64
	DiscountCode   string
	EmailAddress   string
}

// GenerateReceipt issues the receipt for a treatment. Exactly one receipt
// may exist per treatment; the unique constraint on treatment_id makes the
// second of two racing calls fail with Conflict.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, input *GenerateReceiptInput) (*entity.Receipt, error) {
	if !input.PaymentMethod.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	treatment, err := s.treatmentRepo.GetWithItems(ctx, input.TreatmentID)
	if err != nil {
		return nil, err
	}
	if treatment == nil {
		return nil, apperror.NewNotFoundError("Treatment")
	}

	existing, err := s.receiptRepo.GetByTreatmentID(ctx, input.TreatmentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Receipt already exists for this treatment")
	}

	totals := s.CalculateTotals(ctx, treatment.TotalCost, input.CustomDiscount, input.DiscountCode)

	number, err := s.GenerateReceiptNumber(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		TreatmentID:         treatment.ID,
		IssuedByID:          input.IssuedByID,
		ReceiptNumber:       number,
		Subtotal:            totals.Subtotal,
		Discount:            totals.Discount,
		DiscountCodeApplied: totals.DiscountCodeApplied,
		Tax:                 totals.Tax,
		TotalAmount:         totals.TotalAmount,
		PaidAmount:          treatment.PaidAmount,
		PaymentMethod:       input.PaymentMethod,
		EmailAddress:        input.EmailAddress,
	}
	receipt.BalanceDue = maxCents(0, receipt.TotalAmount-receipt.PaidAmount)
	receipt.Status = receiptStatus(receipt.BalanceDue)
	receipt.QRCode = s.qr.Generate(fmt.Sprintf("%s|%.2f|%s",
		number, float64(receipt.TotalAmount)/100, treatment.ID))

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.createWithRetry(ctx, receipt); err != nil {
			return err
		}

		// Keep the treatment's payment view consistent with the receipt
		treatment.PaymentStatus = enum.PaymentStatusFor(treatment.PaidAmount, receipt.TotalAmount)
		if input.PaymentMethod != "" {
			treatment.PaymentMethod = input.PaymentMethod
		}
		return s.treatmentRepo.Update(ctx, treatment)
	})
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, &input.IssuedByID, "generate", "receipt", receipt.ID.String(), nil, receipt)
	return receipt, nil
}

// createWithRetry inserts the receipt, retrying exactly once with a
// timestamp suffix when the receipt number collides under concurrent
// issuance. A duplicate on treatment_id is a 1:1 violation and is never
// retried. Each insert runs in its own savepoint (a nested TxManager.Do):
// a unique-constraint failure would otherwise abort the surrounding
// transaction and poison both the lookup and the retry.
func (s *ReceiptService) createWithRetry(ctx context.Context, receipt *entity.Receipt) error {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		return s.receiptRepo.Create(ctx, receipt)
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	// The driver does not tell us which unique index fired; if a receipt
	// for this treatment exists the race was on the 1:1 constraint.
	existing, lookupErr := s.receiptRepo.GetByTreatmentID(ctx, receipt.TreatmentID)
	if lookupErr != nil {
		return lookupErr
	}
	if existing != nil {
		return apperror.NewConflictError("Receipt already exists for this treatment")
	}

	retryNumber := fmt.Sprintf("%s-%s", receipt.ReceiptNumber, time.Now().Format("150405"))
	s.logger.Warn().
		Str("receipt_number", receipt.ReceiptNumber).
		Str("retry_number", retryNumber).
		Msg("receipt number collision, retrying with timestamp suffix")

	receipt.ReceiptNumber = retryNumber
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		return s.receiptRepo.Create(ctx, receipt)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.NewConflictError("Could not allocate a unique receipt number")
		}
		return err
	}
	return nil
}

// GetReceipt retrieves a receipt by ID
func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// GetReceiptByNumber retrieves a receipt by its receipt number
func (s *ReceiptService) GetReceiptByNumber(ctx context.Context, number string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListReceipts lists receipts with filtering
func (s *ReceiptService) ListReceipts(ctx context.Context, params *repository.ReceiptFilterParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	receipts, total, err := s.receiptRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(receipts, pag), nil
}

// receiptStatus maps a balance to the receipt's two-state status
func receiptStatus(balanceDue int64) enum.PaymentStatus {
	if balanceDue == 0 {
		return enum.PaymentStatusPaid
	}
	return enum.PaymentStatusPartial
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}

func maxCents(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
