package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/enum"
	"github.com/dentiq/dentiq-api/internal/domain/repository"
	"github.com/dentiq/dentiq-api/pkg/apperror"
)

// PaymentService records payments against issued receipts and mirrors the
// resulting balance onto the treatment
type PaymentService struct {
	receiptRepo   repository.ReceiptRepository
	treatmentRepo repository.TreatmentRepository
	tx            repository.TxManager
	auditor       *Auditor
	logger        zerolog.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	receiptRepo repository.ReceiptRepository,
	treatmentRepo repository.TreatmentRepository,
	tx repository.TxManager,
	auditor *Auditor,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		receiptRepo:   receiptRepo,
		treatmentRepo: treatmentRepo,
		tx:            tx,
		auditor:       auditor,
		logger:        logger,
	}
}

// ProcessPaymentInput represents the process payment input
type ProcessPaymentInput struct {
	ReceiptID     uuid.UUID
	ActorID       uuid.UUID
	Amount        int64
	PaymentMethod enum.PaymentMethod
	TransactionID string
	PaymentDate   *time.Time
}

// ProcessPayment applies a payment to a receipt. The receipt row is locked
// for the duration of the transaction so two concurrent payments cannot both
// read the same balance; overpayment is rejected against the locked balance
func (s *PaymentService) ProcessPayment(ctx context.Context, input *ProcessPaymentInput) (*entity.Receipt, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be positive")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	var receipt *entity.Receipt
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		receipt, err = s.receiptRepo.GetByIDForUpdate(ctx, input.ReceiptID)
		if err != nil {
			return err
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Receipt")
		}
		if input.Amount > receipt.BalanceDue {
			return apperror.NewConflictError("Payment exceeds outstanding balance")
		}

		receipt.PaidAmount += input.Amount
		receipt.BalanceDue = receipt.TotalAmount - receipt.PaidAmount
		receipt.Status = receiptStatus(receipt.BalanceDue)
		if input.PaymentMethod != "" {
			receipt.PaymentMethod = input.PaymentMethod
		}
		if input.TransactionID != "" {
			receipt.TransactionID = input.TransactionID
		}
		when := time.Now()
		if input.PaymentDate != nil {
			when = *input.PaymentDate
		}
		receipt.PaymentDate = &when

		if err := s.receiptRepo.Update(ctx, receipt); err != nil {
			return err
		}

		treatment, err := s.treatmentRepo.GetByID(ctx, receipt.TreatmentID)
		if err != nil {
			return err
		}
		if treatment == nil {
			return apperror.NewNotFoundError("Treatment")
		}

		treatment.PaidAmount = receipt.PaidAmount
		treatment.PaymentStatus = enum.PaymentStatusFor(treatment.PaidAmount, receipt.TotalAmount)
		if input.PaymentMethod != "" {
			treatment.PaymentMethod = input.PaymentMethod
		}
		return s.treatmentRepo.Update(ctx, treatment)
	})
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, &input.ActorID, "payment", "receipt", receipt.ID.String(),
		nil, map[string]any{
			"amount":      float64(input.Amount) / 100,
			"paid_amount": float64(receipt.PaidAmount) / 100,
			"balance_due": float64(receipt.BalanceDue) / 100,
			"status":      receipt.Status.String(),
		})

	return receipt, nil
}
