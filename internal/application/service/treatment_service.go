package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/enum"
	"github.com/dentiq/dentiq-api/internal/domain/repository"
	"github.com/dentiq/dentiq-api/pkg/apperror"
	"github.com/dentiq/dentiq-api/pkg/pagination"
)

// Tooth numbering follows the universal notation used on US charts
const (
	minToothNumber = 1
	maxToothNumber = 32
)

var validSurfaces = map[string]bool{
	"M": true, // mesial
	"O": true, // occlusal
	"D": true, // distal
	"B": true, // buccal
	"L": true, // lingual
	"I": true, // incisal
}

// TreatmentService owns a treatment's line items, aggregates their cost and
// derives payment status
type TreatmentService struct {
	treatmentRepo repository.TreatmentRepository
	receiptRepo   repository.ReceiptRepository
	patientRepo   repository.PatientRepository
	dentistRepo   repository.DentistRepository
	procedureRepo repository.ProcedureRepository
	tx            repository.TxManager
	auditor       *Auditor
	logger        zerolog.Logger
}

// NewTreatmentService creates a new treatment service
func NewTreatmentService(
	treatmentRepo repository.TreatmentRepository,
	receiptRepo repository.ReceiptRepository,
	patientRepo repository.PatientRepository,
	dentistRepo repository.DentistRepository,
	procedureRepo repository.ProcedureRepository,
	tx repository.TxManager,
	auditor *Auditor,
	logger zerolog.Logger,
) *TreatmentService {
	return &TreatmentService{
		treatmentRepo: treatmentRepo,
		receiptRepo:   receiptRepo,
		patientRepo:   patientRepo,
		dentistRepo:   dentistRepo,
		procedureRepo: procedureRepo,
		tx:            tx,
		auditor:       auditor,
		logger:        logger,
	}
}

// CreateTreatmentInput represents the create treatment input
type CreateTreatmentInput struct {
	PatientID      uuid.UUID
	DentistID      uuid.UUID
	ChiefComplaint string
	Diagnosis      string
	TreatmentPlan  string
	Notes          string
	TreatmentDate  time.Time
}

// CreateTreatment creates a new treatment with zero cost and Pending status
func (s *TreatmentService) CreateTreatment(ctx context.Context, input *CreateTreatmentInput) (*entity.Treatment, error) {
	patient, err := s.patientRepo.GetByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}
	if !patient.IsActive {
		return nil, apperror.NewInactiveEntityError("Patient")
	}

	dentist, err := s.dentistRepo.GetByID(ctx, input.DentistID)
	if err != nil {
		return nil, err
	}
	if dentist == nil {
		return nil, apperror.NewNotFoundError("Dentist")
	}
	if !dentist.IsActive {
		return nil, apperror.NewInactiveEntityError("Dentist")
	}
	if !dentist.CanAuthorTreatments() {
		return nil, apperror.NewAppError(403, "Staff role does not permit treatment authorship")
	}

	treatmentDate := input.TreatmentDate
	if treatmentDate.IsZero() {
		treatmentDate = time.Now()
	}

	treatment := &entity.Treatment{
		PatientID:      input.PatientID,
		DentistID:      input.DentistID,
		ChiefComplaint: input.ChiefComplaint,
		Diagnosis:      input.Diagnosis,
		TreatmentPlan:  input.TreatmentPlan,
		Notes:          input.Notes,
		TreatmentDate:  treatmentDate,
		TotalCost:      0,
		PaidAmount:     0,
		Discount:       0,
		PaymentStatus:  enum.PaymentStatusPending,
	}

	if err := s.treatmentRepo.Create(ctx, treatment); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, &input.DentistID, "create", "treatment", treatment.ID.String(), nil, treatment)
	return treatment, nil
}

// AddTreatmentItemInput represents the add procedure input
type AddTreatmentItemInput struct {
	TreatmentID   uuid.UUID
	ProcedureID   uuid.UUID
	ToothNumbers  []int
	ToothSurfaces []string
	Quantity      int
	Notes         string
	ActorID       *uuid.UUID
}

// AddProcedureToTooth adds a procedure applied to a set of teeth as a new
// treatment item and recomputes the parent treatment's totals in the same
// transaction
func (s *TreatmentService) AddProcedureToTooth(ctx context.Context, input *AddTreatmentItemInput) (*entity.TreatmentItem, error) {
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Quantity < 1 {
		return nil, apperror.NewBadRequestError("Quantity must be at least 1")
	}

	teeth, err := normalizeTeeth(input.ToothNumbers)
	if err != nil {
		return nil, err
	}

	surfaces, err := normalizeSurfaces(input.ToothSurfaces)
	if err != nil {
		return nil, err
	}

	treatment, err := s.treatmentRepo.GetByID(ctx, input.TreatmentID)
	if err != nil {
		return nil, err
	}
	if treatment == nil {
		return nil, apperror.NewNotFoundError("Treatment")
	}

	if err := s.ensureNoReceipt(ctx, treatment.ID); err != nil {
		return nil, err
	}

	procedure, err := s.procedureRepo.GetByID(ctx, input.ProcedureID)
	if err != nil {
		return nil, err
	}
	if procedure == nil {
		return nil, apperror.NewNotFoundError("Procedure")
	}
	if !procedure.IsActive {
		return nil, apperror.NewInactiveEntityError("Procedure")
	}

	// Price snapshot: catalog changes after this point do not affect the item.
	// TODO: confirm with the pricing owners whether flat-fee procedures
	// (PerTooth=false) should skip the tooth-count multiplier; the formula
	// currently scales every procedure by the number of teeth.
	unitCost := procedure.DefaultCost
	totalCost := unitCost * int64(input.Quantity) * int64(len(teeth))

	item := &entity.TreatmentItem{
		TreatmentID:   treatment.ID,
		ProcedureID:   procedure.ID,
		ToothNumbers:  teeth,
		ToothSurfaces: surfaces,
		Quantity:      input.Quantity,
		UnitCost:      unitCost,
		TotalCost:     totalCost,
		Status:        enum.ItemStatusPlanned,
		Notes:         input.Notes,
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.treatmentRepo.CreateItem(ctx, item); err != nil {
			return err
		}
		return s.recalculate(ctx, treatment)
	})
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, input.ActorID, "add_item", "treatment_item", item.ID.String(), nil, item)
	return item, nil
}

// DeleteTreatmentItem removes an item and recomputes the parent treatment
func (s *TreatmentService) DeleteTreatmentItem(ctx context.Context, itemID uuid.UUID, actorID *uuid.UUID) error {
	item, err := s.treatmentRepo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NewNotFoundError("Treatment item")
	}

	treatment, err := s.treatmentRepo.GetByID(ctx, item.TreatmentID)
	if err != nil {
		return err
	}
	if treatment == nil {
		return apperror.NewNotFoundError("Treatment")
	}

	if err := s.ensureNoReceipt(ctx, treatment.ID); err != nil {
		return err
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.treatmentRepo.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		return s.recalculate(ctx, treatment)
	})
	if err != nil {
		return err
	}

	s.auditor.Record(ctx, actorID, "delete_item", "treatment_item", itemID.String(), item, nil)
	return nil
}

// UpdateTreatmentItemStatus changes an item's clinical status. No cost effect.
func (s *TreatmentService) UpdateTreatmentItemStatus(ctx context.Context, itemID uuid.UUID, status enum.ItemStatus, actorID *uuid.UUID) error {
	if !status.IsValid() {
		return apperror.NewBadRequestError("Invalid item status")
	}

	item, err := s.treatmentRepo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NewNotFoundError("Treatment item")
	}

	if err := s.treatmentRepo.UpdateItemStatus(ctx, itemID, status); err != nil {
		return err
	}

	s.auditor.Record(ctx, actorID, "update_item_status", "treatment_item", itemID.String(),
		map[string]string{"status": item.Status.String()},
		map[string]string{"status": status.String()})
	return nil
}

// SetTreatmentDiscount applies a manual money-amount discount to a
// treatment and recomputes its totals. Rejected once a receipt exists.
func (s *TreatmentService) SetTreatmentDiscount(ctx context.Context, treatmentID uuid.UUID, discount int64, actorID *uuid.UUID) (*entity.Treatment, error) {
	if discount < 0 {
		return nil, apperror.NewBadRequestError("Discount cannot be negative")
	}

	treatment, err := s.treatmentRepo.GetByID(ctx, treatmentID)
	if err != nil {
		return nil, err
	}
	if treatment == nil {
		return nil, apperror.NewNotFoundError("Treatment")
	}

	if err := s.ensureNoReceipt(ctx, treatment.ID); err != nil {
		return nil, err
	}

	oldDiscount := treatment.Discount
	treatment.Discount = discount

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		return s.recalculate(ctx, treatment)
	})
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, actorID, "set_discount", "treatment", treatment.ID.String(),
		map[string]int64{"discount": oldDiscount},
		map[string]int64{"discount": discount})
	return treatment, nil
}

// RecalculateTreatmentCost re-derives a treatment's total cost and payment
// status from its items. Idempotent; safe to call repeatedly.
func (s *TreatmentService) RecalculateTreatmentCost(ctx context.Context, treatmentID uuid.UUID) error {
	treatment, err := s.treatmentRepo.GetByID(ctx, treatmentID)
	if err != nil {
		return err
	}
	if treatment == nil {
		return apperror.NewNotFoundError("Treatment")
	}

	return s.tx.Do(ctx, func(ctx context.Context) error {
		return s.recalculate(ctx, treatment)
	})
}

// recalculate is the single funnel for the derived fields: every write path
// that can invalidate totalCost or paymentStatus ends up here. Runs inside
// the caller's transaction.
func (s *TreatmentService) recalculate(ctx context.Context, treatment *entity.Treatment) error {
	items, err := s.treatmentRepo.ListItems(ctx, treatment.ID)
	if err != nil {
		return err
	}

	var sum int64
	for _, item := range items {
		sum += item.TotalCost
	}

	total := sum - treatment.Discount
	if total < 0 {
		total = 0
	}
	treatment.TotalCost = total

	// Once a receipt is issued the amount owed is its post-tax total, not
	// the pre-tax treatment cost; status must be derived against that
	// figure or a recalculation could mark the treatment paid while the
	// receipt still carries a balance.
	owed := total
	receipt, err := s.receiptRepo.GetByTreatmentID(ctx, treatment.ID)
	if err != nil {
		return err
	}
	if receipt != nil {
		owed = receipt.TotalAmount
	}
	treatment.PaymentStatus = enum.PaymentStatusFor(treatment.PaidAmount, owed)

	return s.treatmentRepo.Update(ctx, treatment)
}

// ensureNoReceipt guards item and discount mutations: once a receipt is
// issued the treatment's financials are frozen
func (s *TreatmentService) ensureNoReceipt(ctx context.Context, treatmentID uuid.UUID) error {
	receipt, err := s.receiptRepo.GetByTreatmentID(ctx, treatmentID)
	if err != nil {
		return err
	}
	if receipt != nil {
		return apperror.NewConflictError("Treatment already has a receipt; financials are frozen")
	}
	return nil
}

// GetTreatment retrieves a treatment with its items
func (s *TreatmentService) GetTreatment(ctx context.Context, id uuid.UUID) (*entity.Treatment, error) {
	treatment, err := s.treatmentRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if treatment == nil {
		return nil, apperror.NewNotFoundError("Treatment")
	}
	return treatment, nil
}

// ListTreatments lists treatments with filtering
func (s *TreatmentService) ListTreatments(ctx context.Context, params *repository.TreatmentFilterParams) (*pagination.PaginatedResult[entity.Treatment], error) {
	treatments, total, err := s.treatmentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(treatments, pag), nil
}

func normalizeTeeth(teeth []int) (entity.ToothNumbers, error) {
	if len(teeth) == 0 {
		return nil, apperror.NewBadRequestError("At least one tooth number is required")
	}

	seen := make(map[int]bool, len(teeth))
	out := make(entity.ToothNumbers, 0, len(teeth))
	for _, n := range teeth {
		if n < minToothNumber || n > maxToothNumber {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Tooth number %d is out of range 1-32", n))
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

func normalizeSurfaces(surfaces []string) (entity.ToothSurfaces, error) {
	if len(surfaces) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(surfaces))
	out := make(entity.ToothSurfaces, 0, len(surfaces))
	for _, s := range surfaces {
		tag := strings.ToUpper(strings.TrimSpace(s))
		if !validSurfaces[tag] {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown tooth surface %q", s))
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out, nil
}
