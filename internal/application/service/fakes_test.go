package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dentiq/dentiq-api/internal/domain/entity"
	"github.com/dentiq/dentiq-api/internal/domain/enum"
	"github.com/dentiq/dentiq-api/internal/domain/repository"
	"github.com/dentiq/dentiq-api/pkg/pagination"
)

// In-memory fakes shared by the service tests.

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fakeTreatmentRepo struct {
	treatments map[uuid.UUID]*entity.Treatment
	items      map[uuid.UUID]*entity.TreatmentItem
	updateErr  error
}

func newFakeTreatmentRepo() *fakeTreatmentRepo {
	return &fakeTreatmentRepo{
		treatments: make(map[uuid.UUID]*entity.Treatment),
		items:      make(map[uuid.UUID]*entity.TreatmentItem),
	}
}

func (r *fakeTreatmentRepo) Create(ctx context.Context, t *entity.Treatment) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.treatments[t.ID] = t
	return nil
}

func (r *fakeTreatmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Treatment, error) {
	return r.treatments[id], nil
}

func (r *fakeTreatmentRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Treatment, error) {
	t := r.treatments[id]
	if t == nil {
		return nil, nil
	}
	t.Items = nil
	for _, item := range r.items {
		if item.TreatmentID == id {
			t.Items = append(t.Items, *item)
		}
	}
	return t, nil
}

func (r *fakeTreatmentRepo) Update(ctx context.Context, t *entity.Treatment) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.treatments[t.ID] = t
	return nil
}

func (r *fakeTreatmentRepo) List(ctx context.Context, params *repository.TreatmentFilterParams) ([]entity.Treatment, int64, error) {
	var out []entity.Treatment
	for _, t := range r.treatments {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTreatmentRepo) CreateItem(ctx context.Context, item *entity.TreatmentItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeTreatmentRepo) GetItem(ctx context.Context, id uuid.UUID) (*entity.TreatmentItem, error) {
	return r.items[id], nil
}

func (r *fakeTreatmentRepo) ListItems(ctx context.Context, treatmentID uuid.UUID) ([]entity.TreatmentItem, error) {
	var out []entity.TreatmentItem
	for _, item := range r.items {
		if item.TreatmentID == treatmentID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeTreatmentRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *fakeTreatmentRepo) UpdateItemStatus(ctx context.Context, id uuid.UUID, status enum.ItemStatus) error {
	if item, ok := r.items[id]; ok {
		item.Status = status
	}
	return nil
}

type fakeReceiptRepo struct {
	receipts   map[uuid.UUID]*entity.Receipt
	createErrs []error // consumed one per Create call, nil means success
	issued     int64
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[uuid.UUID]*entity.Receipt)}
}

func (r *fakeReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	receipt.CreatedAt = time.Now()
	r.receipts[receipt.ID] = receipt
	return nil
}

func (r *fakeReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	return r.receipts[id], nil
}

func (r *fakeReceiptRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	return r.receipts[id], nil
}

func (r *fakeReceiptRepo) GetByTreatmentID(ctx context.Context, treatmentID uuid.UUID) (*entity.Receipt, error) {
	for _, receipt := range r.receipts {
		if receipt.TreatmentID == treatmentID {
			return receipt, nil
		}
	}
	return nil, nil
}

func (r *fakeReceiptRepo) GetByNumber(ctx context.Context, number string) (*entity.Receipt, error) {
	for _, receipt := range r.receipts {
		if receipt.ReceiptNumber == number {
			return receipt, nil
		}
	}
	return nil, nil
}

func (r *fakeReceiptRepo) Update(ctx context.Context, receipt *entity.Receipt) error {
	r.receipts[receipt.ID] = receipt
	return nil
}

func (r *fakeReceiptRepo) List(ctx context.Context, params *repository.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var out []entity.Receipt
	for _, receipt := range r.receipts {
		out = append(out, *receipt)
	}
	return out, int64(len(out)), nil
}

func (r *fakeReceiptRepo) CountIssuedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.issued, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*entity.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*entity.Patient)}
}

func (r *fakePatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	return r.patients[id], nil
}

func (r *fakePatientRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Patient, int64, error) {
	var out []entity.Patient
	for _, p := range r.patients {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type fakeDentistRepo struct {
	dentists map[uuid.UUID]*entity.Dentist
}

func newFakeDentistRepo() *fakeDentistRepo {
	return &fakeDentistRepo{dentists: make(map[uuid.UUID]*entity.Dentist)}
}

func (r *fakeDentistRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Dentist, error) {
	return r.dentists[id], nil
}

func (r *fakeDentistRepo) GetByEmail(ctx context.Context, email string) (*entity.Dentist, error) {
	for _, d := range r.dentists {
		if strings.EqualFold(d.Email, email) {
			return d, nil
		}
	}
	return nil, nil
}

type fakeProcedureRepo struct {
	procedures map[uuid.UUID]*entity.Procedure
}

func newFakeProcedureRepo() *fakeProcedureRepo {
	return &fakeProcedureRepo{procedures: make(map[uuid.UUID]*entity.Procedure)}
}

func (r *fakeProcedureRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Procedure, error) {
	return r.procedures[id], nil
}

func (r *fakeProcedureRepo) GetByCode(ctx context.Context, code string) (*entity.Procedure, error) {
	for _, p := range r.procedures {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProcedureRepo) List(ctx context.Context, activeOnly bool) ([]entity.Procedure, error) {
	var out []entity.Procedure
	for _, p := range r.procedures {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

type fakeAuditRepo struct {
	records []entity.AuditLog
}

func (r *fakeAuditRepo) Create(ctx context.Context, record *entity.AuditLog) error {
	r.records = append(r.records, *record)
	return nil
}

type fakeQR struct{}

func (fakeQR) Generate(text string) string {
	return "qr:" + text
}
