package request

import "time"

// Money amounts in request bodies are decimal values ("120.50"); handlers
// convert them to cents before touching the services.

// CreateTreatmentRequest represents a create treatment request
type CreateTreatmentRequest struct {
	PatientID      string     `json:"patient_id" binding:"required,uuid"`
	DentistID      string     `json:"dentist_id" binding:"required,uuid"`
	ChiefComplaint string     `json:"chief_complaint"`
	Diagnosis      string     `json:"diagnosis"`
	TreatmentPlan  string     `json:"treatment_plan"`
	Notes          string     `json:"notes"`
	TreatmentDate  *time.Time `json:"treatment_date"`
}

// AddTreatmentItemRequest represents an add procedure request
type AddTreatmentItemRequest struct {
	ProcedureID   string   `json:"procedure_id" binding:"required,uuid"`
	ToothNumbers  []int    `json:"tooth_numbers" binding:"required,min=1"`
	ToothSurfaces []string `json:"tooth_surfaces"`
	Quantity      int      `json:"quantity"`
	Notes         string   `json:"notes"`
}

// UpdateItemStatusRequest represents an item status change request
type UpdateItemStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetDiscountRequest represents a manual treatment discount request
type SetDiscountRequest struct {
	Discount float64 `json:"discount" binding:"min=0"`
}
