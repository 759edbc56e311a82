package discount

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrUnknownCode is returned when a discount code is not in the registry
	ErrUnknownCode = errors.New("unknown discount code")
	// ErrInactiveCode is returned when a discount code exists but is disabled
	ErrInactiveCode = errors.New("discount code is inactive")
)

// Discount describes a named percentage discount
type Discount struct {
	Code        string  `json:"code"`
	Percentage  float64 `json:"percentage"`
	Description string  `json:"description"`
	IsActive    bool    `json:"is_active"`
}

// Applied is the result of validating a code against a subtotal
type Applied struct {
	Code       string
	Percentage float64
	// Amount is the discount value in cents, rounded
	Amount int64
}

// Registry validates discount codes against a subtotal.
// Injected so discount rules can vary per deployment without code changes.
type Registry interface {
	Validate(code string, subtotal int64) (*Applied, error)
	List() []Discount
}

type staticRegistry struct {
	codes map[string]Discount
}

// NewStaticRegistry builds a registry from a fixed set of discounts.
// Codes are keyed case-insensitively.
func NewStaticRegistry(discounts []Discount) Registry {
	codes := make(map[string]Discount, len(discounts))
	for _, d := range discounts {
		d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
		if d.Code == "" {
			continue
		}
		codes[d.Code] = d
	}
	return &staticRegistry{codes: codes}
}

func (r *staticRegistry) Validate(code string, subtotal int64) (*Applied, error) {
	d, ok := r.codes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, ErrUnknownCode
	}
	if !d.IsActive {
		return nil, ErrInactiveCode
	}

	amount := int64(math.Round(float64(subtotal) * d.Percentage / 100))
	return &Applied{
		Code:       d.Code,
		Percentage: d.Percentage,
		Amount:     amount,
	}, nil
}

func (r *staticRegistry) List() []Discount {
	out := make([]Discount, 0, len(r.codes))
	for _, d := range r.codes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ParseCodes parses a configuration string of the form
// "CODE:percentage:description,CODE:percentage:description".
// Malformed entries are skipped.
func ParseCodes(raw string) []Discount {
	var out []Discount
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || pct <= 0 || pct > 100 {
			continue
		}
		d := Discount{
			Code:       strings.ToUpper(strings.TrimSpace(parts[0])),
			Percentage: pct,
			IsActive:   true,
		}
		if len(parts) == 3 {
			d.Description = strings.TrimSpace(parts[2])
		}
		out = append(out, d)
	}
	return out
}

// DefaultCodes returns the promotional codes shipped with a fresh deployment
func DefaultCodes() []Discount {
	return []Discount{
		{Code: "UTMBEST", Percentage: 20, Description: "University clinic promotion", IsActive: true},
		{Code: "WELCOME10", Percentage: 10, Description: "New patient welcome discount", IsActive: true},
		{Code: "SENIOR15", Percentage: 15, Description: "Senior citizen discount", IsActive: true},
	}
}
