package discount

import (
	"errors"
	"testing"
)

func TestStaticRegistryValidate(t *testing.T) {
	reg := NewStaticRegistry([]Discount{
		{Code: "UTMBEST", Percentage: 20, IsActive: true},
		{Code: "expired", Percentage: 50, IsActive: false},
	})

	t.Run("applies percentage to subtotal", func(t *testing.T) {
		applied, err := reg.Validate("UTMBEST", 20000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if applied.Amount != 4000 {
			t.Errorf("expected 4000 cents, got %d", applied.Amount)
		}
		if applied.Percentage != 20 {
			t.Errorf("expected percentage 20, got %v", applied.Percentage)
		}
	})

	t.Run("code lookup is case-insensitive", func(t *testing.T) {
		applied, err := reg.Validate("  utmbest ", 10000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if applied.Code != "UTMBEST" {
			t.Errorf("expected canonical code UTMBEST, got %q", applied.Code)
		}
	})

	t.Run("rounds to nearest cent", func(t *testing.T) {
		// 20% of $1.27 = 25.4 cents, rounds to 25
		applied, err := reg.Validate("UTMBEST", 127)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if applied.Amount != 25 {
			t.Errorf("expected 25 cents, got %d", applied.Amount)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		if _, err := reg.Validate("NOPE", 10000); !errors.Is(err, ErrUnknownCode) {
			t.Errorf("expected ErrUnknownCode, got %v", err)
		}
	})

	t.Run("inactive code", func(t *testing.T) {
		if _, err := reg.Validate("EXPIRED", 10000); !errors.Is(err, ErrInactiveCode) {
			t.Errorf("expected ErrInactiveCode, got %v", err)
		}
	})
}

func TestParseCodes(t *testing.T) {
	codes := ParseCodes("UTMBEST:20:Promo, welcome10:10 , bad, TOOMUCH:150, ZERO:0")
	if len(codes) != 2 {
		t.Fatalf("expected 2 valid codes, got %d: %v", len(codes), codes)
	}
	if codes[0].Code != "UTMBEST" || codes[0].Percentage != 20 || codes[0].Description != "Promo" {
		t.Errorf("unexpected first code: %+v", codes[0])
	}
	if codes[1].Code != "WELCOME10" || codes[1].Percentage != 10 {
		t.Errorf("unexpected second code: %+v", codes[1])
	}
	for _, c := range codes {
		if !c.IsActive {
			t.Errorf("parsed code %s should be active", c.Code)
		}
	}
}
