package qr

import (
	"encoding/base64"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerate(t *testing.T) {
	g := New(zerolog.Nop())

	t.Run("returns base64 payload", func(t *testing.T) {
		payload := g.Generate("RCP-2602-001 | total 216.00")
		if payload == PlaceholderPayload {
			t.Fatal("expected real payload, got placeholder")
		}
		if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
			t.Errorf("payload is not valid base64: %v", err)
		}
	})

	t.Run("degrades to placeholder on encoding failure", func(t *testing.T) {
		// the encoder rejects empty input
		if payload := g.Generate(""); payload != PlaceholderPayload {
			t.Errorf("expected placeholder, got %q", payload)
		}
	})
}
