package qr

import (
	"encoding/base64"

	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
)

// PlaceholderPayload is returned when encoding fails; receipt issuance
// carries on with it rather than aborting.
const PlaceholderPayload = "QR-UNAVAILABLE"

// Generator produces an opaque QR payload for receipts
type Generator struct {
	logger zerolog.Logger
}

// New creates a QR payload generator
func New(logger zerolog.Logger) *Generator {
	return &Generator{logger: logger}
}

// Generate encodes text as a QR PNG and returns it base64-encoded. On
// failure it logs and degrades to PlaceholderPayload.
func (g *Generator) Generate(text string) string {
	png, err := qrcode.Encode(text, qrcode.Medium, 256)
	if err != nil {
		g.logger.Warn().Err(err).Msg("qr encoding failed, using placeholder payload")
		return PlaceholderPayload
	}
	return base64.StdEncoding.EncodeToString(png)
}
