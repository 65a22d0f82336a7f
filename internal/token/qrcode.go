package token

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSizePx = 300

// QRCodeBase64 renders a proof token as a base64-encoded PNG suitable for
// embedding in a data URI at the gate.
func QRCodeBase64(proofToken string) (string, error) {
	png, err := qrcode.Encode(proofToken, qrcode.Medium, qrSizePx)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
