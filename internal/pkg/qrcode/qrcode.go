// Package qrcode encodes and decodes the member check-in QR payload.
package qrcode

import (
	"encoding/json"
	"fmt"
	"strings"

	"princip-gym/internal/core/domain"

	"github.com/google/uuid"
	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels
const DefaultSize = 300

// Payload is the JSON carried by a member's QR code.
type Payload struct {
	UserID string `json:"userId"`
}

// EncodePayload returns the JSON text for a member QR code.
func EncodePayload(userID string) (string, error) {
	b, err := json.Marshal(Payload{UserID: userID})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodePayload parses scanned text. Anything other than {"userId":"<uuid>"} is rejected.
func DecodePayload(raw string) (string, error) {
	var p Payload
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidQRPayload, err)
	}
	if _, err := uuid.Parse(p.UserID); err != nil {
		return "", fmt.Errorf("%w: userId is not a valid id", domain.ErrInvalidQRPayload)
	}
	return p.UserID, nil
}

// PNG renders content as a QR code image.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	return goqrcode.Encode(content, goqrcode.Medium, size)
}
