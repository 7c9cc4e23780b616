package services

import (
	"encoding/json"
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/parasports/idcard/internal/models"
)

// ErrEncodingFailed means the card payload could not be serialized or
// QR-encoded. It aborts generation before any output file is created.
var ErrEncodingFailed = errors.New("failed to encode card payload")

// qrPixelSize is the side length of the rendered QR raster. The PDF scales
// it down to 120pt, so this only needs to be comfortably larger.
const qrPixelSize = 512

// BuildCardPayload flattens a player record into the summary embedded in
// the card's QR code. Address components are comma-joined, contacts are
// normalized to single phone strings whichever shape they were stored in.
func BuildCardPayload(p *models.Player) models.CardPayload {
	return models.CardPayload{
		PlayerID:         p.PlayerID,
		Name:             p.FullName(),
		Gender:           p.Gender,
		PrimarySport:     p.PrimarySport,
		DateOfBirth:      formatDOB(p.DateOfBirth),
		PassportNumber:   p.PassportNumber,
		Address:          p.Address.Flatten(),
		CoachName:        p.CoachName,
		CoachContact:     p.CoachContact.DisplayPhone(),
		EmergencyName:    p.EmergencyContact.DisplayName(),
		EmergencyContact: p.EmergencyContact.DisplayPhone(),
	}
}

// EncodeCardQR serializes the payload as indented JSON and returns PNG
// bytes of its QR code. Indented so that scanner apps that dump the raw
// decoded text still show something readable.
func EncodeCardQR(p *models.Player) ([]byte, error) {
	payload := BuildCardPayload(p)

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, qrPixelSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}
	return png, nil
}
