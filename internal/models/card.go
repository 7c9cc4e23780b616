package models

// CardPayload is the flat record embedded in the ID card's QR code. It is
// built per render, serialized to pretty-printed JSON (scanner apps show the
// raw text when they cannot parse it) and discarded after encoding.
type CardPayload struct {
	PlayerID         string `json:"playerId"`
	Name             string `json:"name"`
	Gender           string `json:"gender"`
	PrimarySport     string `json:"primarySport"`
	DateOfBirth      string `json:"dateOfBirth"`
	PassportNumber   string `json:"passportNumber"`
	Address          string `json:"address"`
	CoachName        string `json:"coachName"`
	CoachContact     string `json:"coachContact"`
	EmergencyName    string `json:"emergencyName"`
	EmergencyContact string `json:"emergencyContact"`
}

// GenerateCardRequest asks for a card render for one player.
type GenerateCardRequest struct {
	PlayerID string `json:"playerId"`
}

// GenerateCardResponse carries the reference path of the stored card.
type GenerateCardResponse struct {
	PlayerID   string `json:"playerId"`
	IDCardPath string `json:"idCardPath"`
}

// SendOTPRequest starts email verification for card lookup.
type SendOTPRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest completes email verification.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// SearchPlayerRequest looks a player up by ID and registered email.
type SearchPlayerRequest struct {
	PlayerID string `json:"playerId"`
	Email    string `json:"email"`
}
