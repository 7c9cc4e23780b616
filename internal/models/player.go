package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Player is a registered athlete stored in the players collection.
// Every field the ID card renders from is optional: a missing value must
// degrade to an empty rendering, never fail generation.
type Player struct {
	PlayerID         string    `json:"playerId" bson:"player_id"`
	FirstName        string    `json:"firstName" bson:"first_name"`
	LastName         string    `json:"lastName" bson:"last_name,omitempty"`
	Email            string    `json:"email" bson:"email,omitempty"`
	Gender           string    `json:"gender" bson:"gender,omitempty"`
	PrimarySport     string    `json:"primarySport" bson:"primary_sport,omitempty"`
	DateOfBirth      time.Time `json:"dateOfBirth" bson:"date_of_birth,omitempty"`
	PassportNumber   string    `json:"passportNumber" bson:"passport_number,omitempty"`
	Address          Address   `json:"address" bson:"address,omitempty"`
	CoachName        string    `json:"coachName" bson:"coach_name,omitempty"`
	CoachContact     Contact   `json:"coachContact" bson:"coach_contact,omitempty"`
	EmergencyContact Contact   `json:"emergencyContact" bson:"emergency_contact,omitempty"`
	ProfilePhoto     string    `json:"profilePhoto" bson:"profile_photo,omitempty"`
	IDCardGenerated  bool      `json:"idCardGenerated" bson:"id_card_generated"`
	IDCardPath       string    `json:"idCardPath" bson:"id_card_path,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// FullName joins first and last name, tolerating a missing last name.
func (p *Player) FullName() string {
	if p.FirstName == "" {
		return ""
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Address struct {
	Street     string `json:"street" bson:"street,omitempty"`
	City       string `json:"city" bson:"city,omitempty"`
	State      string `json:"state" bson:"state,omitempty"`
	PostalCode string `json:"postalCode" bson:"postal_code,omitempty"`
}

// Flatten joins the present address components with commas. Absent
// components are skipped entirely, no empty placeholders.
func (a Address) Flatten() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{a.Street, a.City, a.State, a.PostalCode} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Contact is a coach or emergency contact. Legacy client payloads send a
// bare phone string; newer ones send {name, phone}. Unmarshal accepts both
// and the struct always marshals (and persists) in the structured form.
type Contact struct {
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

func (c *Contact) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*c = Contact{}
		return nil
	}
	if trimmed[0] == '"' {
		var phone string
		if err := json.Unmarshal(trimmed, &phone); err != nil {
			return err
		}
		*c = Contact{Phone: phone}
		return nil
	}
	type contactAlias Contact
	var alias contactAlias
	if err := json.Unmarshal(trimmed, &alias); err != nil {
		return err
	}
	*c = Contact(alias)
	return nil
}

// DisplayPhone normalizes either variant to a single phone string.
func (c Contact) DisplayPhone() string {
	return strings.TrimSpace(c.Phone)
}

// DisplayName returns the contact name, empty for the bare-string variant.
func (c Contact) DisplayName() string {
	return strings.TrimSpace(c.Name)
}

func (c Contact) IsZero() bool {
	return c.Name == "" && c.Phone == ""
}

type CreatePlayerRequest struct {
	PlayerID         string  `json:"playerId"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email"`
	Gender           string  `json:"gender"`
	PrimarySport     string  `json:"primarySport"`
	DateOfBirth      string  `json:"dateOfBirth"` // YYYY-MM-DD
	PassportNumber   string  `json:"passportNumber"`
	Address          Address `json:"address"`
	CoachName        string  `json:"coachName"`
	CoachContact     Contact `json:"coachContact"`
	EmergencyContact Contact `json:"emergencyContact"`
	ProfilePhoto     string  `json:"profilePhoto"`
}

type UpdatePlayerRequest struct {
	FirstName        *string  `json:"firstName"`
	LastName         *string  `json:"lastName"`
	Email            *string  `json:"email"`
	Gender           *string  `json:"gender"`
	PrimarySport     *string  `json:"primarySport"`
	DateOfBirth      *string  `json:"dateOfBirth"`
	PassportNumber   *string  `json:"passportNumber"`
	Address          *Address `json:"address"`
	CoachName        *string  `json:"coachName"`
	CoachContact     *Contact `json:"coachContact"`
	EmergencyContact *Contact `json:"emergencyContact"`
	ProfilePhoto     *string  `json:"profilePhoto"`
}

const dobLayout = "2006-01-02"

// ParseDOB parses a YYYY-MM-DD request date. Empty input yields the zero
// time, which renders as an empty field on the card.
func ParseDOB(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return time.Parse(dobLayout, s)
}

func (r *CreatePlayerRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.FirstName) == "" {
		errors["firstName"] = "First name is required"
	}
	if strings.TrimSpace(r.Email) == "" {
		errors["email"] = "Email is required"
	} else if !strings.Contains(r.Email, "@") {
		errors["email"] = "Email is invalid"
	}
	if _, err := ParseDOB(r.DateOfBirth); err != nil {
		errors["dateOfBirth"] = "Date of birth must be YYYY-MM-DD"
	}

	return errors
}

func (r *UpdatePlayerRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.FirstName != nil && strings.TrimSpace(*r.FirstName) == "" {
		errors["firstName"] = "First name cannot be empty"
	}
	if r.Email != nil && !strings.Contains(*r.Email, "@") {
		errors["email"] = "Email is invalid"
	}
	if r.DateOfBirth != nil {
		if _, err := ParseDOB(*r.DateOfBirth); err != nil {
			errors["dateOfBirth"] = "Date of birth must be YYYY-MM-DD"
		}
	}

	return errors
}
