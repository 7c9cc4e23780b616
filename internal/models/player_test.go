package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactUnmarshalBareString(t *testing.T) {
	var c Contact
	require.NoError(t, json.Unmarshal([]byte(`"9876543210"`), &c))
	assert.Equal(t, "9876543210", c.Phone)
	assert.Empty(t, c.Name)
}

func TestContactUnmarshalStructured(t *testing.T) {
	var c Contact
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ravi Patel","phone":"9876543210"}`), &c))
	assert.Equal(t, "Ravi Patel", c.Name)
	assert.Equal(t, "9876543210", c.Phone)
}

func TestContactUnmarshalNull(t *testing.T) {
	c := Contact{Name: "stale", Phone: "stale"}
	require.NoError(t, json.Unmarshal([]byte(`null`), &c))
	assert.True(t, c.IsZero())
}

func TestContactAlwaysMarshalsStructured(t *testing.T) {
	data, err := json.Marshal(Contact{Phone: "9876543210"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phone":"9876543210"}`, string(data))
}

func TestContactRoundTripInsidePlayer(t *testing.T) {
	raw := `{"playerId":"GJ0042","firstName":"Asha","coachContact":"111","emergencyContact":{"name":"Mira","phone":"222"}}`

	var p Player
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, "111", p.CoachContact.DisplayPhone())
	assert.Equal(t, "Mira", p.EmergencyContact.DisplayName())
	assert.Equal(t, "222", p.EmergencyContact.DisplayPhone())
}

func TestAddressFlatten(t *testing.T) {
	a := Address{Street: "12 MG Road", City: "Ahmedabad", State: "Gujarat", PostalCode: "380001"}
	assert.Equal(t, "12 MG Road, Ahmedabad, Gujarat, 380001", a.Flatten())
}

func TestAddressFlattenSkipsMissingParts(t *testing.T) {
	a := Address{City: "Ahmedabad", PostalCode: "380001"}
	assert.Equal(t, "Ahmedabad, 380001", a.Flatten())
	assert.Equal(t, "", Address{}.Flatten())
}

func TestFullName(t *testing.T) {
	p := Player{FirstName: "Asha", LastName: "Parmar"}
	assert.Equal(t, "Asha Parmar", p.FullName())

	p.LastName = ""
	assert.Equal(t, "Asha", p.FullName())

	p.FirstName = ""
	assert.Equal(t, "", p.FullName())
}

func TestParseDOB(t *testing.T) {
	dob, err := ParseDOB("2001-01-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2001, 1, 5, 0, 0, 0, 0, time.UTC), dob)

	dob, err = ParseDOB("")
	require.NoError(t, err)
	assert.True(t, dob.IsZero())

	_, err = ParseDOB("05/01/2001")
	assert.Error(t, err)
}

func TestCreatePlayerRequestValidate(t *testing.T) {
	req := CreatePlayerRequest{FirstName: "Asha", Email: "asha@example.com", DateOfBirth: "2001-01-05"}
	assert.Empty(t, req.Validate())

	bad := CreatePlayerRequest{Email: "not-an-email", DateOfBirth: "garbage"}
	errs := bad.Validate()
	assert.Contains(t, errs, "firstName")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "dateOfBirth")
}

func TestUpdatePlayerRequestValidate(t *testing.T) {
	empty := ""
	req := UpdatePlayerRequest{FirstName: &empty}
	assert.Contains(t, req.Validate(), "firstName")

	assert.Empty(t, (&UpdatePlayerRequest{}).Validate())
}
