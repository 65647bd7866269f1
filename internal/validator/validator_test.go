package validator

import (
	"testing"

	"clubreg_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Parent: dto.ParentInfo{
			Email:     "jordan@example.com",
			FirstName: "Jordan",
			LastName:  "Reyes",
		},
		Player: dto.PlayerInfo{
			FirstName: "Sam",
			LastName:  "Reyes",
			Birthdate: "2014-03-21",
		},
		Zip: "97035",
	}
}

func TestValidator_ValidRequest(t *testing.T) {
	assert.NoError(t, New().Validate(validRequest()))
}

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	req := validRequest()
	req.Parent.Email = "not-an-email"

	err := New().Validate(req)
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.Equal(t, "must be a valid email address", vErr.Errors["email"])
}

func TestValidator_ZipRule(t *testing.T) {
	v := New()

	for _, zip := range []string{"9703", "970355", "ABCDE", ""} {
		req := validRequest()
		req.Zip = zip
		err := v.Validate(req)
		require.Error(t, err, "zip %q should fail", zip)
	}
}

func TestValidator_PastDateRule(t *testing.T) {
	v := New()

	req := validRequest()
	req.Player.Birthdate = "2099-01-01"
	err := v.Validate(req)
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "birthdate")
}

func TestValidator_PaymentTypeRule(t *testing.T) {
	v := New()

	req := &dto.CreateCheckoutRequest{PlayerID: "p1", PaymentType: "weekly"}
	err := v.Validate(req)
	require.Error(t, err)

	req.PaymentType = "custom"
	assert.NoError(t, v.Validate(req))
}
