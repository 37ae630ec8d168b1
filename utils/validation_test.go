package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateVar(t *testing.T) {
	tests := []struct {
		tag   string
		value string
		want  bool
	}{
		{TagAmount, "250.75", true},
		{TagAmount, "1e5", false},
		{TagAmount, "-1", false},
		{TagFullName, "Asha Rao", true},
		{TagFullName, "Asha R4o", false},
		{TagFullName, "", false},
		{TagAadhaar, "123456789012", true},
		{TagAadhaar, "12345678901", false},
		{TagPAN, "ABCDE1234F", true},
		{TagPAN, "abcde1234f", false},
		{TagCardNumber, "4111111111111111", true},
		{TagCardNumber, "4111 1111 1111 1111", false},
		{TagCardExpiry, "01/27", true},
		{TagCardExpiry, "00/27", false},
		{TagCardExpiry, "1/27", false},
		{TagCVV, "123", true},
		{TagCVV, "1234", false},
		{TagUTR, "123456789012", true},
		{TagAccountNumber, "123456789", true},
		{TagAccountNumber, "123456789012345678", true},
		{TagAccountNumber, "12345678", false},
		{TagIFSC, "SBIN0001234", true},
		{TagIFSC, "SBIN1001234", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateVar(tt.value, tt.tag), "%s %q", tt.tag, tt.value)
	}
}

func TestFormatValidationError(t *testing.T) {
	type signup struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
		PAN      string `validate:"pan"`
	}

	err := ValidateStruct(signup{Email: "nope", Password: "short", PAN: "x"})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "password must be at least 8 characters", fields["password"])
	assert.Equal(t, "pan is invalid", fields["pan"])
}
