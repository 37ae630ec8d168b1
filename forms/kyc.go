package forms

import (
	"fmt"
	"time"

	"kycpay-web/utils"
)

// DateLayout is the calendar date format used by the date input and the backend.
const DateLayout = "2006-01-02"

const minimumAge = 18

const (
	MsgFullName    = "Full Name should contain only alphabets and spaces"
	MsgDOBRequired = "Date of Birth is required"
	MsgUnderage    = "You must be at least 18 years old"
	MsgAadhar      = "Aadhar Number should be exactly 12 digits"
	MsgPAN         = "PAN Number should be exactly 10 characters and follow the format ABCDE1234F"
)

// KycField names one editable field of the KYC form.
type KycField string

const (
	FieldFullName    KycField = "full_name"
	FieldDateOfBirth KycField = "dob"
	FieldAadhar      KycField = "aadhar_number"
	FieldPAN         KycField = "pan_number"
)

type KycRecord struct {
	FullName     string
	DateOfBirth  time.Time
	AadharNumber string
	PANNumber    string
}

// KycPayload is the body sent on create and update, and returned on fetch.
type KycPayload struct {
	FullName     string `json:"full_name"`
	DOB          string `json:"dob"`
	AadharNumber string `json:"aadhar_number"`
	PANNumber    string `json:"pan_number"`
}

// Set assigns a raw form value to the named field. An unparsable date clears it.
func (r *KycRecord) Set(field KycField, value string) error {
	switch field {
	case FieldFullName:
		r.FullName = value
	case FieldDateOfBirth:
		r.DateOfBirth, _ = time.Parse(DateLayout, value)
	case FieldAadhar:
		r.AadharNumber = value
	case FieldPAN:
		r.PANNumber = value
	default:
		return fmt.Errorf("unknown kyc field %q", field)
	}
	return nil
}

// Value returns the field as it is shown in the form.
func (r KycRecord) Value(field KycField) string {
	switch field {
	case FieldFullName:
		return r.FullName
	case FieldDateOfBirth:
		if r.DateOfBirth.IsZero() {
			return ""
		}
		return r.DateOfBirth.Format(DateLayout)
	case FieldAadhar:
		return r.AadharNumber
	case FieldPAN:
		return r.PANNumber
	}
	return ""
}

func (r KycRecord) Payload() KycPayload {
	return KycPayload{
		FullName:     r.FullName,
		DOB:          r.Value(FieldDateOfBirth),
		AadharNumber: r.AadharNumber,
		PANNumber:    r.PANNumber,
	}
}

// Record converts a fetched payload back into form state.
func (p KycPayload) Record() KycRecord {
	rec := KycRecord{
		FullName:     p.FullName,
		AadharNumber: p.AadharNumber,
		PANNumber:    p.PANNumber,
	}
	_ = rec.Set(FieldDateOfBirth, p.DOB)
	return rec
}

// ValidateKyc checks the record against the current date.
func ValidateKyc(record KycRecord) ValidationResult {
	return ValidateKycAt(record, time.Now())
}

// ValidateKycAt stops at the first failing rule. Age is the difference of
// calendar years only; month and day are ignored.
func ValidateKycAt(record KycRecord, now time.Time) ValidationResult {
	if !utils.ValidateVar(record.FullName, utils.TagFullName) {
		return fail(string(FieldFullName), MsgFullName)
	}
	if record.DateOfBirth.IsZero() {
		return fail(string(FieldDateOfBirth), MsgDOBRequired)
	}
	if now.Year()-record.DateOfBirth.Year() < minimumAge {
		return fail(string(FieldDateOfBirth), MsgUnderage)
	}
	if !utils.ValidateVar(record.AadharNumber, utils.TagAadhaar) {
		return fail(string(FieldAadhar), MsgAadhar)
	}
	if !utils.ValidateVar(record.PANNumber, utils.TagPAN) {
		return fail(string(FieldPAN), MsgPAN)
	}
	return nil
}
