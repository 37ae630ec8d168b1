package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	amountRegex        = regexp.MustCompile(`^\d+(\.\d+)?$`)
	fullNameRegex      = regexp.MustCompile(`^[A-Za-z\s]+$`)
	aadhaarRegex       = regexp.MustCompile(`^\d{12}$`)
	panRegex           = regexp.MustCompile(`^[A-Z]{5}\d{4}[A-Z]$`)
	cardNumberRegex    = regexp.MustCompile(`^\d{16}$`)
	cardExpiryRegex    = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRegex           = regexp.MustCompile(`^\d{3}$`)
	utrRegex           = regexp.MustCompile(`^\d{12}$`)
	accountNumberRegex = regexp.MustCompile(`^\d{9,18}$`)
	ifscRegex          = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// Field format tags understood by ValidateVar.
const (
	TagAmount        = "amount"
	TagFullName      = "fullname"
	TagAadhaar       = "aadhaar"
	TagPAN           = "pan"
	TagCardNumber    = "cardnumber"
	TagCardExpiry    = "cardexpiry"
	TagCVV           = "cvv"
	TagUTR           = "utr"
	TagAccountNumber = "accountnumber"
	TagIFSC          = "ifsc"
)

func init() {
	validate = validator.New()

	patterns := map[string]*regexp.Regexp{
		TagAmount:        amountRegex,
		TagFullName:      fullNameRegex,
		TagAadhaar:       aadhaarRegex,
		TagPAN:           panRegex,
		TagCardNumber:    cardNumberRegex,
		TagCardExpiry:    cardExpiryRegex,
		TagCVV:           cvvRegex,
		TagUTR:           utrRegex,
		TagAccountNumber: accountNumberRegex,
		TagIFSC:          ifscRegex,
	}
	for tag, re := range patterns {
		re := re
		if err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateVar reports whether value satisfies the validator tag.
func ValidateVar(value string, tag string) bool {
	return validate.Var(value, tag) == nil
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

// FormatValidationError flattens validator errors into field -> message pairs.
func FormatValidationError(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			field := strings.ToLower(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", field)
			case "email":
				errors[field] = "Invalid email format"
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", field)
			}
		}
	}

	return errors
}
