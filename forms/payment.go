package forms

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kycpay-web/utils"
)

type PaymentMethod string

const (
	MethodCard       PaymentMethod = "Card"
	MethodUPI        PaymentMethod = "UPI"
	MethodNetBanking PaymentMethod = "NetBanking"
)

var PaymentMethods = []PaymentMethod{MethodCard, MethodUPI, MethodNetBanking}

type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

var Currencies = []Currency{CurrencyINR, CurrencyUSD, CurrencyEUR, CurrencyGBP}

var Banks = []string{"SBI", "HDFC", "ICICI"}

const (
	MsgAmount        = "Amount should be a positive number"
	MsgCurrency      = "Currency is not supported"
	MsgMethod        = "Payment method is not supported"
	MsgCardNumber    = "Card Number should be exactly 16 digits"
	MsgCardExpiry    = "Expiry Date should be in the format MM/YY"
	MsgCardExpired   = "Card is expired"
	MsgCVV           = "CVV should be exactly 3 digits"
	MsgUTR           = "UTR Number should be exactly 12 digits"
	MsgAccountNumber = "Account Number should be between 9 and 18 digits"
	MsgIFSC          = "IFSC Code should be exactly 11 characters and follow the format ABCD0123456"
)

type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

type NetBankingDetails struct {
	Bank          string `json:"bank"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc_code"`
}

// PaymentRequest is the payment form as entered. Only the details matching
// Method are read; the others may hold stale input from a previous selection.
type PaymentRequest struct {
	Amount     string
	Currency   Currency
	Method     PaymentMethod
	Card       CardDetails
	UTR        string
	NetBanking NetBankingDetails
}

// NewPaymentRequest returns the form defaults: INR paid by card.
func NewPaymentRequest() PaymentRequest {
	return PaymentRequest{Currency: CurrencyINR, Method: MethodCard}
}

// PaymentPayload carries exactly the details of the selected method.
type PaymentPayload struct {
	Amount   decimal.Decimal `json:"amount"`
	Method   PaymentMethod   `json:"payment_method"`
	Currency Currency        `json:"currency"`
	Card     *CardDetails    `json:"card_details,omitempty"`
	UTR      string          `json:"utr_number,omitempty"`
	*NetBankingDetails
}

func (r PaymentRequest) currency() Currency {
	if r.Currency == "" {
		return CurrencyINR
	}
	return r.Currency
}

// amount accepts plain decimal notation only. Exponent forms like 1e9 are
// rejected before parsing.
func (r PaymentRequest) amount() (decimal.Decimal, bool) {
	raw := strings.TrimSpace(r.Amount)
	if !utils.ValidateVar(raw, utils.TagAmount) {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}

// ValidatePayment checks the request against the current month.
func ValidatePayment(request PaymentRequest) ValidationResult {
	return ValidatePaymentAt(request, time.Now())
}

// ValidatePaymentAt checks the amount, currency and method, then only the
// details of the selected method, stopping at the first failure.
func ValidatePaymentAt(request PaymentRequest, now time.Time) ValidationResult {
	if _, ok := request.amount(); !ok {
		return fail("amount", MsgAmount)
	}
	if !slices.Contains(Currencies, request.currency()) {
		return fail("currency", MsgCurrency)
	}

	switch request.Method {
	case MethodCard:
		return validateCard(request.Card, now)
	case MethodUPI:
		if !utils.ValidateVar(request.UTR, utils.TagUTR) {
			return fail("utr_number", MsgUTR)
		}
	case MethodNetBanking:
		if !utils.ValidateVar(request.NetBanking.AccountNumber, utils.TagAccountNumber) {
			return fail("account_number", MsgAccountNumber)
		}
		if !utils.ValidateVar(request.NetBanking.IFSC, utils.TagIFSC) {
			return fail("ifsc_code", MsgIFSC)
		}
	default:
		return fail("payment_method", MsgMethod)
	}
	return nil
}

func validateCard(card CardDetails, now time.Time) ValidationResult {
	if !utils.ValidateVar(card.Number, utils.TagCardNumber) {
		return fail("card_number", MsgCardNumber)
	}
	if !utils.ValidateVar(card.Expiry, utils.TagCardExpiry) {
		return fail("card_expiry", MsgCardExpiry)
	}
	if cardExpired(card.Expiry, now) {
		return fail("card_expiry", MsgCardExpired)
	}
	if !utils.ValidateVar(card.CVV, utils.TagCVV) {
		return fail("card_cvv", MsgCVV)
	}
	return nil
}

// cardExpired expects an MM/YY value that already passed the format check.
// A card stays valid through its expiry month.
func cardExpired(expiry string, now time.Time) bool {
	month, _ := strconv.Atoi(expiry[:2])
	year, _ := strconv.Atoi(expiry[3:])
	year += 2000

	if year != now.Year() {
		return year < now.Year()
	}
	return time.Month(month) < now.Month()
}

// ToSubmissionPayload normalises a validated request for the payment processor.
func ToSubmissionPayload(request PaymentRequest) PaymentPayload {
	amount, _ := request.amount()
	payload := PaymentPayload{
		Amount:   amount,
		Method:   request.Method,
		Currency: request.currency(),
	}

	switch request.Method {
	case MethodCard:
		card := request.Card
		payload.Card = &card
	case MethodUPI:
		payload.UTR = request.UTR
	case MethodNetBanking:
		bank := request.NetBanking
		payload.NetBankingDetails = &bank
	}
	return payload
}
