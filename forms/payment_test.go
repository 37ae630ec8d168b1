package forms

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func cardRequest(expiry, cvv string) PaymentRequest {
	req := NewPaymentRequest()
	req.Amount = "250.75"
	req.Card = CardDetails{Number: "4111111111111111", Expiry: expiry, CVV: cvv}
	return req
}

func TestValidatePaymentAt_Amount(t *testing.T) {
	for _, amount := range []string{"", "0", "-10", "abc", "1,000", "0.00", "1e5", "1e20000000", "1E2", "+5", ".5", "5.", "0x10"} {
		req := cardRequest("12/30", "123")
		req.Amount = amount
		assert.Equal(t, MsgAmount, ValidatePaymentAt(req, payNow).First().Message, amount)
	}

	req := cardRequest("12/30", "123")
	req.Amount = " 0.01 "
	assert.True(t, ValidatePaymentAt(req, payNow).OK())

	req.Amount = "1000000"
	assert.True(t, ValidatePaymentAt(req, payNow).OK())
}

func TestToSubmissionPayload_ExponentAmountNotExpanded(t *testing.T) {
	req := NewPaymentRequest()
	req.Amount = "1e20000000"
	req.Method = MethodUPI
	req.UTR = "123456789012"

	assert.Equal(t, MsgAmount, ValidatePaymentAt(req, payNow).First().Message)
	assert.True(t, ToSubmissionPayload(req).Amount.IsZero())
}

func TestValidatePaymentAt_CurrencyAndMethod(t *testing.T) {
	req := cardRequest("12/30", "123")
	req.Currency = "JPY"
	assert.Equal(t, MsgCurrency, ValidatePaymentAt(req, payNow).First().Message)

	req.Currency = ""
	assert.True(t, ValidatePaymentAt(req, payNow).OK())

	req.Method = "Cash"
	assert.Equal(t, MsgMethod, ValidatePaymentAt(req, payNow).First().Message)
}

func TestValidatePaymentAt_CardOrder(t *testing.T) {
	tests := []struct {
		name string
		card CardDetails
		want string
	}{
		{"short number", CardDetails{Number: "411111111111111", Expiry: "bad", CVV: "1"}, MsgCardNumber},
		{"bad expiry format", CardDetails{Number: "4111111111111111", Expiry: "13/30", CVV: "1"}, MsgCardExpiry},
		{"expiry without slash", CardDetails{Number: "4111111111111111", Expiry: "1230", CVV: "123"}, MsgCardExpiry},
		{"expired last year", CardDetails{Number: "4111111111111111", Expiry: "12/25", CVV: "12"}, MsgCardExpired},
		{"expired last month", CardDetails{Number: "4111111111111111", Expiry: "09/26", CVV: "123"}, MsgCardExpired},
		{"bad cvv", CardDetails{Number: "4111111111111111", Expiry: "10/26", CVV: "12a"}, MsgCVV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewPaymentRequest()
			req.Amount = "10"
			req.Card = tt.card
			result := ValidatePaymentAt(req, payNow)
			require.Len(t, result, 1)
			assert.Equal(t, tt.want, result[0].Message)
		})
	}
}

func TestValidatePaymentAt_ExpiredCardStopsBeforeCVV(t *testing.T) {
	result := ValidatePaymentAt(cardRequest("01/24", "123"), payNow)
	require.Len(t, result, 1)
	assert.Equal(t, MsgCardExpired, result[0].Message)

	result = ValidatePaymentAt(cardRequest("01/24", "x"), payNow)
	require.Len(t, result, 1)
	assert.Equal(t, MsgCardExpired, result[0].Message)
}

func TestValidatePaymentAt_CardValidThroughExpiryMonth(t *testing.T) {
	assert.True(t, ValidatePaymentAt(cardRequest("10/26", "123"), payNow).OK())
	assert.True(t, ValidatePaymentAt(cardRequest("01/27", "123"), payNow).OK())
}

func TestValidatePaymentAt_UPI(t *testing.T) {
	req := NewPaymentRequest()
	req.Amount = "100"
	req.Method = MethodUPI
	req.UTR = "123456789012"
	// stale card input is ignored
	req.Card = CardDetails{Number: "bad"}
	assert.Empty(t, ValidatePaymentAt(req, payNow))

	req.UTR = "12345678901"
	assert.Equal(t, MsgUTR, ValidatePaymentAt(req, payNow).First().Message)
}

func TestValidatePaymentAt_NetBanking(t *testing.T) {
	req := NewPaymentRequest()
	req.Amount = "100"
	req.Method = MethodNetBanking
	req.NetBanking = NetBankingDetails{Bank: "HDFC", AccountNumber: "12345678", IFSC: "bad"}
	assert.Equal(t, MsgAccountNumber, ValidatePaymentAt(req, payNow).First().Message)

	req.NetBanking.AccountNumber = "1234567890123456789"
	assert.Equal(t, MsgAccountNumber, ValidatePaymentAt(req, payNow).First().Message)

	req.NetBanking.AccountNumber = "123456789"
	assert.Equal(t, MsgIFSC, ValidatePaymentAt(req, payNow).First().Message)

	req.NetBanking.IFSC = "hdfc0001234"
	assert.Equal(t, MsgIFSC, ValidatePaymentAt(req, payNow).First().Message)

	req.NetBanking.IFSC = "HDFC1001234"
	assert.Equal(t, MsgIFSC, ValidatePaymentAt(req, payNow).First().Message)

	req.NetBanking.IFSC = "HDFC0AB1234"
	assert.True(t, ValidatePaymentAt(req, payNow).OK())
}

func TestValidatePaymentAt_Idempotent(t *testing.T) {
	req := cardRequest("01/24", "123")
	first := ValidatePaymentAt(req, payNow)
	assert.Equal(t, first, ValidatePaymentAt(req, payNow))
	assert.Equal(t, "01/24", req.Card.Expiry)
}

func payloadKeys(t *testing.T, p PaymentPayload) map[string]json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &keys))
	return keys
}

func TestToSubmissionPayload_NetBanking(t *testing.T) {
	req := NewPaymentRequest()
	req.Amount = "1500.50"
	req.Currency = CurrencyUSD
	req.Method = MethodNetBanking
	req.Card = CardDetails{Number: "4111111111111111", Expiry: "12/30", CVV: "123"}
	req.UTR = "123456789012"
	req.NetBanking = NetBankingDetails{Bank: "SBI", AccountNumber: "123456789", IFSC: "SBIN0001234"}

	keys := payloadKeys(t, ToSubmissionPayload(req))
	assert.NotContains(t, keys, "card_details")
	assert.NotContains(t, keys, "utr_number")
	assert.JSONEq(t, `"SBI"`, string(keys["bank"]))
	assert.JSONEq(t, `"123456789"`, string(keys["account_number"]))
	assert.JSONEq(t, `"SBIN0001234"`, string(keys["ifsc_code"]))
	assert.JSONEq(t, `"NetBanking"`, string(keys["payment_method"]))
	assert.JSONEq(t, `"USD"`, string(keys["currency"]))
	assert.JSONEq(t, `"1500.5"`, string(keys["amount"]))
}

func TestToSubmissionPayload_Card(t *testing.T) {
	req := cardRequest("12/30", "123")
	req.UTR = "123456789012"
	req.NetBanking = NetBankingDetails{Bank: "SBI"}

	keys := payloadKeys(t, ToSubmissionPayload(req))
	assert.Len(t, keys, 4)
	assert.JSONEq(t, `{"number":"4111111111111111","expiry":"12/30","cvv":"123"}`, string(keys["card_details"]))
	assert.NotContains(t, keys, "bank")
}

func TestToSubmissionPayload_UPI(t *testing.T) {
	req := NewPaymentRequest()
	req.Amount = "99"
	req.Currency = ""
	req.Method = MethodUPI
	req.UTR = "123456789012"

	p := ToSubmissionPayload(req)
	assert.Equal(t, CurrencyINR, p.Currency)
	assert.Nil(t, p.Card)
	assert.Nil(t, p.NetBankingDetails)

	keys := payloadKeys(t, p)
	assert.Len(t, keys, 4)
	assert.JSONEq(t, `"123456789012"`, string(keys["utr_number"]))
}
