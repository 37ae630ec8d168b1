package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"kycpay-web/backend"
	"kycpay-web/forms"
	"kycpay-web/middleware"
)

const reportFilename = "transaction_report.pdf"

type transactionRow struct {
	ID       uint
	Created  time.Time
	HasDate  bool
	Method   string
	Amount   float64
	Currency string
	Status   string
	UTR      string
}

type dashboardPage struct {
	Email        string
	Notice       string
	Error        string
	Transactions []transactionRow
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	page := dashboardPage{Email: sess.Email, Notice: h.takeNotice(w, r)}
	transactions, err := h.backend.Dashboard(r.Context(), sess.Credential)
	if err != nil {
		h.logger.Warn("failed to fetch dashboard", zap.Error(err))
		page.Error = backend.Notice(err, "Failed to load transactions")
	}

	for _, txn := range transactions {
		created, ok := txn.CreatedTime()
		page.Transactions = append(page.Transactions, transactionRow{
			ID:       txn.ID,
			Created:  created,
			HasDate:  ok,
			Method:   txn.PaymentMethod,
			Amount:   txn.Amount,
			Currency: txn.Currency,
			Status:   txn.Status,
			UTR:      txn.UTR(),
		})
	}

	h.render(w, http.StatusOK, "dashboard.html", page)
}

// DownloadReport relays the backend's PDF report as an attachment. The report
// is buffered so a failure can still redirect with a notice.
func (h *Handlers) DownloadReport(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	var buf bytes.Buffer
	if _, err := h.backend.DownloadReport(r.Context(), sess.Credential, &buf); err != nil {
		h.logger.Warn("failed to download report", zap.Error(err))
		h.setNotice(w, backend.Notice(err, "Failed to download the PDF report"))
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func paymentRequestFromForm(r *http.Request) forms.PaymentRequest {
	req := forms.NewPaymentRequest()
	req.Amount = r.PostForm.Get("amount")
	if c := r.PostForm.Get("currency"); c != "" {
		req.Currency = forms.Currency(c)
	}
	if m := r.PostForm.Get("payment_method"); m != "" {
		req.Method = forms.PaymentMethod(m)
	}
	req.Card = forms.CardDetails{
		Number: r.PostForm.Get("card_number"),
		Expiry: r.PostForm.Get("card_expiry"),
		CVV:    r.PostForm.Get("card_cvv"),
	}
	req.UTR = r.PostForm.Get("utr_number")
	req.NetBanking = forms.NetBankingDetails{
		Bank:          r.PostForm.Get("bank"),
		AccountNumber: r.PostForm.Get("account_number"),
		IFSC:          r.PostForm.Get("ifsc_code"),
	}
	return req
}

// SubmitPayment validates the payment form and relays it to the payment
// processor. Payments are only accepted once the user has a KYC record.
func (h *Handlers) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	req := paymentRequestFromForm(r)
	view := newPaymentView(req)

	// format errors are reported without contacting the backend
	if first := forms.ValidatePayment(req).First(); first != nil {
		view.Error = first.Message
		h.renderPaymentPage(w, r, http.StatusUnprocessableEntity, sess, newKycView(forms.NewKycForm()), view)
		return
	}

	form, err := h.loadKycForm(r, sess)
	if err != nil {
		view.Error = backend.Notice(err, "Payment failed")
		h.renderPaymentPage(w, r, http.StatusBadGateway, sess, newKycView(form), view)
		return
	}
	if !form.Exists() {
		view.Error = "Please complete KYC before making a payment"
		h.renderPaymentPage(w, r, http.StatusForbidden, sess, newKycView(form), view)
		return
	}

	payload, err := forms.SubmitPayment(ctx, sess.Credential, req, h.backend)
	var formatErr *forms.FormatError
	switch {
	case errors.As(err, &formatErr):
		view.Error = formatErr.Message
		h.renderPaymentPage(w, r, http.StatusUnprocessableEntity, sess, newKycView(form), view)
	case err != nil:
		h.logger.Warn("payment submission failed", zap.String("method", string(payload.Method)), zap.Error(err))
		h.logAudit(r, sess.ID, "PAYMENT_SUBMIT", "PAYMENT", "failed", paymentDetails(payload))
		view.Error = backend.Notice(err, "Payment failed")
		h.renderPaymentPage(w, r, http.StatusBadGateway, sess, newKycView(form), view)
	default:
		h.logAudit(r, sess.ID, "PAYMENT_SUBMIT", "PAYMENT", "accepted", paymentDetails(payload))
		h.setNotice(w, "Payment processed successfully!")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

func paymentDetails(p forms.PaymentPayload) string {
	return fmt.Sprintf("%s %s via %s", p.Amount.String(), p.Currency, p.Method)
}
