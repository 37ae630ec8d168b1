package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"kycpay-web/backend"
	"kycpay-web/forms"
	"kycpay-web/middleware"
	"kycpay-web/session"
)

var kycFields = []forms.KycField{
	forms.FieldFullName,
	forms.FieldDateOfBirth,
	forms.FieldAadhar,
	forms.FieldPAN,
}

type kycView struct {
	State    string
	Editable bool
	Exists   bool
	FullName string
	DOB      string
	Aadhar   string
	PAN      string
	Error    string
	Notice   string
}

type paymentView struct {
	Amount        string
	Currency      string
	Method        string
	CardNumber    string
	CardExpiry    string
	CardCVV       string
	UTR           string
	Bank          string
	AccountNumber string
	IFSC          string
	Error         string
}

type paymentPage struct {
	Email      string
	Notice     string
	Kyc        kycView
	Payment    paymentView
	Currencies []forms.Currency
	Methods    []forms.PaymentMethod
	Banks      []string
}

func newKycView(form *forms.KycForm) kycView {
	return kycView{
		State:    string(form.State()),
		Editable: form.Editable(),
		Exists:   form.Exists(),
		FullName: form.Record.Value(forms.FieldFullName),
		DOB:      form.Record.Value(forms.FieldDateOfBirth),
		Aadhar:   form.Record.Value(forms.FieldAadhar),
		PAN:      form.Record.Value(forms.FieldPAN),
	}
}

func newPaymentView(req forms.PaymentRequest) paymentView {
	return paymentView{
		Amount:        req.Amount,
		Currency:      string(req.Currency),
		Method:        string(req.Method),
		CardNumber:    req.Card.Number,
		CardExpiry:    req.Card.Expiry,
		CardCVV:       req.Card.CVV,
		UTR:           req.UTR,
		Bank:          req.NetBanking.Bank,
		AccountNumber: req.NetBanking.AccountNumber,
		IFSC:          req.NetBanking.IFSC,
	}
}

func (h *Handlers) renderPaymentPage(w http.ResponseWriter, r *http.Request, status int, sess *session.Session, kyc kycView, payment paymentView) {
	h.render(w, status, "payment.html", paymentPage{
		Email:      sess.Email,
		Notice:     h.takeNotice(w, r),
		Kyc:        kyc,
		Payment:    payment,
		Currencies: forms.Currencies,
		Methods:    forms.PaymentMethods,
		Banks:      forms.Banks,
	})
}

// loadKycForm fetches the user's KYC record into a fresh form. After a failed
// fetch the form is still usable: empty and in edit mode.
func (h *Handlers) loadKycForm(r *http.Request, sess *session.Session) (*forms.KycForm, error) {
	form := forms.NewKycForm()
	if err := form.Load(r.Context(), sess.Credential, h.backend); err != nil {
		h.logger.Warn("failed to fetch kyc", zap.Error(err))
		return form, err
	}
	return form, nil
}

// PaymentPage shows the KYC and payment forms. mode=edit opens the KYC form
// for editing and mode=view closes it.
func (h *Handlers) PaymentPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	form, loadErr := h.loadKycForm(r, sess)
	switch r.URL.Query().Get("mode") {
	case "edit":
		if err := form.Edit(r.Context()); err != nil {
			h.logger.Debug("kyc edit ignored", zap.Error(err))
		}
	case "view":
		if form.Editable() {
			if err := form.Cancel(r.Context()); err != nil {
				h.logger.Debug("kyc cancel ignored", zap.Error(err))
			}
		}
	}

	view := newKycView(form)
	if loadErr != nil {
		view.Error = backend.Notice(loadErr, "Failed to load KYC details")
	}
	h.renderPaymentPage(w, r, http.StatusOK, sess, view, newPaymentView(forms.NewPaymentRequest()))
}

// SubmitKYC creates the KYC record, or updates it when one was found.
func (h *Handlers) SubmitKYC(w http.ResponseWriter, r *http.Request) {
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
	form, loadErr := h.loadKycForm(r, sess)
	if loadErr != nil {
		view := newKycView(form)
		view.Error = backend.Notice(loadErr, "KYC submission failed")
		h.renderPaymentPage(w, r, http.StatusBadGateway, sess, view, newPaymentView(forms.NewPaymentRequest()))
		return
	}
	if err := form.Edit(ctx); err != nil {
		h.logger.Error("failed to open kyc form for editing", zap.Error(err))
		http.Error(w, "Failed to open KYC form", http.StatusInternalServerError)
		return
	}
	for _, field := range kycFields {
		if err := form.Set(field, r.PostForm.Get(string(field))); err != nil {
			h.logger.Error("failed to set kyc field", zap.String("field", string(field)), zap.Error(err))
		}
	}

	action, notice := "KYC_CREATE", "KYC submitted successfully!"
	if form.Exists() {
		action, notice = "KYC_UPDATE", "KYC updated successfully!"
	}
	payment := newPaymentView(forms.NewPaymentRequest())

	err := form.Submit(ctx, sess.Credential, h.backend)
	var formatErr *forms.FormatError
	switch {
	case errors.As(err, &formatErr):
		view := newKycView(form)
		view.Error = formatErr.Message
		h.renderPaymentPage(w, r, http.StatusUnprocessableEntity, sess, view, payment)
	case err != nil:
		h.logger.Warn("kyc submission failed", zap.String("action", action), zap.Error(err))
		h.logAudit(r, sess.ID, action, "KYC", "failed", "")
		view := newKycView(form)
		view.Error = backend.Notice(err, "KYC submission failed")
		h.renderPaymentPage(w, r, http.StatusBadGateway, sess, view, payment)
	default:
		h.logAudit(r, sess.ID, action, "KYC", "accepted", "")
		view := newKycView(form)
		view.Notice = notice
		h.renderPaymentPage(w, r, http.StatusOK, sess, view, payment)
	}
}
