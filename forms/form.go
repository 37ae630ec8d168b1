package forms

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
)

// KycState is where a KYC form is in its session.
type KycState string

const (
	StateLoading   KycState = "loading"
	StateEditing   KycState = "editing"
	StateReadOnly  KycState = "read_only"
	StateSubmitted KycState = "submitted"
)

const (
	eventFound   = "found"
	eventMissing = "missing"
	eventEdit    = "edit"
	eventCancel  = "cancel"
	eventSubmit  = "submit"
)

var ErrNotEditable = errors.New("kyc form is not in edit mode")

// KycStore is the remote KYC collaborator. FetchKyc returns a nil record and
// no error when the user has not submitted KYC yet.
type KycStore interface {
	FetchKyc(ctx context.Context, credential string) (*KycPayload, error)
	CreateKyc(ctx context.Context, credential string, payload KycPayload) error
	UpdateKyc(ctx context.Context, credential string, payload KycPayload) error
}

// PaymentProcessor is the remote payment collaborator.
type PaymentProcessor interface {
	SubmitPayment(ctx context.Context, credential string, payload PaymentPayload) error
}

// KycForm is one session of the KYC sub-form. It is not safe for concurrent use.
type KycForm struct {
	Record KycRecord

	// exists is set once the backend holds a record; submits then update it.
	exists bool
	fsm    *fsm.FSM
}

func NewKycForm() *KycForm {
	return &KycForm{
		fsm: fsm.NewFSM(
			string(StateLoading),
			fsm.Events{
				{Name: eventFound, Src: []string{string(StateLoading)}, Dst: string(StateReadOnly)},
				{Name: eventMissing, Src: []string{string(StateLoading)}, Dst: string(StateEditing)},
				{Name: eventEdit, Src: []string{string(StateReadOnly), string(StateSubmitted)}, Dst: string(StateEditing)},
				{Name: eventCancel, Src: []string{string(StateEditing)}, Dst: string(StateReadOnly)},
				{Name: eventSubmit, Src: []string{string(StateEditing)}, Dst: string(StateSubmitted)},
			},
			fsm.Callbacks{},
		),
	}
}

func (f *KycForm) State() KycState {
	return KycState(f.fsm.Current())
}

// Exists reports whether the next submit updates an existing record.
func (f *KycForm) Exists() bool {
	return f.exists
}

func (f *KycForm) Editable() bool {
	return f.State() == StateEditing
}

// Load fetches any existing record and leaves the form read-only when one is
// found, or editing when none is.
func (f *KycForm) Load(ctx context.Context, credential string, store KycStore) error {
	payload, err := store.FetchKyc(ctx, credential)
	if err != nil {
		// nothing to show; let the user enter a record
		_ = f.fsm.Event(ctx, eventMissing)
		return err
	}
	if payload == nil {
		return f.fsm.Event(ctx, eventMissing)
	}

	f.Record = payload.Record()
	f.exists = true
	return f.fsm.Event(ctx, eventFound)
}

func (f *KycForm) Edit(ctx context.Context) error {
	if f.Editable() {
		return nil
	}
	return f.fsm.Event(ctx, eventEdit)
}

func (f *KycForm) Cancel(ctx context.Context) error {
	return f.fsm.Event(ctx, eventCancel)
}

func (f *KycForm) Set(field KycField, value string) error {
	if !f.Editable() {
		return ErrNotEditable
	}
	return f.Record.Set(field, value)
}

// Submit validates the record and sends it to the store, creating it the
// first time and updating it afterwards. A *FormatError is returned without
// contacting the store. On a store error the form stays in edit mode with the
// entered values.
func (f *KycForm) Submit(ctx context.Context, credential string, store KycStore) error {
	if !f.Editable() {
		return ErrNotEditable
	}
	if err := ValidateKyc(f.Record).Err(); err != nil {
		return err
	}

	payload := f.Record.Payload()
	if f.exists {
		if err := store.UpdateKyc(ctx, credential, payload); err != nil {
			return fmt.Errorf("update kyc: %w", err)
		}
	} else {
		if err := store.CreateKyc(ctx, credential, payload); err != nil {
			return fmt.Errorf("create kyc: %w", err)
		}
	}

	f.exists = true
	return f.fsm.Event(ctx, eventSubmit)
}

// SubmitPayment validates the request and hands the normalised payload to the
// processor once. A *FormatError is returned without contacting the processor.
func SubmitPayment(ctx context.Context, credential string, request PaymentRequest, processor PaymentProcessor) (PaymentPayload, error) {
	if err := ValidatePayment(request).Err(); err != nil {
		return PaymentPayload{}, err
	}

	payload := ToSubmissionPayload(request)
	if err := processor.SubmitPayment(ctx, credential, payload); err != nil {
		return payload, fmt.Errorf("submit payment: %w", err)
	}
	return payload, nil
}
