package service

import (
	"github.com/yndnr/ofchat-go/internal/core/domain"
)

// Phase names a flow state.
type Phase string

// Flow phases.
const (
	PhaseIdle                 Phase = "idle"
	PhaseForm                 Phase = "form"
	PhaseAwaitingVerification Phase = "awaiting_verification"
	PhaseSubmitting           Phase = "submitting"
	PhaseCompleted            Phase = "completed"
	PhaseFailed               Phase = "failed"
)

// Operation names an auth flow operation. Values double as metric labels.
type Operation string

// Auth flow operations.
const (
	OpSubmitRegistration Operation = "submit_registration"
	OpRequestCode        Operation = "request_code"
	OpConfirmAndRegister Operation = "confirm_and_register"
	OpLogin              Operation = "login"
	OpLogout             Operation = "logout"
)

// FlowState is the state of a registration or login flow. The set of
// implementations is closed; switch on the concrete type.
//
// Registration moves through StateForm, StateAwaitingVerification,
// StateSubmitting and StateCompleted. Login moves through StateIdle,
// StateSubmitting, StateCompleted and StateFailed.
type FlowState interface {
	Phase() Phase
	flowState()
}

// StateIdle is the initial login state.
type StateIdle struct{}

// StateForm is the registration form, before a code has been requested.
type StateForm struct {
	Draft domain.RegistrationDraft
}

// StateAwaitingVerification holds a validated draft and the outstanding challenge.
type StateAwaitingVerification struct {
	Draft     domain.RegistrationDraft
	Challenge domain.VerificationChallenge
}

// StateSubmitting marks a service call in flight. From is the state the
// flow returns to if the call fails.
type StateSubmitting struct {
	Op   Operation
	From FlowState
}

// StateCompleted holds the established session.
type StateCompleted struct {
	Session domain.UserSession
}

// StateFailed holds the error of the last login attempt.
type StateFailed struct {
	Err error
}

func (StateIdle) Phase() Phase                 { return PhaseIdle }
func (StateForm) Phase() Phase                 { return PhaseForm }
func (StateAwaitingVerification) Phase() Phase { return PhaseAwaitingVerification }
func (StateSubmitting) Phase() Phase           { return PhaseSubmitting }
func (StateCompleted) Phase() Phase            { return PhaseCompleted }
func (StateFailed) Phase() Phase               { return PhaseFailed }

func (StateIdle) flowState()                 {}
func (StateForm) flowState()                 {}
func (StateAwaitingVerification) flowState() {}
func (StateSubmitting) flowState()           {}
func (StateCompleted) flowState()            {}
func (StateFailed) flowState()               {}
