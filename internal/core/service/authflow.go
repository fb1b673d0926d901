package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/telemetry/metric"
)

// Reasons attached to state-related validation errors.
const (
	ReasonBusy              = "operation already in progress"
	ReasonFlowCompleted     = "flow already completed"
	ReasonVerificationOpen  = "a verification code has already been requested"
	ReasonNoChallenge       = "no verification code has been requested"
	ReasonPhoneMismatch     = "phone does not match the registration"
	ReasonFormClosed        = "registration form is not open"
	reasonIncompleteAccount = "incomplete account in response"
)

// AuthFlow drives registration and login up to an established session.
//
// Each flow runs one service call at a time. While a call is in flight the
// flow is in StateSubmitting and further operations on it fail with a
// validation error. Cancelling or logging out while a call is in flight
// makes its result stale: the caller gets domain.ErrFlowAborted and the
// state is left alone.
//
// The OnAuthenticated callback runs once per completed flow, outside the
// controller's lock.
type AuthFlow struct {
	verifier VerificationService
	accounts AccountService
	sessions SessionRepository

	logger          *slog.Logger
	metrics         *metric.Registry
	echoDevCode     bool
	onAuthenticated func(domain.UserSession)

	mu       sync.Mutex
	reg      FlowState
	login    FlowState
	regGen   uint64
	loginGen uint64
}

// FlowOption configures an AuthFlow.
type FlowOption func(*AuthFlow)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) FlowOption {
	return func(f *AuthFlow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMetrics records flow outcomes in reg.
func WithMetrics(reg *metric.Registry) FlowOption {
	return func(f *AuthFlow) {
		f.metrics = reg
	}
}

// WithDevCodeEcho copies the code returned by a development verification
// service into the challenge. Off by default.
func WithDevCodeEcho(enabled bool) FlowOption {
	return func(f *AuthFlow) {
		f.echoDevCode = enabled
	}
}

// OnAuthenticated sets the callback that receives each established session.
func OnAuthenticated(fn func(domain.UserSession)) FlowOption {
	return func(f *AuthFlow) {
		f.onAuthenticated = fn
	}
}

// NewAuthFlow creates a controller with registration in StateForm and
// login in StateIdle.
func NewAuthFlow(verifier VerificationService, accounts AccountService, sessions SessionRepository, opts ...FlowOption) *AuthFlow {
	f := &AuthFlow{
		verifier: verifier,
		accounts: accounts,
		sessions: sessions,
		logger:   slog.Default(),
		reg:      StateForm{},
		login:    StateIdle{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// RegistrationState returns the current registration state.
func (f *AuthFlow) RegistrationState() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reg
}

// LoginState returns the current login state.
func (f *AuthFlow) LoginState() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.login
}

// UpdateDraft replaces the draft held by the registration form.
func (f *AuthFlow) UpdateDraft(draft domain.RegistrationDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.reg.(type) {
	case StateForm:
		f.reg = StateForm{Draft: draft}
		return nil
	case StateSubmitting:
		return domain.ErrValidation.WithField("state", ReasonBusy)
	default:
		return domain.ErrValidation.WithField("state", ReasonFormClosed)
	}
}

// SubmitRegistration validates draft and requests a verification code for
// its phone. Nothing is sent when validation fails.
func (f *AuthFlow) SubmitRegistration(ctx context.Context, draft domain.RegistrationDraft) (*domain.VerificationChallenge, error) {
	f.mu.Lock()
	if err := f.registrationGuard(); err != nil {
		f.mu.Unlock()
		f.record(OpSubmitRegistration, err)
		return nil, err
	}
	if _, ok := f.reg.(StateForm); !ok {
		f.mu.Unlock()
		err := domain.ErrValidation.WithField("state", ReasonVerificationOpen)
		f.record(OpSubmitRegistration, err)
		return nil, err
	}
	f.reg = StateForm{Draft: draft}
	t, err := f.beginRequestCode("")
	f.mu.Unlock()
	if err != nil {
		f.record(OpSubmitRegistration, err)
		return nil, err
	}

	return f.finishRequestCode(ctx, t)
}

// RequestVerificationCode requests a code for the draft's phone, from the
// form or again while awaiting verification. An empty phone means the
// draft's phone; any other phone is rejected. A successful resend replaces
// the outstanding challenge. A failed resend keeps it.
func (f *AuthFlow) RequestVerificationCode(ctx context.Context, phone string) (*domain.VerificationChallenge, error) {
	f.mu.Lock()
	t, err := f.beginRequestCode(phone)
	f.mu.Unlock()
	if err != nil {
		f.record(OpRequestCode, err)
		return nil, err
	}

	return f.finishRequestCode(ctx, t)
}

// requestTicket carries a code request across the unlocked service call.
type requestTicket struct {
	gen   uint64
	from  FlowState
	draft domain.RegistrationDraft
	phone string
}

// beginRequestCode checks the transition and marks the flow busy.
// Caller holds f.mu.
func (f *AuthFlow) beginRequestCode(phone string) (requestTicket, error) {
	if err := f.registrationGuard(); err != nil {
		return requestTicket{}, err
	}

	var draft domain.RegistrationDraft
	switch st := f.reg.(type) {
	case StateForm:
		draft = st.Draft.Normalized()
		if err := draft.Validate(); err != nil {
			return requestTicket{}, err
		}
	case StateAwaitingVerification:
		draft = st.Draft
	default:
		return requestTicket{}, domain.ErrValidation.WithField("state", ReasonFormClosed)
	}

	phone = domain.NormalizePhone(phone)
	if phone == "" {
		phone = draft.Phone
	}
	if phone != draft.Phone {
		return requestTicket{}, domain.ErrValidation.WithField("phone", ReasonPhoneMismatch)
	}

	t := requestTicket{gen: f.regGen, from: f.reg, draft: draft, phone: phone}
	f.reg = StateSubmitting{Op: OpRequestCode, From: f.reg}
	return t, nil
}

func (f *AuthFlow) finishRequestCode(ctx context.Context, t requestTicket) (*domain.VerificationChallenge, error) {
	start := time.Now()
	issue, err := f.verifier.RequestCode(ctx, t.phone)
	f.observe("request_code", start)

	f.mu.Lock()
	if t.gen != f.regGen {
		f.mu.Unlock()
		return nil, f.aborted(OpRequestCode)
	}
	if err != nil {
		f.reg = t.from
		f.mu.Unlock()
		err = stepError(err, domain.ErrVerificationRequest)
		f.logger.Warn("verification code request failed",
			"phone", t.phone,
			"category", domain.CategoryOf(err),
			"error", err)
		f.record(OpRequestCode, err)
		return nil, err
	}

	devCode := ""
	if f.echoDevCode && issue != nil {
		devCode = issue.DevCode
	}
	challenge, err := domain.NewVerificationChallenge(t.phone, devCode)
	if err != nil {
		f.reg = t.from
		f.mu.Unlock()
		f.record(OpRequestCode, err)
		return nil, err
	}
	_, resend := t.from.(StateAwaitingVerification)
	f.reg = StateAwaitingVerification{Draft: t.draft, Challenge: *challenge}
	f.mu.Unlock()

	f.logger.Info("verification code requested",
		"phone", t.phone,
		"challenge_id", challenge.ID,
		"resend", resend)
	f.record(OpRequestCode, nil)

	out := *challenge
	return &out, nil
}

// ConfirmVerificationAndRegister checks code against the outstanding
// challenge and, once the phone is proven, creates the account from the
// draft. A challenge that was already verified is not checked again, so a
// failed registration can be retried with the same code.
func (f *AuthFlow) ConfirmVerificationAndRegister(ctx context.Context, code string) (*domain.UserSession, error) {
	code = strings.TrimSpace(code)

	f.mu.Lock()
	if err := f.registrationGuard(); err != nil {
		f.mu.Unlock()
		f.record(OpConfirmAndRegister, err)
		return nil, err
	}
	st, ok := f.reg.(StateAwaitingVerification)
	if !ok {
		f.mu.Unlock()
		err := domain.ErrValidation.WithField("state", ReasonNoChallenge)
		f.record(OpConfirmAndRegister, err)
		return nil, err
	}
	if err := domain.ValidateCode(code); err != nil {
		f.mu.Unlock()
		f.record(OpConfirmAndRegister, err)
		return nil, err
	}
	gen := f.regGen
	f.reg = StateSubmitting{Op: OpConfirmAndRegister, From: st}
	f.mu.Unlock()

	if !st.Challenge.IsVerified() {
		var err error
		st, err = f.checkCode(ctx, gen, st, code)
		if err != nil {
			return nil, err
		}
	}

	draft := st.Draft
	start := time.Now()
	account, err := f.accounts.Register(ctx, RegisterRequest{
		Username: draft.Username,
		Password: draft.Password,
		Email:    draft.Email,
		Phone:    draft.Phone,
	})
	f.observe("register", start)

	var session domain.UserSession
	if err == nil {
		session, err = sessionOf(account)
	}

	f.mu.Lock()
	if gen != f.regGen {
		f.mu.Unlock()
		return nil, f.aborted(OpConfirmAndRegister)
	}
	if err != nil {
		f.reg = st
		f.mu.Unlock()
		err = stepError(err, domain.ErrRegistration)
		f.logger.Warn("registration failed",
			"username", draft.Username,
			"category", domain.CategoryOf(err),
			"error", err)
		f.record(OpConfirmAndRegister, err)
		return nil, err
	}
	f.reg = StateCompleted{Session: session}
	f.mu.Unlock()

	f.logger.Info("account registered",
		"unique_id", session.UniqueID,
		"username", session.Username,
		"challenge_id", st.Challenge.ID)
	f.establish(ctx, session)
	f.record(OpConfirmAndRegister, nil)
	return &session, nil
}

// checkCode runs the verification step of ConfirmVerificationAndRegister.
// On success the flow is left in StateSubmitting over a verified challenge.
func (f *AuthFlow) checkCode(ctx context.Context, gen uint64, st StateAwaitingVerification, code string) (StateAwaitingVerification, error) {
	start := time.Now()
	status, err := f.verifier.CheckCode(ctx, st.Challenge.Phone, code)
	f.observe("check_code", start)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.regGen {
		return st, f.aborted(OpConfirmAndRegister)
	}

	challenge := st.Challenge
	if err != nil {
		err = stepError(err, domain.ErrVerificationMismatch)
		if domain.CategoryOf(err) != domain.CategoryNetwork {
			challenge.Attempts++
			if status == domain.ChallengeExpired || status == domain.ChallengeFailed {
				challenge.Status = status
			}
		}
		f.reg = StateAwaitingVerification{Draft: st.Draft, Challenge: challenge}
		f.logger.Warn("verification code rejected",
			"challenge_id", challenge.ID,
			"attempts", challenge.Attempts,
			"status", challenge.Status,
			"error", err)
		f.record(OpConfirmAndRegister, err)
		return st, err
	}

	challenge.Status = domain.ChallengeVerified
	st = StateAwaitingVerification{Draft: st.Draft, Challenge: challenge}
	f.reg = StateSubmitting{Op: OpConfirmAndRegister, From: st}
	f.logger.Debug("phone verified", "challenge_id", challenge.ID)
	return st, nil
}

// SubmitLogin authenticates with creds. Login can be retried from
// StateFailed.
func (f *AuthFlow) SubmitLogin(ctx context.Context, creds domain.Credentials) (*domain.UserSession, error) {
	f.mu.Lock()
	switch f.login.(type) {
	case StateSubmitting:
		f.mu.Unlock()
		err := domain.ErrValidation.WithField("state", ReasonBusy)
		f.record(OpLogin, err)
		return nil, err
	case StateCompleted:
		f.mu.Unlock()
		err := domain.ErrValidation.WithField("state", ReasonFlowCompleted)
		f.record(OpLogin, err)
		return nil, err
	}
	if err := creds.Validate(); err != nil {
		f.mu.Unlock()
		f.record(OpLogin, err)
		return nil, err
	}
	gen := f.loginGen
	f.login = StateSubmitting{Op: OpLogin, From: f.login}
	f.mu.Unlock()

	identifier := strings.TrimSpace(creds.Identifier)
	start := time.Now()
	account, err := f.accounts.Login(ctx, identifier, creds.Password)
	f.observe("login", start)

	var session domain.UserSession
	if err == nil {
		session, err = sessionOf(account)
	}

	f.mu.Lock()
	if gen != f.loginGen {
		f.mu.Unlock()
		return nil, f.aborted(OpLogin)
	}
	if err != nil {
		err = stepError(err, domain.ErrAuthentication)
		f.login = StateFailed{Err: err}
		f.mu.Unlock()
		f.logger.Warn("login failed",
			"identifier", identifier,
			"category", domain.CategoryOf(err),
			"error", err)
		f.record(OpLogin, err)
		return nil, err
	}
	f.login = StateCompleted{Session: session}
	f.mu.Unlock()

	f.logger.Info("logged in", "unique_id", session.UniqueID, "username", session.Username)
	f.establish(ctx, session)
	f.record(OpLogin, nil)
	return &session, nil
}

// CancelRegistration discards the draft and any outstanding challenge. A
// call in flight completes with domain.ErrFlowAborted.
func (f *AuthFlow) CancelRegistration() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regGen++
	f.reg = StateForm{}
}

// CancelLogin returns login to StateIdle. A call in flight completes with
// domain.ErrFlowAborted.
func (f *AuthFlow) CancelLogin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginGen++
	f.login = StateIdle{}
}

// Logout clears the saved session and resets both flows. A failure to
// clear the store is logged and otherwise ignored.
func (f *AuthFlow) Logout(ctx context.Context) {
	err := f.sessions.Clear(ctx)
	if err != nil {
		f.logger.Error("failed to clear session", "error", err)
	}

	f.mu.Lock()
	f.regGen++
	f.loginGen++
	f.reg = StateForm{}
	f.login = StateIdle{}
	f.mu.Unlock()

	f.logger.Info("logged out")
	f.record(OpLogout, err)
}

// registrationGuard rejects operations while a call is in flight or after
// the flow completed. Caller holds f.mu.
func (f *AuthFlow) registrationGuard() error {
	switch f.reg.(type) {
	case StateSubmitting:
		return domain.ErrValidation.WithField("state", ReasonBusy)
	case StateCompleted:
		return domain.ErrValidation.WithField("state", ReasonFlowCompleted)
	}
	return nil
}

// establish persists session and hands it to the callback. The session is
// established even if it could not be saved.
func (f *AuthFlow) establish(ctx context.Context, session domain.UserSession) {
	if err := f.sessions.Save(ctx, session); err != nil {
		f.logger.Error("session not persisted", "unique_id", session.UniqueID, "error", err)
	}
	if f.onAuthenticated != nil {
		f.onAuthenticated(session)
	}
}

func (f *AuthFlow) aborted(op Operation) error {
	f.logger.Debug("dropping stale result", "operation", op)
	f.record(op, domain.ErrFlowAborted)
	return domain.ErrFlowAborted
}

func (f *AuthFlow) record(op Operation, err error) {
	if f.metrics == nil {
		return
	}
	result := metric.ResultSuccess
	if err != nil {
		result = string(domain.CategoryOf(err))
	}
	f.metrics.RecordFlowOperation(string(op), result)
}

func (f *AuthFlow) observe(call string, start time.Time) {
	if f.metrics == nil {
		return
	}
	f.metrics.ObserveServiceCall(call, time.Since(start).Seconds())
}

// sessionOf builds the session for an account returned by the service.
func sessionOf(account *domain.Account) (domain.UserSession, error) {
	if account == nil {
		return domain.UserSession{}, domain.ErrNetwork.WithDetails(reasonIncompleteAccount)
	}
	session := account.Session()
	if err := session.Validate(); err != nil {
		return domain.UserSession{}, domain.ErrNetwork.WithDetails(reasonIncompleteAccount).WithCause(err)
	}
	return session, nil
}

// stepError maps a service error onto the category of the failing step.
// Transport failures stay network errors; any other rejection becomes
// rejection, keeping the service's reason.
func stepError(err error, rejection *domain.DomainError) error {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		return domain.ErrNetwork.WithCause(err)
	}
	switch de.Category {
	case domain.CategoryNetwork, rejection.Category:
		return err
	}
	return rejection.WithDetails(de.Reason()).WithCause(err)
}
