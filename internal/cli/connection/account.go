package connection

import (
	"context"
	"net/url"
	"strconv"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/core/service"
)

// Account actions.
const (
	ActionRegister = "register"
	ActionLogin    = "login"
	ActionProfile  = "profile"
)

// AccountClient implements service.AccountService over HTTP.
type AccountClient struct {
	http *HTTPClient
}

var _ service.AccountService = (*AccountClient)(nil)

// NewAccountClient creates a client for the account endpoint.
func NewAccountClient(c *HTTPClient) *AccountClient {
	return &AccountClient{http: c}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// userPayload is the account as it appears on the wire.
type userPayload struct {
	ID       int64  `json:"id"`
	UniqueID string `json:"unique_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// userResponse is the reply to register, login and profile. Profile
// replies carry no success flag, so only the user is checked.
type userResponse struct {
	Success bool         `json:"success"`
	User    *userPayload `json:"user"`
}

func (r *userResponse) account() (*domain.Account, error) {
	if r.User == nil {
		return nil, domain.ErrNetwork.WithDetails("response carries no user")
	}
	return &domain.Account{
		ID:       r.User.ID,
		UniqueID: r.User.UniqueID,
		Username: r.User.Username,
		Email:    r.User.Email,
		Phone:    r.User.Phone,
	}, nil
}

// Register creates an account.
func (a *AccountClient) Register(ctx context.Context, req service.RegisterRequest) (*domain.Account, error) {
	var resp userResponse
	err := a.http.PostAction(ctx, ActionRegister, registerRequest{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.account()
}

// Login authenticates by username, email or phone.
func (a *AccountClient) Login(ctx context.Context, identifier, password string) (*domain.Account, error) {
	var resp userResponse
	err := a.http.PostAction(ctx, ActionLogin, loginRequest{
		Identifier: identifier,
		Password:   password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.account()
}

// Profile fetches the public profile of the account with the given id.
func (a *AccountClient) Profile(ctx context.Context, id int64) (*domain.Account, error) {
	var resp userResponse
	query := url.Values{"user_id": {strconv.FormatInt(id, 10)}}
	if err := a.http.GetAction(ctx, ActionProfile, query, &resp); err != nil {
		return nil, err
	}
	return resp.account()
}
