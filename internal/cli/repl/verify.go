package repl

import (
	"context"
	"errors"
	"fmt"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/telemetry/logger"
)

// Verification prompt commands.
const (
	CommandResend = "resend"
	CommandBack   = "back"
	CommandHelp   = "help"
)

// ErrBack is returned when the user leaves the verification prompt.
var ErrBack = errors.New("returned to the registration form")

// Verifier is the part of the registration flow the prompt drives.
type Verifier interface {
	RequestVerificationCode(ctx context.Context, phone string) (*domain.VerificationChallenge, error)
	ConfirmVerificationAndRegister(ctx context.Context, code string) (*domain.UserSession, error)
	CancelRegistration()
}

// Verify runs the verification prompt for an outstanding challenge until
// the account is registered, the user goes back, or input ends. Going back
// or closing input cancels the registration.
func (r *REPL) Verify(ctx context.Context, v Verifier, challenge *domain.VerificationChallenge) (*domain.UserSession, error) {
	r.announce(challenge)
	fmt.Fprintf(r.output, "Enter the %d-digit code, %q for a new code or %q to go back.\n",
		domain.CodeLength, CommandResend, CommandBack)

	var session *domain.UserSession
	err := r.Run(ctx, "code> ", func(ctx context.Context, line string) (bool, error) {
		switch line {
		case CommandBack:
			return true, ErrBack
		case CommandHelp:
			fmt.Fprintf(r.output, "  <code>  confirm the %d-digit code\n  resend  send a new code\n  back    return to the form\n", domain.CodeLength)
			return false, nil
		case CommandResend:
			next, err := v.RequestVerificationCode(ctx, "")
			if err != nil {
				return false, err
			}
			r.announce(next)
			return false, nil
		}

		if domain.ValidateCode(line) != nil {
			r.Suggest(line)
			return false, nil
		}

		s, err := v.ConfirmVerificationAndRegister(ctx, line)
		if errors.Is(err, domain.ErrFlowAborted) {
			return true, err
		}
		if err != nil {
			return false, err
		}
		session = s
		return true, nil
	})
	if err != nil {
		v.CancelRegistration()
		return nil, err
	}
	return session, nil
}

func (r *REPL) announce(c *domain.VerificationChallenge) {
	if c == nil {
		return
	}
	fmt.Fprintf(r.output, "Verification code sent to %s.\n", logger.MaskPhone(c.Phone))
	if c.DevCode != "" {
		fmt.Fprintf(r.output, "[dev] code: %s\n", c.DevCode)
	}
}
