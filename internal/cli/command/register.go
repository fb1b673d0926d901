package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ofchat-go/internal/cli/output"
	"github.com/yndnr/ofchat-go/internal/cli/repl"
	"github.com/yndnr/ofchat-go/internal/core/domain"
)

// RegisterCommand returns the register command.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account, verifying the phone number with a one-time code",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Login name"},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address (optional)"},
			&cli.StringFlag{Name: "phone", Aliases: []string{"p"}, Usage: "Phone number that receives the code"},
			&cli.StringFlag{Name: "password", Usage: "Password (prompted when omitted)"},
			&cli.StringFlag{Name: "confirm-password", Usage: "Password confirmation (prompted when omitted)"},
		},
		Action: registerAction,
	}
}

func registerAction(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	if err := refuseIfLoggedIn(c, rt); err != nil {
		return err
	}

	flow, err := rt.AuthFlow()
	if err != nil {
		return err
	}
	prompt := rt.Prompt()

	draft := domain.RegistrationDraft{
		Username:             c.String("username"),
		Email:                c.String("email"),
		Phone:                c.String("phone"),
		Password:             c.String("password"),
		PasswordConfirmation: c.String("confirm-password"),
	}

	for {
		if err := fillDraft(prompt, &draft); err != nil {
			return err
		}

		spinner := output.NewSpinner(rt.ErrOut, "Requesting verification code...")
		spinner.Start()
		challenge, err := flow.SubmitRegistration(c.Context, draft)
		if err != nil {
			spinner.Fail("Verification code not sent")
			return err
		}
		spinner.Stop()

		session, err := prompt.Verify(c.Context, flow, challenge)
		if errors.Is(err, repl.ErrBack) {
			fmt.Fprintln(rt.Out, "Back to the registration form. Press enter to keep a value.")
			if err := editDraft(prompt, &draft); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(rt.Out, "Registered and signed in as %s.\n", session.Username)
		return rt.Print(session)
	}
}

// fillDraft prompts for the fields the draft still lacks. Email stays
// optional.
func fillDraft(prompt *repl.REPL, d *domain.RegistrationDraft) error {
	fields := []struct {
		label string
		value *string
	}{
		{"Username: ", &d.Username},
		{"Phone: ", &d.Phone},
		{"Password: ", &d.Password},
		{"Confirm password: ", &d.PasswordConfirmation},
	}
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		line, err := prompt.ReadLine(f.label)
		if err != nil {
			return err
		}
		*f.value = line
	}
	return nil
}

// editDraft offers every field again, keeping the current value on an
// empty answer. Passwords are asked for afresh.
func editDraft(prompt *repl.REPL, d *domain.RegistrationDraft) error {
	fields := []struct {
		label string
		value *string
	}{
		{"Username", &d.Username},
		{"Email", &d.Email},
		{"Phone", &d.Phone},
	}
	for _, f := range fields {
		line, err := prompt.ReadLine(fmt.Sprintf("%s [%s]: ", f.label, *f.value))
		if err != nil {
			return err
		}
		if line != "" {
			*f.value = line
		}
	}
	d.Password = ""
	d.PasswordConfirmation = ""
	return nil
}

// refuseIfLoggedIn stops register and login while a session is saved.
func refuseIfLoggedIn(c *cli.Context, rt *Runtime) error {
	sessions, err := rt.Sessions()
	if err != nil {
		return err
	}
	current, err := sessions.Load(c.Context)
	if err != nil {
		return err
	}
	if current != nil {
		return cli.Exit(fmt.Sprintf("already signed in as %s; run logout first", current.Username), 1)
	}
	return nil
}
