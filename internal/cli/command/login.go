package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ofchat-go/internal/cli/output"
	"github.com/yndnr/ofchat-go/internal/core/domain"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with a username, email or phone number",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "identifier", Aliases: []string{"i"}, Usage: "Username, email or phone"},
			&cli.StringFlag{Name: "password", Usage: "Password (prompted when omitted)"},
		},
		Action: loginAction,
	}
}

func loginAction(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	if err := refuseIfLoggedIn(c, rt); err != nil {
		return err
	}

	creds := domain.Credentials{
		Identifier: c.String("identifier"),
		Password:   c.String("password"),
	}
	prompt := rt.Prompt()
	if creds.Identifier == "" {
		if creds.Identifier, err = prompt.ReadLine("Username, email or phone: "); err != nil {
			return err
		}
	}
	if creds.Password == "" {
		if creds.Password, err = prompt.ReadLine("Password: "); err != nil {
			return err
		}
	}

	flow, err := rt.AuthFlow()
	if err != nil {
		return err
	}

	spinner := output.NewSpinner(rt.ErrOut, "Signing in...")
	spinner.Start()
	session, err := flow.SubmitLogin(c.Context, creds)
	if err != nil {
		spinner.Fail("Sign in failed")
		return err
	}
	spinner.Stop()

	fmt.Fprintf(rt.Out, "Signed in as %s.\n", session.Username)
	return rt.Print(session)
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the saved session",
		Action: logoutAction,
	}
}

func logoutAction(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	flow, err := rt.AuthFlow()
	if err != nil {
		return err
	}

	flow.Logout(c.Context)
	fmt.Fprintln(rt.Out, "Signed out.")
	return nil
}

// WhoamiCommand returns the whoami command.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the signed-in account",
		Action: whoamiAction,
	}
}

func whoamiAction(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	sessions, err := rt.Sessions()
	if err != nil {
		return err
	}

	session, err := sessions.Load(c.Context)
	if err != nil {
		return err
	}
	if session == nil {
		return cli.Exit("not signed in", 1)
	}
	return rt.Print(session)
}
