package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/client/api"
	"github.com/dmitrijs2005/portfolio/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and stores the session on success. The
// password is wiped before returning.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.Login(ctx, email, password)
	if err != nil {
		if api.IsUnauthorized(err) {
			return errors.New(api.MessageOr(err, "invalid email or password"))
		}
		return err
	}

	s := a.session()
	s.Token, s.Name = sess.Token, sess.Name
	a.setSession(s)
	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Welcome, %s!\n", sess.Name)
	return nil
}

// Logout forgets the stored token and name.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.clearLogin()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) clearLogin() {
	s := a.session()
	s.Token, s.Name = "", ""
	a.setSession(s)
}

// Register creates another admin account. Both passwords are wiped before
// returning.
func (a *App) Register(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	admin, err := a.auth.Register(a.authed(ctx), name, email, password, confirm)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Admin %s <%s> registered.\n", admin.Name, admin.Email)
	return nil
}
