package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/client"
	"github.com/dmitrijs2005/hkjobs/internal/client/models"
	"github.com/dmitrijs2005/hkjobs/internal/common"
)

// getSimpleText, getTextOrDefault and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText    = GetSimpleText
	getTextOrDefault = GetTextOrDefault
	getPassword      = GetPassword
)

func displayName(u *models.User, email string) string {
	if u != nil && u.Name != "" {
		return u.Name
	}
	if u != nil && u.Email != "" {
		return u.Email
	}
	return email
}

// Register prompts for a name, an email and a password and creates an
// account. The new account is logged in right away. The password byte slice
// is wiped by the service.
func (a *App) Register(ctx context.Context, _ []string) error {
	if a.refuseWhileLoggedIn() {
		return nil
	}
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.auth.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	a.setUser(displayName(user, email))
	a.println("Success! You are logged in.")
	return nil
}

// refuseWhileLoggedIn keeps a second account from taking over the live
// session and its cached data.
func (a *App) refuseWhileLoggedIn() bool {
	if !a.isLoggedIn() {
		return false
	}
	a.println("Already logged in. Type 'logout' first.")
	return true
}

// Login prompts for credentials, defaulting the email to the last one used.
func (a *App) Login(ctx context.Context, args []string) error {
	if a.refuseWhileLoggedIn() {
		return nil
	}
	var (
		email string
		err   error
	)
	if len(args) > 0 {
		email = args[0]
	} else {
		email, err = getTextOrDefault(a.reader, "Enter email", a.auth.LastEmail(ctx), a.out)
		if err != nil {
			return err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.println("Login unsuccessful: wrong email or password.")
			return nil
		}
		return err
	}

	a.setUser(displayName(user, email))
	a.setMode(ModeOnline)
	a.printf("Welcome, %s!\n", displayName(user, email))
	return nil
}

// Logout ends the session. Subscribers (the response cache among them) are
// notified by the session itself.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out.")
	return nil
}

// Status prints the session state, token expiry and the backend's view of
// the user.
func (a *App) Status(ctx context.Context, _ []string) error {
	st, err := a.auth.Status(ctx)
	if st == nil {
		return err
	}

	a.printf("Session: %s\n", st.State)
	if st.Subject != "" {
		a.printf("User id: %s\n", st.Subject)
	}
	if !st.Expiry.IsZero() {
		a.printf("Access token expires: %s (in %s)\n",
			st.Expiry.Local().Format(timeLayout), st.Expiry.Sub(a.now()).Round(time.Second))
	}
	if st.User != nil {
		a.setUser(displayName(st.User, ""))
		a.printf("Logged in as %s <%s>\n", st.User.Name, st.User.Email)
	}
	return err
}
