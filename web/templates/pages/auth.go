package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/jon4hz/loanwise/web/templates/components"
)

// Register renders the registration form. message is the outcome of a previous attempt.
func Register(message string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Register</h1>"); err != nil {
			return err
		}
		if err := components.Alert(message, false).Render(ctx, w); err != nil {
			return err
		}
		if err := components.CredentialsForm("/register", "Register").Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<p>Already registered? <a href="/login">Log in</a></p>`)
		return err
	})
	return components.Layout("Register", false, body)
}

// Login renders the login form with flashed messages and the outcome of a previous attempt.
func Login(message string, flashes []string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Login</h1>"); err != nil {
			return err
		}
		if err := components.Flashes(flashes).Render(ctx, w); err != nil {
			return err
		}
		if err := components.Alert(message, true).Render(ctx, w); err != nil {
			return err
		}
		if err := components.CredentialsForm("/login", "Login").Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<p>No account yet? <a href="/register">Register</a></p>`)
		return err
	})
	return components.Layout("Login", false, body)
}
