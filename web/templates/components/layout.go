package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the shared page chrome.
func Layout(title string, signedIn bool, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s | Loanwise</title><link rel="stylesheet" href="/static/style.css"></head><body>`,
			templ.EscapeString(title)); err != nil {
			return err
		}
		if err := nav(signedIn).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<main>"); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main></body></html>")
		return err
	})
}

func nav(signedIn bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		links := `<a href="/">Home</a><a href="/register">Register</a><a href="/login">Login</a>`
		if signedIn {
			links = `<a href="/">Home</a><a href="/enter_details">Enter details</a><a href="/logout">Logout</a>`
		}
		_, err := io.WriteString(w, "<nav>"+links+"</nav>")
		return err
	})
}

// Flashes renders one-time messages.
func Flashes(messages []string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		for _, m := range messages {
			if _, err := fmt.Fprintf(w, `<div class="flash">%s</div>`, templ.EscapeString(m)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Alert renders a single message, styled as an error if isError is set.
func Alert(message string, isError bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if message == "" {
			return nil
		}
		class := "flash"
		if isError {
			class = "flash error"
		}
		_, err := fmt.Fprintf(w, `<div class="%s" role="alert">%s</div>`, class, templ.EscapeString(message))
		return err
	})
}

// CredentialsForm renders the username/password form posting to action.
func CredentialsForm(action, submit string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<form method="post" action="%s">`+
			`<label for="username">Username</label><input id="username" name="username" maxlength="50" required>`+
			`<label for="password">Password</label><input id="password" name="password" type="password" required>`+
			`<button type="submit">%s</button></form>`,
			templ.EscapeString(action), templ.EscapeString(submit))
		return err
	})
}
