package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/jon4hz/loanwise/web/templates/components"
)

// Home is the public landing page.
func Home(signedIn bool) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		action := `<p><a href="/register">Create an account</a> or <a href="/login">log in</a> to check your eligibility.</p>`
		if signedIn {
			action = `<p><a href="/enter_details">Enter your details</a> to check your eligibility.</p>`
		}
		_, err := io.WriteString(w, `<h1>Loan Eligibility</h1>`+
			`<p>Find out in seconds whether you are eligible for a loan.</p>`+action)
		return err
	})
	return components.Layout("Home", signedIn, body)
}
