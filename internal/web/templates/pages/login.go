package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/battingstats/internal/web/templates/layout"
)

// LoginData is the data for the login page
type LoginData struct {
	layout.PageData
}

// Login renders the sign-in form. The first login for a new username
// creates the account.
func Login(data LoginData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="login">
<h1>Sign in</h1>
<p>New here? Pick a username and password and an account is created for you.</p>
<form id="login-form" method="post" action="/login">
<label for="username">Username</label>
<input id="username" name="username" type="text" autocomplete="username" required>
<label for="password">Password</label>
<input id="password" name="password" type="password" autocomplete="current-password" required>
<button type="submit">Log in</button>
</form>
<p id="login-message" class="message" aria-live="polite"></p>
</section>
`)
		return err
	})
	return layout.Base(data.PageData, body)
}
