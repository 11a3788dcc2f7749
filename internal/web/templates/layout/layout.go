// Package layout holds the page shell shared by every HTML page.
package layout

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// FlashMessage is a one-shot notice shown on the next page
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData is common to every page
type PageData struct {
	Title string
	// Username is empty when nobody is signed in
	Username string
	Flash    *FlashMessage
}

// Base renders the document shell around body
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s | Batting Stats</title>
<link rel="stylesheet" href="/static/style.css">
</head>
<body>
`, templ.EscapeString(data.Title))
		if err != nil {
			return err
		}

		if err := nav(data).Render(ctx, w); err != nil {
			return err
		}
		if err := flash(data.Flash).Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, "<main>\n"); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, `</main>
<script src="/static/app.js"></script>
</body>
</html>
`)
		return err
	})
}

func nav(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if data.Username == "" {
			_, err := io.WriteString(w, `<nav><a href="/" class="brand">Batting Stats</a></nav>
`)
			return err
		}
		_, err := fmt.Fprintf(w, `<nav><a href="/" class="brand">Batting Stats</a>
<span class="user">Signed in as <strong>%s</strong></span>
<button type="button" id="logout-button">Log out</button></nav>
`, templ.EscapeString(data.Username))
		return err
	})
}

func flash(f *FlashMessage) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if f == nil {
			return nil
		}
		_, err := fmt.Fprintf(w, `<div class="flash flash-%s" role="status">%s</div>
`, templ.EscapeString(f.Type), templ.EscapeString(f.Message))
		return err
	})
}
