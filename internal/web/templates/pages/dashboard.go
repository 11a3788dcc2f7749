package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/web/templates/layout"
)

// DashboardData is the data for the dashboard page
type DashboardData struct {
	layout.PageData
	Records   []*model.PlayerRecord
	Positions []model.Position
}

// FormatRate renders a rate with exactly three decimals
func FormatRate(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// Dashboard renders the signed-in user's player records and the form for
// adding one. Edits and deletes go through the JSON API from app.js.
func Dashboard(data DashboardData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="dashboard">
<h1>Your players</h1>
`); err != nil {
			return err
		}
		if err := recordTable(data.Records).Render(ctx, w); err != nil {
			return err
		}
		if err := playerForm(data.Positions).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</section>\n")
		return err
	})
	return layout.Base(data.PageData, body)
}

func recordTable(records []*model.PlayerRecord) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(records) == 0 {
			_, err := io.WriteString(w, `<p id="empty-listing">No players tracked yet.</p>
`)
			return err
		}

		if _, err := io.WriteString(w, `<table id="players">
<thead><tr><th>Name</th><th>Pos</th><th>AVG</th><th>OBP</th><th>SLG</th><th>OPS</th><th></th></tr></thead>
<tbody>
`); err != nil {
			return err
		}
		for _, r := range records {
			_, err := fmt.Fprintf(w, `<tr data-id="%s">
<td class="name">%s</td><td class="position">%s</td><td class="avg">%s</td><td class="obp">%s</td><td class="slg">%s</td><td class="ops">%s</td>
<td class="actions"><button type="button" class="edit">Edit</button> <button type="button" class="delete">Delete</button></td>
</tr>
`,
				templ.EscapeString(string(r.ID)),
				templ.EscapeString(r.Name),
				templ.EscapeString(string(r.Position)),
				FormatRate(r.AVG), FormatRate(r.OBP), FormatRate(r.SLG), FormatRate(r.OPS),
			)
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody>\n</table>\n")
		return err
	})
}

func playerForm(positions []model.Position) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<form id="player-form">
<h2 id="player-form-title">Add a player</h2>
<input type="hidden" name="id" value="">
<label for="name">Name</label>
<input id="name" name="name" type="text" required>
<label for="position">Position</label>
<select id="position" name="position" required>
`); err != nil {
			return err
		}
		for _, p := range positions {
			v := templ.EscapeString(string(p))
			if _, err := fmt.Fprintf(w, "<option value=\"%s\">%s</option>\n", v, v); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</select>
<label for="avg">AVG</label>
<input id="avg" name="avg" type="number" min="0" max="1" step="0.001" required>
<label for="obp">OBP</label>
<input id="obp" name="obp" type="number" min="0" max="1" step="0.001" required>
<label for="slg">SLG</label>
<input id="slg" name="slg" type="number" min="0" max="1" step="0.001" required>
<button type="submit">Save</button>
<button type="button" id="cancel-edit" hidden>Cancel</button>
</form>
<p id="player-message" class="message" aria-live="polite"></p>
`)
		return err
	})
}
