package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []PlayerRecord:
		o.printListing(v)
	case LoginResult:
		_, _ = fmt.Fprintln(o.w, v.Message)
	case User:
		_, _ = fmt.Fprintf(o.w, "Logged in as %s (%s)\n", v.Username, v.UserID)
	case HealthResult:
		_, _ = fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// PlayerRecord response type (matches API)
type PlayerRecord struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	Position  string     `json:"position"`
	AVG       float64    `json:"avg"`
	OBP       float64    `json:"obp"`
	SLG       float64    `json:"slg"`
	OPS       float64    `json:"ops"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// LoginResult response type
type LoginResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// User response type
type User struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printListing(records []PlayerRecord) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(o.w, "No players tracked yet")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tPOS\tAVG\tOBP\tSLG\tOPS")
	for _, r := range records {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%.3f\t%.3f\t%.3f\t%.3f\n",
			r.ID, r.Name, r.Position, r.AVG, r.OBP, r.SLG, r.OPS)
	}
	_ = tw.Flush()
}
