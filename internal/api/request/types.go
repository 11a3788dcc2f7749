package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/mcoot/battingstats/internal/model"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// ErrInvalidBody is returned when a body cannot be decoded
var ErrInvalidBody = errors.New("invalid request body")

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StatValue holds a rate as the caller sent it. Both JSON numbers and
// strings are accepted; the text is kept verbatim for validation.
type StatValue string

// UnmarshalJSON implements json.Unmarshaler
func (v *StatValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = StatValue(s)
	default:
		*v = StatValue(b)
	}
	return nil
}

// PlayerRequest is the request body for creating or updating a player record
type PlayerRequest struct {
	Name     string    `json:"name"`
	Position string    `json:"position"`
	AVG      StatValue `json:"avg"`
	OBP      StatValue `json:"obp"`
	SLG      StatValue `json:"slg"`
}

// Draft converts the request to an unvalidated draft
func (p PlayerRequest) Draft() model.PlayerDraft {
	return model.PlayerDraft{
		Name:     p.Name,
		Position: p.Position,
		AVG:      string(p.AVG),
		OBP:      string(p.OBP),
		SLG:      string(p.SLG),
	}
}

// DecodeJSON decodes a JSON body into dst
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}

// DecodeLogin reads a login from a JSON or urlencoded/multipart form body
func DecodeLogin(w http.ResponseWriter, r *http.Request) (LoginRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return LoginRequest{}, fmt.Errorf("%w: %w", ErrInvalidBody, err)
		}
		return LoginRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	default:
		var req LoginRequest
		err := DecodeJSON(w, r, &req)
		return req, err
	}
}
