package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/battingstats/internal/middleware"
)

// Recovery creates panic recovery middleware for the pages
// Returns an HTML error page on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="en">
<head><title>Error | Batting Stats</title></head>
<body>
<h1>Something went wrong</h1>
<p>The page could not be shown. Please try again in a moment.</p>
<p><a href="/">Back to your players</a></p>
</body>
</html>`))
}
