package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ledger/internal/table"
)

// PageSizes are the rows-per-page choices offered by the table footer.
var PageSizes = []int{5, 10, 25, 50, 100}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(stripControl(s))
}

// stripControl removes control characters other than tab.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// statusFor maps table and request errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, table.ErrUnknownFilter),
		errors.Is(err, table.ErrUnknownColumn),
		errors.Is(err, table.ErrNotSortable),
		errors.Is(err, table.ErrInvalidPageSize):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
