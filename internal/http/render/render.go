// Package render holds the response helpers shared by the API handlers.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/receipt"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error maps a service error to a status code. Validation failures carry
// their cause so the client can show it; storage failures only show the
// operator message.
func Error(w http.ResponseWriter, err error) {
	n, ok := pdv.NoticeOf(err)
	if !ok {
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	switch n.Kind {
	case pdv.KindValidation:
		http.Error(w, n.Error(), http.StatusBadRequest)
	case pdv.KindNotFound:
		http.Error(w, n.Error(), http.StatusNotFound)
	default:
		slog.Error("storage failure", "message", n.Message, "error", n.Err)
		http.Error(w, n.Message, http.StatusInternalServerError)
	}
}

// Decode reads a JSON body into v, answering 400 when it cannot.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}

	return true
}

var errInvalidID = errors.New("invalid id")

// ID parses a positive numeric URL parameter, answering 400 when it cannot.
func ID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, errInvalidID.Error(), http.StatusBadRequest)
		return 0, false
	}

	return id, true
}

// Attachment sets the headers of a file download.
func Attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// Receipt writes a complete receipt document, HTML unless f asks for text.
func Receipt(w http.ResponseWriter, d receipt.Document, f receipt.Format) {
	if f == receipt.FormatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		f = receipt.FormatHTML
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}

	if err := receipt.Write(w, d, f); err != nil {
		slog.Error("failed to write receipt", "error", err)
	}
}
