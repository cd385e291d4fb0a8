package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/daybook-ai/daybook/internal/provider"
	"github.com/daybook-ai/daybook/internal/recurrence"
)

// errorDTO is the JSON body of every non-2xx response.
type errorDTO struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error codes returned to API consumers.
const (
	codeBadRequest          = "bad_request"
	codeLinkRequired        = "link_required"
	codeUnsupportedProvider = "unsupported_provider"
	codeInvalidRecurrence   = "invalid_recurrence"
	codeUpstream            = "upstream_error"
)

// fieldError marks a request-body field that failed validation.
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.field, e.err)
}

func (e *fieldError) Unwrap() error { return e.err }

func errBadField(field string, err error) error {
	return &fieldError{field: field, err: err}
}

// writeError maps domain errors onto HTTP statuses. Not-linked is the
// caller's problem to fix (connect the account), so it maps to 403 rather
// than 401: the request itself was authenticated.
func writeError(w http.ResponseWriter, err error) {
	var (
		notLinked   *provider.NotLinkedError
		unsupported *provider.UnsupportedProviderError
		upstream    *provider.UpstreamError
		parseErr    *recurrence.ParseError
		badField    *fieldError
	)

	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.As(err, &notLinked):
		status = http.StatusForbidden
		code = codeLinkRequired
	case errors.As(err, &unsupported):
		status = http.StatusBadRequest
		code = codeUnsupportedProvider
	case errors.As(err, &parseErr):
		status = http.StatusBadRequest
		code = codeInvalidRecurrence
	case errors.As(err, &badField):
		status = http.StatusBadRequest
		code = codeBadRequest
	case errors.As(err, &upstream):
		status = http.StatusBadGateway
		code = codeUpstream
	}

	writeJSON(w, status, errorDTO{Error: err.Error(), Code: code})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorDTO{Error: msg, Code: codeBadRequest})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
