package flow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"net/http"
	"strings"

	"github.com/a-h/reviewextract/models"
)

type Kind string

const (
	KindSuccess          Kind = "success"
	KindAuthRequired     Kind = "auth_required"
	KindApplicationError Kind = "application_error"
	KindTransportError   Kind = "transport_error"
)

const (
	MessageExtractFailed     = "Failed to extract reviews."
	MessageMissingID         = "Could not get the extraction ID."
	MessageTransportFailed   = "Request failed, please try again later."
	MessageMalformedResponse = "Received an invalid response from the server."
)

// Outcome is the classified result of one extraction request.
type Outcome struct {
	Kind Kind
	// ExtractionID is set when Kind is KindSuccess.
	ExtractionID string
	// Message is set for KindApplicationError and KindTransportError.
	Message string
	// Err is the underlying error of a KindTransportError.
	Err error
}

func Success(id string) Outcome {
	return Outcome{Kind: KindSuccess, ExtractionID: id}
}

func AuthRequired() Outcome {
	return Outcome{Kind: KindAuthRequired}
}

func ApplicationError(msg string) Outcome {
	return Outcome{Kind: KindApplicationError, Message: msg}
}

func TransportError(msg string, err error) Outcome {
	return Outcome{Kind: KindTransportError, Message: msg, Err: err}
}

var ErrMalformedBody = errors.New("malformed response body")

// Classify maps a response to an outcome. The checks run in order and the
// first match wins.
func Classify(status int, contentType string, body []byte) Outcome {
	if status == http.StatusUnauthorized {
		return AuthRequired()
	}
	if !strings.Contains(contentType, "application/json") {
		return AuthRequired()
	}
	fields, err := decodeBody(body)
	if err != nil {
		return TransportError(MessageMalformedResponse, err)
	}
	if fields.errorMessage == models.ErrorLoginRequired {
		return AuthRequired()
	}
	if status < 200 || status > 299 {
		if fields.errorMessage != "" {
			return ApplicationError(fields.errorMessage)
		}
		return ApplicationError(MessageExtractFailed)
	}
	if fields.errorMessage != "" {
		return ApplicationError(fields.errorMessage)
	}
	if fields.extractionID != "" {
		return Success(fields.extractionID)
	}
	return ApplicationError(MessageMissingID)
}

type bodyFields struct {
	errorMessage string
	extractionID string
}

func decodeBody(body []byte) (f bodyFields, err error) {
	var m map[string]json.RawMessage
	if err = json.Unmarshal(body, &m); err != nil {
		return f, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if m == nil {
		return f, fmt.Errorf("%w: expected an object, got null", ErrMalformedBody)
	}
	if raw, ok := m["error"]; ok && !isNull(raw) {
		if err = json.Unmarshal(raw, &f.errorMessage); err != nil {
			return f, fmt.Errorf("%w: error is not a string", ErrMalformedBody)
		}
	}
	if raw, ok := m["extraction_id"]; ok && !isNull(raw) {
		if f.extractionID, err = decodeID(raw); err != nil {
			return f, err
		}
	}
	return f, nil
}

// decodeID accepts string and numeric IDs. Numbers are formatted the way
// the browser prints them, so 42.0 becomes 42 and 1e2 becomes 100.
func decodeID(raw json.RawMessage) (id string, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		err = json.Unmarshal(raw, &id)
		return id, err
	}
	var n json.Number
	if err = json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("%w: extraction_id is not a string or number", ErrMalformedBody)
	}
	f, err := n.Float64()
	if err != nil {
		return "", fmt.Errorf("%w: extraction_id is out of range", ErrMalformedBody)
	}
	// Zero is falsy in the browser, so 0, 0.0 and -0 are all missing.
	if f == 0 {
		return "", nil
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
