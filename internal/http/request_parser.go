package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const maxBodyBytes = 4 << 10

var (
	errInvalidIndex = errors.New("entry index must be a non-negative integer")
	errInvalidBody  = errors.New("request body must be a JSON object with field and value")
)

// FieldUpdate is the body of PATCH /drafts/{id}/entries/{index}.
type FieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ParseEntryIndex reads the {index} path value.
func ParseEntryIndex(r *http.Request) (int, error) {
	raw := r.PathValue("index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidIndex, raw)
	}
	return index, nil
}

// ParseFieldUpdate decodes a FieldUpdate body. The value is passed on
// exactly as sent.
func ParseFieldUpdate(r *http.Request) (FieldUpdate, error) {
	var upd FieldUpdate
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&upd); err != nil {
		return FieldUpdate{}, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	upd.Field = strings.TrimSpace(upd.Field)
	if upd.Field == "" {
		return FieldUpdate{}, fmt.Errorf("%w: missing field", errInvalidBody)
	}
	return upd, nil
}
