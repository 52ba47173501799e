package http

import (
	"errors"
	"net/http"

	"billpay/internal/core"
	applog "billpay/internal/log"
	"billpay/internal/services"
)

// writeError maps service and core errors onto responses.
func writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		NotFoundError("draft_not_found", "draft not found").Write(w)
	case errors.Is(err, services.ErrIndexOutOfRange):
		NotFoundError("entry_not_found", "no entry at this index").Write(w)
	case errors.Is(err, services.ErrFirstEntryPinned):
		ConflictError("first_entry_pinned", "the first entry cannot be removed").Write(w)
	case errors.Is(err, core.ErrAppendNotAllowed):
		ConflictError("append_not_allowed", "complete every entry before adding another, up to the limit").Write(w)
	case errors.Is(err, core.ErrUnknownField):
		UnprocessableEntityError("unknown_field", err.Error()).Write(w)
	case errors.Is(err, core.ErrInvalidDate):
		UnprocessableEntityError("invalid_date", "date must be YYYY-MM-DD or empty").Write(w)
	case errors.Is(err, core.ErrNoteTooLong):
		UnprocessableEntityError("note_too_long", err.Error()).Write(w)
	case errors.Is(err, errInvalidIndex):
		NotFoundError("entry_not_found", err.Error()).Write(w)
	case errors.Is(err, errInvalidBody):
		BadRequestError(err.Error()).Write(w)
	default:
		applog.LogError(r.Context(), "Request failed", err, applog.ComponentHTTP, operation, nil)
		InternalServerError("internal error").Write(w)
	}
}
