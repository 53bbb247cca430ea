package apiutil

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/ledger"
)

// MapError converts engine errors to API errors: validation failures become
// 400, missing or foreign records 404, everything else the given 500 message.
func MapError(err error, msg string) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		return huma.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		return huma.NewError(http.StatusNotFound, err.Error())
	default:
		return huma.NewError(http.StatusInternalServerError, msg, err)
	}
}

// ParseUserID parses the X-User-ID header value.
func ParseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid X-User-ID", err)
	}
	return id, nil
}

// ParseID parses a path or body UUID, naming the field in the error.
func ParseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return id, nil
}
