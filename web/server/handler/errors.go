package handler

import (
	"net/http"

	"go.hackfix.me/tracks/web/server/types"
)

// sanitizeError returns a copy of terr with its message reduced according to
// lvl. The status code is never changed.
func sanitizeError(terr *types.Error, lvl types.ErrorLevel) *types.Error {
	if terr == nil {
		return nil
	}

	sanitized := *terr
	switch lvl {
	case types.ErrorLevelFull:
	case types.ErrorLevelNone:
		sanitized.Message = http.StatusText(terr.StatusCode)
	default:
		if terr.StatusCode >= http.StatusInternalServerError {
			sanitized.Message = http.StatusText(terr.StatusCode)
		}
	}

	return &sanitized
}
