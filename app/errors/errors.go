package errors

import (
	"context"
	"errors"
	"log/slog"
	"sort"
)

// Log logs err with logger at the given level, rendering the cause and
// metadata of a StructuredError as fields.
func Log(logger *slog.Logger, level slog.Level, err error) {
	var serr *StructuredError
	if !errors.As(err, &serr) {
		logger.Log(context.Background(), level, err.Error())
		return
	}

	args := make([]any, 0, len(serr.metadata)*2+2)

	cause := serr.metadata["cause"]
	if serr.cause != nil {
		cause = serr.cause
	}
	if cause != nil {
		args = append(args, "cause", cause)
	}

	keys := make([]string, 0, len(serr.metadata))
	for k := range serr.metadata {
		if k != "cause" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		args = append(args, k, serr.metadata[k])
	}

	logger.Log(context.Background(), level, serr.Error(), args...)
}
