// AngelaMos | 2026
// request.go

package core

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// DecodeJSON reads a single JSON value from the request body into dst.
// Failures come back as *AppError ready for JSONError.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return NewAppError(
				ErrInvalidInput,
				"request body too large",
				http.StatusRequestEntityTooLarge,
				"PAYLOAD_TOO_LARGE",
			)
		case errors.Is(err, io.EOF):
			return BadRequestError("request body is empty")
		default:
			return BadRequestError("invalid request body")
		}
	}

	return nil
}
