// Package bind decodes an HTTP request body into a struct and runs the
// struct's validation tags.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/savannah/pkg/validate"
)

// maxBodyBytes caps request bodies so a single request cannot exhaust
// memory.
const maxBodyBytes = 1 << 20 // 1 MB

// JSON decodes r.Body into dest and validates it.
// Returns (errs, nil) on validation failures, (nil, err) on malformed or
// oversized JSON, (nil, nil) when dest is valid.
func JSON(r *http.Request, dest any) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs = validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
