package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-doc-verify/internal/service"
)

// maxBodySize bounds JSON request bodies. Documents travel as CIDs, so
// bodies stay small.
const maxBodySize = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

// errInvalid reports a validation failure the same way the validating
// service wrappers do.
func errInvalid(err error) error {
	return fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err)
}
