package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-doc-verify/internal/utils"
)

// APIError keeps the machine code of an error response so callers can tell
// a signature_mismatch from other 401s. It unwraps to the status sentinel.
type APIError struct {
	StatusCode int
	Code       string
	Message    string

	sentinel error
}

func (e *APIError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.sentinel, e.Code, e.Message)
	case e.Code != "":
		return fmt.Sprintf("%s: %s", e.sentinel, e.Code)
	default:
		return fmt.Sprintf("%s: %s", e.sentinel, e.Message)
	}
}

func (e *APIError) Unwrap() error {
	return e.sentinel
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}

	body := strings.TrimSpace(string(resp.Body()))
	var errResp utils.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil && errResp.Error != "" {
		apiErr.Code = errResp.Error
		apiErr.Message = errResp.Message
	} else {
		apiErr.Message = body
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		apiErr.sentinel = ErrBadRequest
	case http.StatusUnauthorized:
		apiErr.sentinel = ErrUnauthorized
	case http.StatusForbidden:
		apiErr.sentinel = ErrForbidden
	case http.StatusNotFound:
		apiErr.sentinel = ErrNotFound
	case http.StatusConflict:
		apiErr.sentinel = ErrConflict
	case http.StatusBadGateway:
		apiErr.sentinel = ErrBadGateway
	case http.StatusInternalServerError:
		apiErr.sentinel = ErrInternalServerError
	default:
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), apiErr.Message)
	}

	return apiErr
}
