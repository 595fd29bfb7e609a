package segscope

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/kailas-cloud/segscope/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery       = domain.ErrInvalidQuery
	ErrBackendUnavailable = domain.ErrBackendUnavailable
	ErrMalformedResponse  = domain.ErrMalformedResponse
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 4 << 10

// RequestError is returned when the service answers with a non-2xx status.
type RequestError struct {
	StatusCode int
	StatusText string
	Body       []byte
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("segscope: error fetching search results: %d %s", e.StatusCode, e.StatusText)
}

// Unwrap makes errors.Is(err, ErrBackendUnavailable) hold.
func (e *RequestError) Unwrap() error { return domain.ErrBackendUnavailable }

// statusText extracts the reason phrase from a response, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
