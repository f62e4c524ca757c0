package adapter

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// mapHTTPError turns a non-2xx mirror response into an error. Bodies are not
// read: the response is streamed and mirror error pages carry nothing useful.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	switch {
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, resp.Request.URL)
	case code >= http.StatusMultipleChoices && code < http.StatusBadRequest:
		return fmt.Errorf("%w: %d to %s", errRedirect, code, resp.Header().Get("Location"))
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", errServerError, resp.Status())
	default:
		return fmt.Errorf("http %d: %s", code, http.StatusText(code))
	}
}
