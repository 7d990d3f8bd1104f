package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dmitrijs2005/flashcards/internal/logging"
)

// maxErrorBody bounds how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

// UnauthorizedFunc is invoked once per 401 response with the bearer token
// that the rejected request carried ("" if none).
type UnauthorizedFunc func(ctx context.Context, token string)

// Classify turns every non-2xx response and every transport failure into an
// *Error. 2xx responses pass through untouched. On 401 onUnauthorized runs
// before the error is returned.
func Classify(onUnauthorized UnauthorizedFunc, logger logging.Logger) Middleware {
	if logger == nil {
		logger = logging.Discard()
	}
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()

			resp, err := next.Do(req)
			if err != nil {
				logger.Error(ctx, "no response from server", "method", req.Method, "path", req.URL.Path, "error", err)
				return nil, &Error{Kind: KindNoResponse, Method: req.Method, Path: req.URL.Path, Err: err}
			}

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, nil
			}

			defer resp.Body.Close()
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

			e := &Error{
				Kind:       KindForStatus(resp.StatusCode),
				Method:     req.Method,
				Path:       req.URL.Path,
				StatusCode: resp.StatusCode,
				Detail:     detail(body),
			}

			switch e.Kind {
			case KindUnauthorized:
				logger.Warn(ctx, "unauthorized", "method", req.Method, "path", req.URL.Path)
				if onUnauthorized != nil {
					// inner middleware may have sent a modified copy of req
					sent := resp.Request
					if sent == nil {
						sent = req
					}
					onUnauthorized(ctx, AttachedToken(sent))
				}
			case KindForbidden:
				logger.Warn(ctx, "access forbidden", "method", req.Method, "path", req.URL.Path)
			case KindNotFound:
				logger.Warn(ctx, "resource not found", "method", req.Method, "path", req.URL.Path)
			case KindServer:
				logger.Error(ctx, "server error", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
			default:
				logger.Warn(ctx, "request rejected", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "detail", e.Detail)
			}

			return nil, e
		})
	}
}

// detail extracts the backend's {"detail": ...} message. Validation errors
// carry a list of objects with a "msg" field; the first one is used.
func detail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}
	return ""
}
