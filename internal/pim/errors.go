package pim

import "fmt"

// bodyExcerptLen caps how much of an error response is kept
const bodyExcerptLen = 512

// StatusError reports an API response with an unexpected status code.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed (%d): %s", e.Op, e.StatusCode, e.Body)
}

func newStatusError(op string, resp *Response) *StatusError {
	body := string(resp.Body)
	if len(body) > bodyExcerptLen {
		body = body[:bodyExcerptLen] + "..."
	}
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: body}
}

func statusIn(code int, accepted ...int) bool {
	for _, a := range accepted {
		if code == a {
			return true
		}
	}
	return false
}
