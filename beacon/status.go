package beacon

import (
	"net/http"
	"slices"
)

// DefaultExpectedStatuses are the statuses treated as success when an
// operation does not name its own.
var DefaultExpectedStatuses = []int{http.StatusOK, http.StatusCreated, http.StatusNoContent}

// CheckStatus returns nil when resp carries one of the expected statuses
// (DefaultExpectedStatuses when none are given). Otherwise it returns a
// *RemoteError built from the JSON error envelope in the body, or from the
// raw status and body when the body holds no envelope.
func CheckStatus(coder JSONCoder, resp *Response, expected ...int) error {
	if resp == nil {
		return &ArgumentError{Name: "response", Reason: "must not be nil"}
	}
	if len(expected) == 0 {
		expected = DefaultExpectedStatuses
	}
	if slices.Contains(expected, resp.StatusCode) {
		return nil
	}

	if resp.Body != "" && coder != nil {
		var envelope errorEnvelope
		err := coder.Unmarshal([]byte(resp.Body), &envelope)
		if err == nil && (envelope.Status != 0 || envelope.Message != "") {
			status := envelope.Status
			if status == 0 {
				status = resp.StatusCode
			}
			return &RemoteError{Status: status, Message: envelope.Message}
		}
	}

	return &RemoteError{Status: resp.StatusCode, Message: resp.Body}
}
