package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// RemoteError is a non-2xx answer from the backend.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.Status)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.Status, e.Message)
}

var strictPolicy = bluemonday.StrictPolicy()

// Notice turns err into a message fit for the user: the backend's own message
// with any markup stripped, or fallback when it gave none or was unreachable.
func Notice(err error, fallback string) string {
	var remote *RemoteError
	if !errors.As(err, &remote) {
		return fallback
	}
	// templates escape again on output
	msg := strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(remote.Message)))
	if msg == "" {
		return fallback
	}
	return msg
}

// remoteMessage digs the human readable message out of an error body. The
// backend uses "error", "message" or "detail", "errors" as a list or as
// field -> messages, or a bare serializer object of field -> messages.
func remoteMessage(body []byte) string {
	var envelope struct {
		Error   string          `json:"error"`
		Message string          `json:"message"`
		Detail  string          `json:"detail"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		// a list where a string was expected still leaves the field map to read
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return ""
		}
	}

	switch {
	case envelope.Error != "":
		return envelope.Error
	case envelope.Message != "":
		return envelope.Message
	case envelope.Detail != "":
		return envelope.Detail
	}

	if len(envelope.Errors) > 0 {
		var list []string
		if err := json.Unmarshal(envelope.Errors, &list); err == nil && len(list) > 0 {
			return list[0]
		}
		if msg := fieldMessage(envelope.Errors); msg != "" {
			return msg
		}
	}
	return fieldMessage(body)
}

// fieldMessage returns the first message of a field -> messages object, taking
// fields in name order. Fields whose value is not a list of strings are skipped.
func fieldMessage(raw json.RawMessage) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return ""
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var msgs []string
		if err := json.Unmarshal(fields[name], &msgs); err != nil || len(msgs) == 0 || msgs[0] == "" {
			continue
		}
		if name == "non_field_errors" {
			return msgs[0]
		}
		return fmt.Sprintf("%s: %s", name, msgs[0])
	}
	return ""
}
