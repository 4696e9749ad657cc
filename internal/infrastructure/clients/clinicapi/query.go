package clinicapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

// Query turns a filter struct into query parameters using its json tags.
// Keys omitted by the encoder (omitempty, nil pointers) are not appended.
func Query(filter interface{}) (url.Values, error) {
	values := url.Values{}
	if filter == nil {
		return values, nil
	}

	raw, err := json.Marshal(filter)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode filter", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil, apperrors.NewInternalError("filter must encode to an object", err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := fields[k].(type) {
		case nil:
		case []interface{}:
			for _, item := range v {
				values.Add(k, scalar(item))
			}
		default:
			values.Set(k, scalar(v))
		}
	}
	return values, nil
}

func scalar(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// routeOf collapses numeric path segments so metrics and spans keep a low
// cardinality: /appointments/42/cancel -> /appointments/{id}/cancel
func routeOf(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}
