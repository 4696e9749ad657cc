package clinicapi

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

// errorBody is the FastAPI error shape: detail is either a string or a list
// of validation items.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

func errorFromResponse(status int, body []byte) *apperrors.AppError {
	detail := parseDetail(body)

	var appErr *apperrors.AppError
	switch {
	case status == http.StatusUnauthorized:
		appErr = apperrors.NewUnauthorizedError(orDefault(detail, "Session expired, please log in again"))
	case status == http.StatusForbidden:
		appErr = apperrors.NewForbiddenError(orDefault(detail, "You do not have permission to perform this action"))
	case status == http.StatusNotFound:
		appErr = apperrors.NewNotFoundError(detail)
	case status == http.StatusConflict:
		appErr = apperrors.NewConflictError(detail)
	case status >= 500:
		appErr = apperrors.NewExternalError(detail, nil)
	default:
		appErr = apperrors.NewRejectedError(status, detail)
	}
	appErr.StatusCode = status
	return appErr
}

func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var items []validationItem
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
