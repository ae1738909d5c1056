package api

import (
	"encoding/json"
	"strings"
)

// ErrorResponse представляет ответ с ошибкой в формате FastAPI.
// detail бывает строкой или списком ошибок валидации.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// Message возвращает человекочитаемое сообщение из поля detail
func (e *ErrorResponse) Message() string {
	if len(e.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(e.Detail, &text); err == nil {
		return text
	}

	var issues []validationIssue
	if err := json.Unmarshal(e.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg != "" {
				msgs = append(msgs, issue.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return string(e.Detail)
}
