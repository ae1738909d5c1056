package validation

import (
	"errors"
	"sort"
	"strings"
)

// FieldErrors - ошибки валидации формы: имя поля -> сообщение
type FieldErrors map[string]string

// Add запоминает первую ошибку для поля
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// Check добавляет err для поля, если он не nil
func (fe FieldErrors) Check(field string, err error) {
	if err != nil {
		fe.Add(field, err.Error())
	}
}

// Merge переносит ошибки другой проверки; прочие ошибки относятся ко всей форме
func (fe FieldErrors) Merge(err error) {
	if err == nil {
		return
	}
	var other FieldErrors
	if errors.As(err, &other) {
		for field, msg := range other {
			fe.Add(field, msg)
		}
		return
	}
	fe.Add("form", err.Error())
}

// Err возвращает nil для пустого набора, чтобы избежать typed-nil
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Error выводит ошибки в стабильном порядке полей
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return strings.Join(parts, "; ")
}
