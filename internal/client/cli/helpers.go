package cli

import (
	"strconv"

	"github.com/spf13/pflag"
)

// parseID разбирает положительный числовой идентификатор
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errUsage("%q is not a valid id", s)
	}
	return id, nil
}

// changedString возвращает указатель на значение, только если флаг задан явно
func changedString(fs *pflag.FlagSet, name, value string) *string {
	if !fs.Changed(name) {
		return nil
	}
	return &value
}

func changedFloat(fs *pflag.FlagSet, name string, value float64) *float64 {
	if !fs.Changed(name) {
		return nil
	}
	return &value
}

func changedInt(fs *pflag.FlagSet, name string, value int64) *int64 {
	if !fs.Changed(name) {
		return nil
	}
	return &value
}

func changedBool(fs *pflag.FlagSet, name string, value bool) *bool {
	if !fs.Changed(name) {
		return nil
	}
	return &value
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
