package log

import (
	"errors"
	"strings"
)

// Level is the severity of an entry.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = map[Level]string{
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ErrInvalidLevel is returned by ParseLevel for unknown names.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel accepts level names case-insensitively; "warning" is an alias of WARN.
// Unknown names yield Info and ErrInvalidLevel.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return Warn, nil
	}
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}
	return Info, ErrInvalidLevel
}

// Enables reports whether a logger at level l emits entries at target.
func (l Level) Enables(target Level) bool {
	return target >= l
}
