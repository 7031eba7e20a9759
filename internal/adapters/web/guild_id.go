package web

import (
	"errors"
	"regexp"
)

// ErrInvalidGuildID is returned for anything that is not a Discord snowflake.
var ErrInvalidGuildID = errors.New("invalid guild id")

// snowflakeRegex matches Discord ids: 17 to 20 decimal digits.
var snowflakeRegex = regexp.MustCompile(`^\d{17,20}$`)

// ParseGuildID validates a server id taken from a URL.
func ParseGuildID(s string) (string, error) {
	if !snowflakeRegex.MatchString(s) {
		return "", ErrInvalidGuildID
	}
	return s, nil
}
