package transporters

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"verifybot/pkg/log"
)

// Console writes human-readable lines:
//
//	15:04:05 INFO  verification succeeded request_id=... guild_id=...
type Console struct {
	w io.Writer
}

// NewConsole writes to stderr.
func NewConsole() *Console {
	return &Console{w: os.Stderr}
}

// NewConsoleWithWriter writes to w.
func NewConsoleWithWriter(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Write(entry log.Entry) error {
	var sb strings.Builder
	sb.WriteString(entry.Time.Format(time.TimeOnly))
	fmt.Fprintf(&sb, " %-5s %s", entry.Level, entry.Message)
	if entry.RequestID != "" {
		sb.WriteString(" request_id=" + entry.RequestID)
	}

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, entry.Fields[k])
	}
	if entry.Caller != "" {
		sb.WriteString(" (" + entry.Caller + ")")
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(c.w, sb.String())
	return err
}

func (c *Console) Close() error { return nil }
