// Package transporters holds log.Transporter implementations.
package transporters

import (
	"encoding/json"
	"io"
	"os"

	"verifybot/pkg/log"
)

// JSON writes one JSON object per line.
type JSON struct {
	w io.Writer
}

// NewJSON writes to stdout.
func NewJSON() *JSON {
	return &JSON{w: os.Stdout}
}

// NewJSONWithWriter writes to w.
func NewJSONWithWriter(w io.Writer) *JSON {
	return &JSON{w: w}
}

func (j *JSON) Name() string { return "json" }

func (j *JSON) Write(entry log.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = j.w.Write(append(data, '\n'))
	return err
}

func (j *JSON) Close() error { return nil }
