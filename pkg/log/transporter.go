package log

// Transporter delivers entries to one destination (stdout, a file, ...).
// Write is only ever called from the buffer's worker goroutine.
type Transporter interface {
	Name() string
	Write(entry Entry) error
	Close() error
}
