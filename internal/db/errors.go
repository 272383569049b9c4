package db

import "errors"

var (
	// ErrKeyNotFound is returned when a key does not exist or has expired.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrNoTTL is returned when an entry would be written without expiry.
	ErrNoTTL = errors.New("db: ttl must be positive")
)

// Command names, used as Error.Op.
const (
	OpPing = "PING"
	OpGet  = "GET"
	OpSet  = "SET"
)

// Error records the failing command and, when it has one, its key.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "db " + e.Op + ": " + e.Err.Error()
	}
	return "db " + e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
