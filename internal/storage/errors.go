package storage

import (
	"github.com/pkg/errors"
)

var (
	ErrNotConfigured = errors.New("backend not configured")
	ErrNotFound      = errors.New("record not found")
	ErrPersistence   = errors.New("persistence failure")
	ErrRemoteCall    = errors.New("remote call failure")
	ErrInvalidRecord = errors.New("invalid record")
)

// Error describes a failed storage operation. Kind is one of the sentinel
// errors above; both Kind and Err match with errors.Is.
type Error struct {
	Kind error
	Op   string
	Key  string
	Err  error
}

func (e *Error) Error() string {
	msg := "storage: " + e.Op
	if e.Key != "" {
		msg += " " + e.Key
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NotConfigured(op, detail string) error {
	return &Error{Kind: ErrNotConfigured, Op: op, Err: errors.New(detail)}
}

func Persistence(op, key string, err error) error {
	return &Error{Kind: ErrPersistence, Op: op, Key: key, Err: err}
}

func InvalidRecord(op, key string, err error) error {
	return &Error{Kind: ErrInvalidRecord, Op: op, Key: key, Err: err}
}

func RemoteCall(op, key string, err error) error {
	return &Error{Kind: ErrRemoteCall, Op: op, Key: key, Err: err}
}

// classify keeps errors that already carry a storage kind and turns
// everything else into a persistence failure.
func classify(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return Persistence(op, key, err)
}
