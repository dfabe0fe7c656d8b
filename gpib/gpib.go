package gpib

import "fmt"

// Address is a GPIB bus address. It is fixed once configured.
type Address int

// Resource returns the VISA resource string for the address.
func (a Address) Resource() string {
	return fmt.Sprintf("GPIB::%d::INSTR", int(a))
}

// A Conn represents one open instrument session.
//
// A Conn supports a single in-flight operation; callers must serialize
// access themselves.
type Conn interface {
	// Query sends a command and returns the instrument's reply with
	// line termination stripped.
	Query(cmd string) (string, error)

	// Send sends a command that produces no reply.
	Send(cmd string) error

	// Clear issues a device clear to the instrument.
	Clear() error

	Close() error
}

// ConnectionError indicates the bus was unreachable or the instrument
// did not respond.
type ConnectionError struct {
	Resource string
	Err      error
}

func (e *ConnectionError) Error() string {
	return "gpib: " + e.Resource + ": " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func connErr(resource string, err error) error {
	if err == nil {
		return nil
	}
	return &ConnectionError{Resource: resource, Err: err}
}
