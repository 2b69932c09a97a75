package trace

import "fmt"

// HeaderError reports a missing or unreadable header line.
type HeaderError struct {
	Line   int
	Reason string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid trace header on line %d: %s", e.Line, e.Reason)
}

// MalformedCommandError reports a command line that cannot be executed.
type MalformedCommandError struct {
	Line   int
	Token  string
	Reason string
}

func (e *MalformedCommandError) Error() string {
	return fmt.Sprintf("command '%s' on line %d %s", e.Token, e.Line, e.Reason)
}
