package diag

import (
	"errors"
	"fmt"
)

// Severity ranks diagnostics; Bag.Sort puts higher severities first.
type Severity uint8

const (
	SevInfo Severity = iota
	// SevWarning marks recoverable problems such as an unwritable cache entry.
	SevWarning
	// SevError marks a document that produced no output.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is one finding. File is the input it concerns, Node the raw representation
// of the offending node when one is known.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	File     string
	Node     string
}

func (d Diagnostic) String() string {
	loc := d.File
	if loc == "" {
		loc = "<input>"
	}
	if d.Node != "" {
		return fmt.Sprintf("%s: %s %s: %s (at %q)", loc, d.Severity, d.Code.ID(), d.Message, d.Node)
	}
	return fmt.Sprintf("%s: %s %s: %s", loc, d.Severity, d.Code.ID(), d.Message)
}

// Coded is implemented by errors that carry a diagnostic code.
type Coded interface {
	error
	DiagCode() Code
}

// Located is implemented by errors that know the raw representation of the node at fault.
type Located interface {
	NodeRepr() string
}

// FromError converts err into an error-severity diagnostic for file.
func FromError(file string, err error) Diagnostic {
	d := Diagnostic{
		Severity: SevError,
		Code:     UnknownCode,
		Message:  err.Error(),
		File:     file,
	}
	var coded Coded
	if errors.As(err, &coded) {
		d.Code = coded.DiagCode()
	}
	var located Located
	if errors.As(err, &located) {
		d.Node = located.NodeRepr()
	}
	return d
}
