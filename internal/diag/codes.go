package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Ввод-вывод
	IOReadFailed  Code = 1001
	IOWriteFailed Code = 1002

	// Документы с деревом
	DocMalformed         Code = 2001
	DocUnknownKind       Code = 2002
	DocUnsupportedFormat Code = 2003
	DocMissingField      Code = 2004

	// Понижение
	LowUnknownOperation   Code = 3001
	LowUnknownValue       Code = 3002
	LowUnknownStmt        Code = 3003
	LowMalformedOperation Code = 3004

	// Проект
	PrjBadConfig       Code = 5001
	PrjVersionMismatch Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	IOReadFailed:          "Failed to read input",
	IOWriteFailed:         "Failed to write output",
	DocMalformed:          "Malformed tree document",
	DocUnknownKind:        "Unknown node kind in tree document",
	DocUnsupportedFormat:  "Unsupported tree document format",
	DocMissingField:       "Missing required node field",
	LowUnknownOperation:   "Unknown operation tag",
	LowUnknownValue:       "Unknown value node variant",
	LowUnknownStmt:        "Unknown statement node variant",
	LowMalformedOperation: "Operation has wrong operand count",
	PrjBadConfig:          "Invalid project configuration",
	PrjVersionMismatch:    "Tool version does not satisfy project requirement",
}

// ID returns the stable identifier, e.g. LOW3001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DOC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
