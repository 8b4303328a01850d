package treedoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"lowerer/internal/diag"
)

// Format is a document encoding.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatYAML
	FormatMsgpack
)

// Formats lists every supported document encoding.
var Formats = []Format{FormatJSON, FormatYAML, FormatMsgpack}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// Ext returns the canonical file extension, dot included.
func (f Format) Ext() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMsgpack:
		return ".msgpack"
	default:
		return ".json"
	}
}

// ParseFormat converts a format name to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return 0, &Error{Code: diag.DocUnsupportedFormat, Msg: fmt.Sprintf("unsupported document format %q (expected json|yaml|msgpack)", s)}
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return 0, &Error{Code: diag.DocUnsupportedFormat, Msg: fmt.Sprintf("%s: no file extension", path)}
	}
	return ParseFormat(ext)
}

// IsDocumentPath reports whether path has a tree document extension.
func IsDocumentPath(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

// Unmarshal parses data without building a tree.
func Unmarshal(data []byte, format Format) (*File, error) {
	var f File
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&f)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &f)
	default:
		return nil, &Error{Code: diag.DocUnsupportedFormat, Msg: fmt.Sprintf("unsupported document format %v", format)}
	}
	if err != nil {
		return nil, &Error{Code: diag.DocMalformed, Msg: fmt.Sprintf("%s: %v", format, err), Err: err}
	}
	return &f, nil
}

// Marshal encodes f. JSON output is indented for diffs.
func Marshal(f *File, format Format) ([]byte, error) {
	out := *f
	if out.Version == 0 {
		out.Version = CurrentVersion
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(&out, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&out); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatMsgpack:
		return msgpack.Marshal(&out)
	default:
		return nil, &Error{Code: diag.DocUnsupportedFormat, Msg: fmt.Sprintf("unsupported document format %v", format)}
	}
}

// ParseNode parses a single node, as typed into the REPL.
func ParseNode(data []byte, format Format) (*Node, error) {
	var n Node
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&n)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&n)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &n)
	default:
		return nil, &Error{Code: diag.DocUnsupportedFormat, Msg: fmt.Sprintf("unsupported document format %v", format)}
	}
	if err != nil {
		return nil, &Error{Code: diag.DocMalformed, Msg: fmt.Sprintf("%s: %v", format, err), Err: err}
	}
	return &n, nil
}
