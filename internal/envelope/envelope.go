package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind classifies why a tool invocation did not produce data.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindEmpty        Kind = "empty"
	KindTimeout      Kind = "timeout"
	KindConnectivity Kind = "connectivity"
	KindUnexpected   Kind = "unexpected"
	KindCanceled     Kind = "canceled"
)

// Document is an ordered JSON object. Key order is kept on output.
type Document = orderedmap.OrderedMap[string, any]

// NewDocument returns an empty ordered document.
func NewDocument() *Document {
	return orderedmap.New[string, any]()
}

// Error renders the failure envelope {"erro": message}.
func Error(message string) string {
	doc := NewDocument()
	doc.Set("erro", message)
	out, err := encode(doc)
	if err != nil {
		// A single string field cannot fail to encode.
		return fmt.Sprintf(`{"erro": %q}`, message)
	}
	return out
}

// Success renders a success document. Non-ASCII text is emitted as raw UTF-8.
func Success(doc *Document) (string, error) {
	return encode(doc)
}

func encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding envelope: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
