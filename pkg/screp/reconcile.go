package screp

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Reconciled is screp's stdout split into its diagnostic and JSON parts.
type Reconciled struct {
	Data        *Data
	Raw         json.RawMessage
	Diagnostics string
}

// Reconcile separates the diagnostic lines screp prints ahead of its JSON
// document and decodes the document. screp writes fatal and recoverable
// parse errors to stdout too; the only separator is that the document
// starts on the first line beginning with '{'. A diagnostic line that
// itself starts with '{' is taken as the document.
//
// Empty output and a document that is not valid JSON both yield the zero
// value. Output without a document yields only Diagnostics. A valid
// document is always kept in Raw; fields whose shape does not match Data
// are left unset.
func Reconcile(stdout string) Reconciled {
	if strings.TrimSpace(stdout) == "" {
		return Reconciled{}
	}
	diag, candidate, found := splitOutput(stdout)
	if !found {
		return Reconciled{Diagnostics: strings.TrimSpace(diag)}
	}
	raw := bytes.TrimSpace([]byte(candidate))
	if !json.Valid(raw) {
		return Reconciled{}
	}
	var data Data
	var typeErr *json.UnmarshalTypeError
	if err := json.Unmarshal(raw, &data); err != nil && !errors.As(err, &typeErr) {
		return Reconciled{}
	}
	return Reconciled{
		Data:        &data,
		Raw:         json.RawMessage(raw),
		Diagnostics: strings.TrimSpace(diag),
	}
}

// splitOutput finds the first line that starts with '{' and splits s
// before it. found is false when no such line exists.
func splitOutput(s string) (diag, candidate string, found bool) {
	if strings.HasPrefix(s, "{") {
		return "", s, true
	}
	for off := 0; off < len(s); {
		i := strings.IndexByte(s[off:], '\n')
		if i < 0 {
			break
		}
		off += i + 1
		if off < len(s) && s[off] == '{' {
			return s[:off], s[off:], true
		}
	}
	return s, "", false
}
