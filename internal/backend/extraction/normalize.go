package extraction

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// codeFence matches a markdown fence opener (optionally tagged "json") at
// the start of a line, or a fence closer at the end of a line. The model
// is instructed to return bare JSON but wraps it in fences now and then.
var codeFence = regexp.MustCompile("(?m)^```(?:json)?|```$")

// StripFences removes markdown code fence markers from a model reply and
// trims surrounding whitespace.
func StripFences(reply string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(reply, ""))
}

// Decode parses a model reply into entries. The reply may be a JSON array
// of entries or a single entry object; a single object is wrapped into a
// one-element slice so both shapes take the same path downstream.
func Decode(reply string) ([]Entry, error) {
	cleaned := StripFences(reply)
	// A JSON null would silently decode into zero entries
	if cleaned == "" || cleaned == "null" {
		return nil, fmt.Errorf("model reply contains no JSON")
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(cleaned), &entries); err == nil {
		return entries, nil
	}

	var single Entry
	if err := json.Unmarshal([]byte(cleaned), &single); err != nil {
		return nil, fmt.Errorf("reply is neither an entry array nor a single entry: %w", err)
	}
	return []Entry{single}, nil
}
