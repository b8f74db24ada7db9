// Package extraction turns raw vision model replies into flat,
// fixed-column records suitable for tabular export.
package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is the structured data of one advertisement as the model returns
// it, before flattening.
type Entry struct {
	EstablishmentType    string          `json:"EstablishmentType"`
	HostelName           string          `json:"HostelName"`
	LocationDetails      LocationDetails `json:"LocationDetails"`
	KeyService           string          `json:"KeyService"`
	AccommodationOptions string          `json:"AccommodationOptions"`
	ContactNumbers       StringList      `json:"ContactNumbers"`
}

// LocationDetails holds the nested landmark fields of an Entry.
type LocationDetails struct {
	Landmark1 string `json:"Landmark1"`
	Landmark2 string `json:"Landmark2"`
}

// StringList decodes a JSON array of scalars, or a single bare scalar,
// into a slice of strings. The model is asked for an array of contact
// numbers but occasionally returns a lone string, or numbers instead of
// strings. Numbers keep their literal text.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] != '[' {
		value, err := scalarString(trimmed)
		if err != nil {
			return err
		}
		*l = StringList{value}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	values := make(StringList, 0, len(items))
	for _, item := range items {
		value, err := scalarString(item)
		if err != nil {
			return err
		}
		values = append(values, value)
	}
	*l = values
	return nil
}

// scalarString renders a JSON scalar as text. Strings decode normally,
// numbers keep their literal form, everything else is rejected.
func scalarString(data json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty value in contact numbers")
	}
	switch trimmed[0] {
	case '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return "", err
		}
		return value, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(trimmed), nil
	default:
		return "", fmt.Errorf("contact number must be a string or number, got %q", string(trimmed))
	}
}
