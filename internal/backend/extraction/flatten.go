package extraction

import "strings"

// Columns lists the export columns in their fixed output order.
var Columns = []string{
	"EstablishmentType",
	"HostelName",
	"Landmark1",
	"Landmark2",
	"KeyService",
	"AccommodationOptions",
	"ContactNumbers",
}

// FlatRecord is one output row. The nested location fields are hoisted
// into top-level columns and the contact numbers are joined into a single
// cell.
type FlatRecord struct {
	EstablishmentType    string `json:"EstablishmentType"`
	HostelName           string `json:"HostelName"`
	Landmark1            string `json:"Landmark1"`
	Landmark2            string `json:"Landmark2"`
	KeyService           string `json:"KeyService"`
	AccommodationOptions string `json:"AccommodationOptions"`
	ContactNumbers       string `json:"ContactNumbers"`
}

// Flatten converts a parsed entry into its flat row form. Fields missing
// from the reply stay empty strings.
func Flatten(entry Entry) FlatRecord {
	return FlatRecord{
		EstablishmentType:    entry.EstablishmentType,
		HostelName:           entry.HostelName,
		Landmark1:            entry.LocationDetails.Landmark1,
		Landmark2:            entry.LocationDetails.Landmark2,
		KeyService:           entry.KeyService,
		AccommodationOptions: entry.AccommodationOptions,
		ContactNumbers:       strings.Join(entry.ContactNumbers, ", "),
	}
}

// FlattenAll converts entries into rows, preserving their order.
func FlattenAll(entries []Entry) []FlatRecord {
	records := make([]FlatRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, Flatten(entry))
	}
	return records
}

// Values returns the record's cells in Columns order.
func (r FlatRecord) Values() []string {
	return []string{
		r.EstablishmentType,
		r.HostelName,
		r.Landmark1,
		r.Landmark2,
		r.KeyService,
		r.AccommodationOptions,
		r.ContactNumbers,
	}
}
