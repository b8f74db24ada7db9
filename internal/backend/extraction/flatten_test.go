package extraction

import (
	"reflect"
	"testing"
)

func TestFlatten_JoinsContactNumbersAndFillsColumns(t *testing.T) {
	reply := `{
  "EstablishmentType": "Hostel",
  "HostelName": "X",
  "LocationDetails": {"Landmark1": "A"},
  "KeyService": "WiFi",
  "AccommodationOptions": "Dorm",
  "ContactNumbers": ["111", "222"]
}`

	entries, err := Decode(reply)
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	expected := FlatRecord{
		EstablishmentType:    "Hostel",
		HostelName:           "X",
		Landmark1:            "A",
		Landmark2:            "",
		KeyService:           "WiFi",
		AccommodationOptions: "Dorm",
		ContactNumbers:       "111, 222",
	}
	record := Flatten(entries[0])
	if record != expected {
		t.Errorf("expected %+v, got %+v", expected, record)
	}
}

func TestFlatten_MissingContactNumbersYieldEmptyCell(t *testing.T) {
	record := Flatten(Entry{HostelName: "X"})
	if record.ContactNumbers != "" {
		t.Errorf("expected empty contact numbers cell, got %q", record.ContactNumbers)
	}
}

func TestFlatten_SingleContactNumberHasNoSeparator(t *testing.T) {
	record := Flatten(Entry{ContactNumbers: StringList{"111"}})
	if record.ContactNumbers != "111" {
		t.Errorf("expected '111', got %q", record.ContactNumbers)
	}
}

func TestFlattenAll_PreservesOrder(t *testing.T) {
	entries := []Entry{
		{HostelName: "First"},
		{HostelName: "Second"},
		{HostelName: "Third"},
	}

	records := FlattenAll(entries)
	if len(records) != len(entries) {
		t.Fatalf("expected %d records, got %d", len(entries), len(records))
	}
	for i, entry := range entries {
		if records[i].HostelName != entry.HostelName {
			t.Errorf("expected record %d to be %q, got %q", i, entry.HostelName, records[i].HostelName)
		}
	}
}

func TestValues_MatchesColumnOrder(t *testing.T) {
	record := FlatRecord{
		EstablishmentType:    "EstablishmentType",
		HostelName:           "HostelName",
		Landmark1:            "Landmark1",
		Landmark2:            "Landmark2",
		KeyService:           "KeyService",
		AccommodationOptions: "AccommodationOptions",
		ContactNumbers:       "ContactNumbers",
	}

	if !reflect.DeepEqual(record.Values(), Columns) {
		t.Errorf("cell order %v does not match column order %v", record.Values(), Columns)
	}
}
