package export

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/jo-hoe/adscan/internal/backend/extraction"
)

func readRows(t *testing.T, workbook []byte) [][]string {
	t.Helper()
	file, err := excelize.OpenReader(bytes.NewReader(workbook))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows(SheetName)
	if err != nil {
		t.Fatalf("failed to read sheet %q: %v", SheetName, err)
	}
	return rows
}

func TestWorkbook(t *testing.T) {
	records := []extraction.FlatRecord{
		{
			EstablishmentType:    "Hostel",
			HostelName:           "X",
			Landmark1:            "A",
			KeyService:           "WiFi",
			AccommodationOptions: "Dorm",
			ContactNumbers:       "111, 222",
		},
		{
			EstablishmentType: "PG",
			HostelName:        "Y",
			Landmark2:         "B",
		},
	}

	workbook, err := Workbook(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := readRows(t, workbook)
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 data rows, got %d rows", len(rows))
	}
	if !reflect.DeepEqual(rows[0], extraction.Columns) {
		t.Errorf("expected header %v, got %v", extraction.Columns, rows[0])
	}

	expectedFirst := []string{"Hostel", "X", "A", "", "WiFi", "Dorm", "111, 222"}
	if !reflect.DeepEqual(rows[1], expectedFirst) {
		t.Errorf("expected first data row %v, got %v", expectedFirst, rows[1])
	}
	if rows[2][1] != "Y" || rows[2][3] != "B" {
		t.Errorf("unexpected second data row %v", rows[2])
	}
}

func TestWorkbook_NoRecordsYieldsHeaderOnly(t *testing.T) {
	workbook, err := Workbook(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := readRows(t, workbook)
	if len(rows) != 1 {
		t.Fatalf("expected header row only, got %d rows", len(rows))
	}
	if !reflect.DeepEqual(rows[0], extraction.Columns) {
		t.Errorf("expected header %v, got %v", extraction.Columns, rows[0])
	}
}

func TestWorkbook_HasSingleSheet(t *testing.T) {
	workbook, err := Workbook(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(workbook))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) != 1 || sheets[0] != SheetName {
		t.Errorf("expected single sheet %q, got %v", SheetName, sheets)
	}
}
