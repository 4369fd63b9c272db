package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"disaster-relief/beacon/internal/constants"
	"disaster-relief/beacon/internal/models/entities"
)

func exportReport(id string) entities.Report {
	return entities.Report{
		ID:           id,
		UserID:       "user-1",
		DisasterType: constants.DisasterFlood,
		Severity:     3,
		Comments:     "water rising",
		Latitude:     -6.2,
		Longitude:    106.8,
		Timestamp:    time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC),
		Status:       constants.StatusSubmitted,
	}
}

func TestWriteCSVStartsWithBOM(t *testing.T) {
	var buf bytes.Buffer
	svc := NewExportService(nil)

	if err := svc.WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := buf.Bytes()
	if len(out) < 3 || out[0] != 0xEF || out[1] != 0xBB || out[2] != 0xBF {
		t.Fatal("output must start with the UTF-8 byte-order mark")
	}
}

func TestWriteCSVHeaderAndRow(t *testing.T) {
	var buf bytes.Buffer
	svc := NewExportService(nil)

	r := exportReport("r1")
	name := "Siti"
	url := "https://photos.test/r1.jpg"
	r.ContactName = &name
	r.ImageURL = &url

	if err := svc.WriteCSV(&buf, []entities.Report{r}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}

	header := records[0]
	if header[0] != "ID" || header[len(header)-1] != "Image URL" {
		t.Errorf("unexpected header: %v", header)
	}

	row := records[1]
	if row[0] != "r1" {
		t.Errorf("expected id r1, got %q", row[0])
	}
	if row[1] != "Submitted" || row[2] != "Flood" || row[3] != "3" {
		t.Errorf("unexpected status/type/severity: %v", row[1:4])
	}
	if row[4] != "Siti" {
		t.Errorf("expected contact name, got %q", row[4])
	}
	if row[9] != "2026-08-30 14:30:00" {
		t.Errorf("unexpected date format: %q", row[9])
	}
	if row[10] != url {
		t.Errorf("expected image url, got %q", row[10])
	}
}

func TestWriteCSVMissingOptionalFieldsRenderNA(t *testing.T) {
	var buf bytes.Buffer
	svc := NewExportService(nil)

	if err := svc.WriteCSV(&buf, []entities.Report{exportReport("r1")}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	row := records[1]
	if row[4] != "N/A" || row[5] != "N/A" || row[10] != "N/A" {
		t.Errorf("absent optional fields must export as N/A, got %q %q %q", row[4], row[5], row[10])
	}
}

func TestWriteCSVQuotesSpecialCharacters(t *testing.T) {
	var buf bytes.Buffer
	svc := NewExportService(nil)

	r := exportReport("r1")
	r.Comments = `bridge "collapsed", send help` + "\nsecond line"

	if err := svc.WriteCSV(&buf, []entities.Report{r}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	raw := buf.String()
	if !strings.Contains(raw, `""collapsed""`) {
		t.Error("embedded quotes must be doubled per RFC 4180")
	}

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if records[1][6] != r.Comments {
		t.Errorf("comments must survive a parse round-trip, got %q", records[1][6])
	}
}
