package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"disaster-relief/beacon/internal/constants"
	"disaster-relief/beacon/internal/models/entities"
	"disaster-relief/beacon/internal/security"
)

// csvColumns is the fixed export column order.
var csvColumns = []string{
	"ID", "Status", "Type", "Severity",
	"Contact Name", "Phone Number",
	"Comments", "Latitude", "Longitude", "Date", "Image URL",
}

// ExportService writes the administrator report set as CSV. Output is UTF-8
// with a byte-order mark so spreadsheet tools pick the encoding up; quoting
// follows RFC 4180 (embedded quotes doubled).
type ExportService struct {
	cipher *security.FieldCipher
}

func NewExportService(cipher *security.FieldCipher) *ExportService {
	return &ExportService{cipher: cipher}
}

// WriteCSV renders one row per report in the fixed column order.
func (s *ExportService) WriteCSV(w io.Writer, reports []entities.Report) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range reports {
		row := []string{
			r.ID,
			string(r.Status),
			string(r.DisasterType),
			strconv.Itoa(r.Severity),
			s.contactField(r.ContactName),
			s.contactField(r.PhoneNumber),
			r.Comments,
			strconv.FormatFloat(r.Latitude, 'f', -1, 64),
			strconv.FormatFloat(r.Longitude, 'f', -1, 64),
			r.Timestamp.Format("2006-01-02 15:04:05"),
			orNA(r.ImageURL),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *ExportService) contactField(field *string) string {
	if field == nil || *field == "" {
		return "N/A"
	}
	if s.cipher == nil {
		return *field
	}
	return s.cipher.DecryptOrSentinel(*field, constants.CorruptedFieldSentinel)
}

func orNA(v *string) string {
	if v == nil || *v == "" {
		return "N/A"
	}
	return *v
}
