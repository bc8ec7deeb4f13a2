// Package export renders already-fetched registrations as print views, XLSX, and CSV.
// Nothing here touches storage; rows come out in the order they went in.
package export

import (
	"bytes"
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"EventRegistration/internal/models"
)

const (
	// LongTime is used by the detail view, XLSX, and CSV.
	LongTime = "Jan 2, 2006 3:04:05 PM"
	// ShortTime is used by the table print view.
	ShortTime = "02/01/2006 3:04 PM"

	SheetName = "Registrations"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Spreadsheet column headers. The XLSX sheet keeps the bilingual labels of the admin table.
var (
	xlsxHeaders = []string{
		"പേര് (Name)",
		"ഫോൺ നമ്പർ (Phone)",
		"ജോലി (Job)",
		"ജോലി സ്ഥലം (Job Location)",
		"വാസ സ്ഥലം (Address)",
		"സർക്കിൾ (Circle)",
		"Payment ID",
		"Submission Time",
	}
	csvHeaders = []string{
		"Name", "Phone", "Job", "Job Location", "Address", "Circle", "Payment ID", "Submission Time",
	}
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Filename is the download name for an export generated at t, e.g. registrations_2025-05-01.csv.
func Filename(ext string, t time.Time) string {
	return fmt.Sprintf("registrations_%s.%s", t.Format("2006-01-02"), ext)
}

func row(r models.Registration, loc *time.Location) []string {
	return []string{
		r.Name,
		r.Phone,
		r.Job,
		r.JobLocation,
		r.Address,
		r.Circle,
		r.PaymentID,
		r.SubmittedAt.In(loc).Format(LongTime),
	}
}

// XLSX writes a single-sheet workbook with one header row and one row per registration.
func XLSX(w io.Writer, regs []models.Registration, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setRow(f, 1, xlsxHeaders); err != nil {
		return err
	}
	for i, r := range regs {
		if err := setRow(f, i+2, row(r, loc)); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}

// CSV writes the English-header delimited export.
func CSV(w io.Writer, regs []models.Registration, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return err
	}
	for _, r := range regs {
		if err := cw.Write(row(r, loc)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type detailRow struct {
	Label string
	Value string
}

// screenshotURL only lets inline image data URLs through to the img tag.
func screenshotURL(s *string) template.URL {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	if !strings.HasPrefix(v, "data:image/") {
		return ""
	}
	return template.URL(v)
}

// DetailHTML renders the single-record print page. generatedAt also picks the display time zone.
func DetailHTML(w io.Writer, r models.Registration, generatedAt time.Time) error {
	loc := generatedAt.Location()
	data := struct {
		Reg         models.Registration
		GeneratedAt string
		Rows        []detailRow
		Screenshot  template.URL
	}{
		Reg:         r,
		GeneratedAt: generatedAt.Format(LongTime),
		Rows: []detailRow{
			{"പേര് (Name)", r.Name},
			{"ഫോൺ നമ്പർ (Phone)", r.Phone},
			{"ജോലി (Job)", r.Job},
			{"ജോലി സ്ഥലം (Location)", r.JobLocation},
			{"വാസ സ്ഥലം (Address)", r.Address},
			{"സർക്കിൾ (Circle)", r.Circle},
			{"Payment ID", r.PaymentID},
			{"Submitted At", r.SubmittedAt.In(loc).Format(LongTime)},
		},
		Screenshot: screenshotURL(r.PaymentScreenshot),
	}
	return render(w, "detail", data)
}

type tableRow struct {
	Index       int
	Name        string
	Phone       string
	Job         string
	JobLocation string
	Address     string
	Circle      string
	PaymentID   string
	Time        string
}

// TableHTML renders the landscape print table for a list of registrations.
func TableHTML(w io.Writer, regs []models.Registration, generatedAt time.Time) error {
	loc := generatedAt.Location()
	rows := make([]tableRow, len(regs))
	for i, r := range regs {
		rows[i] = tableRow{
			Index:       i + 1,
			Name:        r.Name,
			Phone:       r.Phone,
			Job:         r.Job,
			JobLocation: r.JobLocation,
			Address:     r.Address,
			Circle:      r.Circle,
			PaymentID:   r.PaymentID,
			Time:        r.SubmittedAt.In(loc).Format(ShortTime),
		}
	}
	data := struct {
		GeneratedAt string
		Rows        []tableRow
	}{generatedAt.Format(LongTime), rows}
	return render(w, "table", data)
}

// render executes into a buffer first so a template error never leaves half a page on w.
func render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
