package rainfall

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is a download format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
)

const sheetName = "Sheet1"

// ParseFormat maps the format query value; anything unknown is CSV.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON
	case FormatExcel:
		return FormatExcel
	default:
		return FormatCSV
	}
}

// ContentType is the MIME type of the export.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// Filename is the attachment name of the export.
func (f Format) Filename() string {
	switch f {
	case FormatJSON:
		return "dados_precipitacao.json"
	case FormatExcel:
		return "dados_precipitacao.xlsx"
	default:
		return "dados_precipitacao.csv"
	}
}

// Export writes records to w in format f.
func Export(w io.Writer, f Format, records []Record) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatExcel:
		return WriteExcel(w, records)
	default:
		return WriteCSV(w, records)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes a UTF-8 CSV with a byte order mark so spreadsheet tools
// detect the encoding.
func WriteCSV(w io.Writer, records []Record) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.UF, r.Municipality, formatFloat(r.Lat), formatFloat(r.Lon), formatFloat(r.Precipitation), r.Date}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes records as a JSON array.
func WriteJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// WriteExcel writes an xlsx workbook with a header row and one row per
// record.
func WriteExcel(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()
	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.UF, r.Municipality, r.Lat, r.Lon, r.Precipitation, r.Date}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
