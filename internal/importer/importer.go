// Package importer provides CSV and Excel import for toolbar palettes.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// Device is an imported custom device for one size class.
type Device struct {
	DisplayUnits int
	Entry        model.PaletteEntry
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Devices  []Device
	Shelves  []model.ShelfItem
	Errors   []string
	Warnings []string
}

// Apply adds the imported entries to p and returns how many were added.
func (r ImportResult) Apply(p *model.Palette) int {
	n := 0
	for _, d := range r.Devices {
		if err := p.AddDevice(d.DisplayUnits, d.Entry); err == nil {
			n++
		}
	}
	for _, s := range r.Shelves {
		p.AddShelf(s)
		n++
	}
	return n
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name      int
	Size      int
	Color     int
	FontColor int
	ShelfType int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":      {"name", "device", "label", "description", "desc", "model", "item"},
	"size":      {"size", "units", "u", "height", "rack units", "ru"},
	"color":     {"color", "colour", "fill", "background"},
	"fontColor": {"font color", "font colour", "fontcolor", "text color", "text colour", "text"},
	"shelfType": {"shelf", "shelf type", "shelftype", "type"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (name, size, colour, font colour, shelf type) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Size: -1, Color: -1, FontColor: -1, ShelfType: -1}
	roles := map[string]*int{
		"name":      &mapping.Name,
		"size":      &mapping.Size,
		"color":     &mapping.Color,
		"fontColor": &mapping.FontColor,
		"shelfType": &mapping.ShelfType,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if idx := roles[role]; *idx == -1 {
						*idx = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Name: 0, Size: 1, Color: 2, FontColor: 3, ShelfType: 4}, false
	}
	return mapping, true
}

// parseSize accepts "2", "2U" or "2u".
func parseSize(s string) (int, error) {
	s = strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(s)), "U")
	return strconv.Atoi(strings.TrimSpace(s))
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// optionalColor validates a colour cell. Invalid colours are dropped with a warning.
func optionalColor(row []string, idx int, rowLabel, what string) (string, string) {
	c := getCell(row, idx)
	if c == "" {
		return "", ""
	}
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	if _, err := model.ParseHexColor(c); err != nil {
		return "", fmt.Sprintf("%s: Invalid %s '%s', using default", rowLabel, what, getCell(row, idx))
	}
	return strings.ToUpper(c), ""
}

// parseRow adds the device or shelf described by row to result.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, result *ImportResult) {
	name := getCell(row, mapping.Name)

	if typ := getCell(row, mapping.ShelfType); typ != "" {
		spec, ok := model.LookupShelf(model.ShelfType(typ))
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Unknown shelf type '%s'", rowLabel, typ))
			return
		}
		if name == "" {
			name = spec.DefaultName
		}
		result.Shelves = append(result.Shelves, model.ShelfItem{Name: name, ShelfType: spec.Type})
		return
	}

	if name == "" {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: Missing name", rowLabel))
		return
	}
	sizeStr := getCell(row, mapping.Size)
	if sizeStr == "" {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: Missing size value", rowLabel))
		return
	}
	size, err := parseSize(sizeStr)
	if err != nil || !model.ValidDisplayUnits(size) {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: Invalid size '%s', expected 1U to 4U", rowLabel, sizeStr))
		return
	}

	entry := model.PaletteEntry{Name: name}
	var warning string
	entry.Color, warning = optionalColor(row, mapping.Color, rowLabel, "colour")
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	entry.FontColor, warning = optionalColor(row, mapping.FontColor, rowLabel, "font colour")
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	result.Devices = append(result.Devices, Device{DisplayUnits: size, Entry: entry})
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var delimiterNames = map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}

// readCSV parses r with delimiter. A non-empty problem is the user-facing
// reason nothing could be read.
func readCSV(r io.Reader, delimiter rune) (records [][]string, problem string) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Sprintf("Cannot read CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, "File is empty"
	}
	return records, ""
}

// ImportCSV imports palette entries from a CSV file, detecting the
// delimiter and skipping a UTF-8 byte order mark.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if name, ok := delimiterNames[delimiter]; ok {
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	records, problem := readCSV(bytes.NewReader(data), delimiter)
	if problem != "" {
		return ImportResult{Errors: []string{problem}, Warnings: warnings}
	}
	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports palette entries from CSV text with a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	records, problem := readCSV(r, delimiter)
	if problem != "" {
		return ImportResult{Errors: []string{problem}}
	}
	return importFromRows(records, "Line", nil)
}

// ImportExcel imports palette entries from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Name == -1 {
			result.Errors = append(result.Errors, "Required column not found in header: Name")
			return result
		}
		if mapping.Size == -1 && mapping.ShelfType == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Size or Shelf")
			return result
		}
	} else if len(rows[0]) >= 2 {
		if _, err := parseSize(rows[0][1]); err != nil && getCell(rows[0], 4) == "" {
			// Unrecognised header; keep the positional mapping.
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		parseRow(row, mapping, fmt.Sprintf("%s %d", rowPrefix, i+1), &result)
	}

	return result
}
