package validation

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"brickvault/internal/core/domain"
)

// Issue codes produced by parts-list validation.
const (
	codeEmptyFile         = "EMPTY_FILE"
	codeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	codeCSVParseError     = "CSV_PARSE_ERROR"
	codeXMLParseError     = "XML_PARSE_ERROR"
	codeValidationError   = "VALIDATION_ERROR"
	codeUnknownColumn     = "UNKNOWN_COLUMN"
	codeDuplicatePart     = "DUPLICATE_PART"
)

// partEntry is one validated parts-list row.
type partEntry struct {
	PartNumber string
	Quantity   int
}

// ValidatePartsList parses a tabular parts-list file (CSV, TXT treated as
// CSV, or XML) and validates it row by row. Data errors never abort the
// parse: every failing row is reported so the caller can fix the whole file
// in one round trip.
func (v *Validator) ValidatePartsList(data []byte, filename string, mimeType string) domain.PartsListReport {
	var report domain.PartsListReport

	if len(bytes.TrimSpace(data)) == 0 {
		report.Errors = append(report.Errors, domain.ValidationIssue{
			Code:    codeEmptyFile,
			Message: "parts list file is empty",
		})
		return report
	}

	var parts []partEntry
	switch detectPartsFormat(data, filename, mimeType) {
	case "csv":
		parts = parseCSVParts(data, &report)
	case "xml":
		parts = parseXMLParts(data, &report)
	default:
		report.Errors = append(report.Errors, domain.ValidationIssue{
			Code:    codeUnsupportedFormat,
			Message: fmt.Sprintf("unsupported parts list format for %q, expected CSV, TXT or XML", filename),
		})
		return report
	}

	if len(parts) == 0 && len(report.Errors) == 0 {
		report.Errors = append(report.Errors, domain.ValidationIssue{
			Code:    codeEmptyFile,
			Message: "parts list contains no part rows",
		})
	}

	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		if seen[p.PartNumber] {
			report.Warnings = append(report.Warnings, domain.ValidationIssue{
				Code:    codeDuplicatePart,
				Message: fmt.Sprintf("part %q appears more than once", p.PartNumber),
				Field:   "partNumber",
			})
		}
		seen[p.PartNumber] = true
		report.TotalPieceCount += p.Quantity
	}

	report.Success = len(report.Errors) == 0
	if !report.Success {
		report.TotalPieceCount = 0
	}
	return report
}

func detectPartsFormat(data []byte, filename string, mimeType string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return "csv"
	case ".xml":
		return "xml"
	}

	base := mimeType
	if i := strings.Index(base, ";"); i >= 0 {
		base = base[:i]
	}
	switch strings.TrimSpace(strings.ToLower(base)) {
	case "text/csv", "application/csv", "text/plain":
		return "csv"
	case "application/xml", "text/xml":
		return "xml"
	}

	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("<")) {
		return "xml"
	}
	return ""
}

// Recognized CSV header names, normalized to lower case without separators.
var csvHeaderFields = map[string]string{
	"part":        "partNumber",
	"partnumber":  "partNumber",
	"partno":      "partNumber",
	"element":     "partNumber",
	"elementid":   "partNumber",
	"itemnumber":  "partNumber",
	"itemid":      "partNumber",
	"qty":         "quantity",
	"quantity":    "quantity",
	"count":       "quantity",
	"amount":      "quantity",
	"color":       "color",
	"colour":      "color",
	"description": "description",
	"name":        "description",
	"category":    "category",
}

func parseCSVParts(data []byte, report *domain.PartsListReport) []partEntry {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		report.Errors = append(report.Errors, domain.ValidationIssue{
			Code:    codeCSVParseError,
			Message: fmt.Sprintf("failed to parse CSV: %v", err),
		})
		return nil
	}
	if len(records) == 0 {
		return nil
	}

	columns, hasHeader := mapCSVHeader(records[0], report)
	rows := records
	firstLine := 1
	if hasHeader {
		rows = records[1:]
		firstLine = 2
	}

	var parts []partEntry
	for i, row := range rows {
		line := firstLine + i
		if isBlankRow(row) {
			continue
		}

		entry, issues := parseCSVRow(row, columns, line)
		if len(issues) > 0 {
			report.Errors = append(report.Errors, issues...)
			continue
		}
		parts = append(parts, entry)
	}
	return parts
}

// mapCSVHeader returns the column -> field mapping. When the first record
// does not look like a header the positional fallback (part number, quantity,
// color, description) applies.
func mapCSVHeader(first []string, report *domain.PartsListReport) (map[int]string, bool) {
	recognized := 0
	columns := make(map[int]string, len(first))
	for i, cell := range first {
		normalized := normalizeHeader(cell)
		if field, ok := csvHeaderFields[normalized]; ok {
			columns[i] = field
			recognized++
		}
	}

	if recognized == 0 {
		return map[int]string{0: "partNumber", 1: "quantity", 2: "color", 3: "description"}, false
	}

	for i, cell := range first {
		if _, ok := columns[i]; !ok {
			report.Warnings = append(report.Warnings, domain.ValidationIssue{
				Code:    codeUnknownColumn,
				Message: fmt.Sprintf("unrecognized column %q ignored", strings.TrimSpace(cell)),
				Line:    1,
			})
		}
	}
	return columns, true
}

func normalizeHeader(cell string) string {
	cell = strings.ToLower(strings.TrimSpace(cell))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(cell)
}

func parseCSVRow(row []string, columns map[int]string, line int) (partEntry, []domain.ValidationIssue) {
	var entry partEntry
	var issues []domain.ValidationIssue

	var quantityRaw string
	for i, cell := range row {
		switch columns[i] {
		case "partNumber":
			entry.PartNumber = strings.TrimSpace(cell)
		case "quantity":
			quantityRaw = strings.TrimSpace(cell)
		}
	}

	if entry.PartNumber == "" {
		issues = append(issues, domain.ValidationIssue{
			Code:    codeValidationError,
			Message: "part number is required",
			Line:    line,
			Field:   "partNumber",
		})
	}

	quantity, err := strconv.Atoi(quantityRaw)
	if err != nil || quantity <= 0 {
		issues = append(issues, domain.ValidationIssue{
			Code:    codeValidationError,
			Message: fmt.Sprintf("quantity must be a positive integer, got %q", quantityRaw),
			Line:    line,
			Field:   "quantity",
		})
	}
	entry.Quantity = quantity

	return entry, issues
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// XML element names accepted for a part entry and its fields. Matching is
// case-insensitive; the field aliases are ordered by priority so an entry
// carrying several of them resolves the same way every run.
var (
	xmlPartElements     = map[string]bool{"part": true, "item": true}
	xmlPartNumberFields = []string{"partnumber", "part", "element", "elementid", "itemnumber", "itemid"}
	xmlQuantityFields   = []string{"quantity", "qty", "count", "amount", "minqty"}
)

func parseXMLParts(data []byte, report *domain.PartsListReport) []partEntry {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var parts []partEntry
	index := 0
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Errors = append(report.Errors, domain.ValidationIssue{
				Code:    codeXMLParseError,
				Message: fmt.Sprintf("failed to parse XML: %v", err),
			})
			return nil
		}

		start, ok := token.(xml.StartElement)
		if !ok || !xmlPartElements[strings.ToLower(start.Name.Local)] {
			continue
		}

		index++
		fields, err := collectXMLFields(decoder, start)
		if err != nil {
			report.Errors = append(report.Errors, domain.ValidationIssue{
				Code:    codeXMLParseError,
				Message: fmt.Sprintf("failed to parse XML: %v", err),
			})
			return nil
		}

		entry, issues := buildXMLEntry(fields, index)
		if len(issues) > 0 {
			report.Errors = append(report.Errors, issues...)
			continue
		}
		parts = append(parts, entry)
	}
	return parts
}

// collectXMLFields reads the children of one part element into a name -> text
// map, names lowered.
func collectXMLFields(decoder *xml.Decoder, start xml.StartElement) (map[string]string, error) {
	fields := make(map[string]string)
	depth := 1
	current := ""
	var text strings.Builder

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				current = strings.ToLower(t.Name.Local)
				text.Reset()
			}
		case xml.CharData:
			if depth == 2 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 && current != "" {
				fields[current] = strings.TrimSpace(text.String())
				current = ""
			}
			depth--
		}
	}
	return fields, nil
}

func buildXMLEntry(fields map[string]string, index int) (partEntry, []domain.ValidationIssue) {
	var entry partEntry
	var issues []domain.ValidationIssue

	entry.PartNumber = firstXMLField(fields, xmlPartNumberFields)
	quantityRaw := firstXMLField(fields, xmlQuantityFields)

	if entry.PartNumber == "" {
		issues = append(issues, domain.ValidationIssue{
			Code:    codeValidationError,
			Message: fmt.Sprintf("part entry %d has no part number", index),
			Field:   "partNumber",
		})
	}

	quantity, err := strconv.Atoi(quantityRaw)
	if err != nil || quantity <= 0 {
		issues = append(issues, domain.ValidationIssue{
			Code:    codeValidationError,
			Message: fmt.Sprintf("part entry %d quantity must be a positive integer, got %q", index, quantityRaw),
			Field:   "quantity",
		})
	}
	entry.Quantity = quantity

	return entry, issues
}

// firstXMLField returns the first non-empty value among the aliases, in
// priority order.
func firstXMLField(fields map[string]string, names []string) string {
	for _, name := range names {
		if value := fields[name]; value != "" {
			return value
		}
	}
	return ""
}
