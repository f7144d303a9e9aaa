package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/phpdave11/gofpdf"
)

// RenderPDF lays the report out as a flat list of summary values followed
// by one block per breakdown group.
func RenderPDF(r *Report) ([]byte, string, error) {
	summary, err := flatten(r.Summary)
	if err != nil {
		return nil, "", err
	}
	breakdown, err := toMap(r.Breakdown)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(strings.ToUpper(r.Type)+" REPORT", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, strings.ToUpper(r.Type)+" REPORT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated : "+r.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Period    : "+safe(r.Filters.DateFrom, "...")+" to "+safe(r.Filters.DateTo, "..."))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range summary {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}

	for _, name := range sortedKeys(breakdown) {
		entries, _ := breakdown[name].([]any)
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Breakdown: "+name)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 9)
		for _, e := range entries {
			lines, err := flatten(e)
			if err != nil {
				return nil, "", err
			}
			pdf.MultiCell(0, 5, strings.Join(lines, "   "), "B", "", false)
			pdf.Ln(1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("REPORT_%s_%s.pdf", r.Type, r.GeneratedAt.Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// flatten renders nested values as sorted "a.b: value" lines.
func flatten(v any) ([]string, error) {
	m, err := toMap(v)
	if err != nil {
		return nil, err
	}
	var lines []string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for _, k := range sortedKeys(m) {
			switch val := m[k].(type) {
			case map[string]any:
				walk(prefix+k+".", val)
			case float64:
				lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, k, formatNumber(val)))
			default:
				lines = append(lines, fmt.Sprintf("%s%s: %v", prefix, k, val))
			}
		}
	}
	walk("", m)
	return lines, nil
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
