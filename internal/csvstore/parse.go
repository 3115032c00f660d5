package csvstore

import "strings"

// Parse splits decoded CSV text into a header row and records.
//
// The legacy files this service ingests are not RFC 4180: rows are strictly
// line-delimited (no quoted newlines), stray quotes appear mid-field, and
// trailing columns are sometimes missing. encoding/csv rejects or mangles
// all of that, so splitting is done by hand:
//   - commas inside double quotes do not split
//   - one pair of surrounding quotes is stripped per cell
//   - cells are whitespace-trimmed
//   - short rows are padded with empty strings to the header length
//   - cells beyond the header length are dropped
func Parse(text string) ([]string, []Record) {
	text = strings.ReplaceAll(text, "\r", "")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, nil
	}

	headers := splitLine(lines[0])

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := splitLine(line)
		row := make(Record, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		records = append(records, row)
	}
	return headers, records
}

func splitLine(line string) []string {
	var cells []string
	var cur strings.Builder
	inQuotes := false
	for _, c := range line {
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteRune(c)
		case c == ',' && !inQuotes:
			cells = append(cells, cleanCell(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	cells = append(cells, cleanCell(cur.String()))
	return cells
}

func cleanCell(cell string) string {
	cell = strings.TrimSpace(cell)
	if len(cell) >= 2 && strings.HasPrefix(cell, `"`) && strings.HasSuffix(cell, `"`) {
		cell = cell[1 : len(cell)-1]
	}
	return strings.TrimSpace(cell)
}

// ResolveHeader returns the first alias present in headers.
// Header punctuation/spelling drifts between file versions, so columns are
// located by an ordered alias list instead of fixed names or offsets.
// If a file exposes two aliases at once the first one in the list wins.
func ResolveHeader(headers []string, aliases []string) (string, bool) {
	for _, a := range aliases {
		for _, h := range headers {
			if h == a {
				return a, true
			}
		}
	}
	return "", false
}
