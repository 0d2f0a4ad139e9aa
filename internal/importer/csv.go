package importer

import "strings"

// parseCSV splits the input into non-blank lines and feeds the resulting
// grid through the shared pipeline. Field splitting treats a double quote
// as a toggle, so commas inside quoted values do not split the field.
func parseCSV(data []byte) (*Result, error) {
	var grid [][]string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		grid = append(grid, splitLine(line))
	}
	return parseGrid(grid)
}

func splitLine(line string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, strings.TrimSpace(cur.String()))
	return out
}
