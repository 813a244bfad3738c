package excel

// RawRowData represents a row of raw data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete file dataset
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Records returns the rows as positional records in header order. Cells a row does
// not carry come back empty.
func (d *ExcelData) Records() [][]string {
	records := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		record := make([]string, len(d.Headers))
		for j, h := range d.Headers {
			record[j] = row[h]
		}
		records[i] = record
	}
	return records
}
