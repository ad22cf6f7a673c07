package render

import (
	"bytes"
	"encoding/csv"
)

// csvSeparator separador de campos (compatible con Excel en locales con coma decimal).
const csvSeparator = ';'

func renderCSV(records []map[string]any) ([]byte, error) {
	if len(records) == 0 {
		return []byte{}, nil
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	writer.Comma = csvSeparator

	cols := columns(records[0])
	if err := writer.Write(cols); err != nil {
		return nil, err
	}
	for _, rec := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = cell(rec[c], "|")
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
