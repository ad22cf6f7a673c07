package render

import "strings"

func renderMarkdown(records []map[string]any) []byte {
	if len(records) == 0 {
		return []byte{}
	}
	cols := columns(records[0])
	var b strings.Builder

	b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(cols)) + "\n")
	for _, rec := range records {
		b.WriteString("|")
		for _, c := range cols {
			b.WriteString(" ")
			b.WriteString(escapeMarkdown(cell(rec[c], ", ")))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// escapeMarkdown evita que el contenido rompa la tabla.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
