// Package delimited implements the quoted-CSV grammar the agency catalogs
// are published in. It is a single left-to-right scan with an explicit
// in-quotes flag; it carries no schema knowledge.
package delimited

import "strings"

const delimiter = ','

// Tokenize splits delimited text into rows of fields. A doubled quote
// inside a quoted field emits one literal quote, an unquoted delimiter
// ends a field, and a bare LF or CRLF ends a row. Quoted fields may span
// lines. Rows whose fields are all empty are dropped.
func Tokenize(text string) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder
	inQuotes := false

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		if !allEmpty(row) {
			rows = append(rows, row)
		}
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case delimiter:
			endField()
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
		case '\n':
			endRow()
		default:
			field.WriteByte(c)
		}
	}

	// A document without a trailing line break still ends its last row.
	if field.Len() > 0 || len(row) > 0 {
		endRow()
	}

	return rows
}

// ZipHeader pairs a header row with a data row into a record keyed by the
// lower-cased, trimmed header names. Missing trailing fields default to
// the empty string; extra trailing fields are ignored.
func ZipHeader(header, row []string) map[string]string {
	record := make(map[string]string, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if i < len(row) {
			record[key] = row[i]
		} else {
			record[key] = ""
		}
	}
	return record
}

// Render converts rows back into delimited text, quoting any field that
// contains a delimiter, quote, or line break. For rows Tokenize keeps,
// Tokenize(Render(rows)) == rows.
func Render(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		for i, f := range row {
			if i > 0 {
				b.WriteByte(delimiter)
			}
			b.WriteString(renderField(f))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderField(f string) string {
	if strings.ContainsAny(f, ",\"\r\n") {
		return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return f
}

func allEmpty(row []string) bool {
	for _, f := range row {
		if f != "" {
			return false
		}
	}
	return true
}
