package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// parseDelimited 解析分隔文本为记录。
// 引号为标准双引号时走 encoding/csv；其他引号字符用内置状态机处理
func parseDelimited(data []byte, sep, quote rune) ([][]string, error) {
	if sep == 0 {
		sep = ','
	}
	if quote == '"' {
		r := csv.NewReader(bytes.NewReader(data))
		r.Comma = sep
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		records, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parse delimited text: %w", err)
		}
		return records, nil
	}
	return parseQuoted(string(data), sep, quote), nil
}

// parseQuoted 支持自定义引号字符的简易解析。
// 引号内的分隔符与换行按字面处理；连续两个引号转义为一个
func parseQuoted(text string, sep, quote rune) [][]string {
	var (
		records  [][]string
		fields   []string
		field    strings.Builder
		inQuotes bool
	)
	runes := []rune(strings.ReplaceAll(text, "\r\n", "\n"))
	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}
	endRecord := func() {
		endField()
		records = append(records, fields)
		fields = nil
	}
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case quote != 0 && ch == quote:
			if inQuotes && i+1 < len(runes) && runes[i+1] == quote {
				field.WriteRune(quote)
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == sep && !inQuotes:
			endField()
		case ch == '\n' && !inQuotes:
			endRecord()
		default:
			field.WriteRune(ch)
		}
	}
	if field.Len() > 0 || len(fields) > 0 {
		endRecord()
	}
	return records
}
