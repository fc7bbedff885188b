package normalize

import "fmt"

// SplitLine splits one CSV line into raw fields. Double-quoted fields may
// contain commas and escaped quotes (""). Quotes are stripped from the
// returned fields so null-token matching sees the bare value.
func SplitLine(line string) ([]string, error) {
	fields := make([]string, 0, 16)
	var field []byte
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes:
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					field = append(field, '"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field = append(field, c)
		case c == '"':
			inQuotes = true
		case c == ',':
			fields = append(fields, string(field))
			field = field[:0]
		default:
			field = append(field, c)
		}
	}

	if inQuotes {
		return nil, fmt.Errorf("unterminated quote in record")
	}

	fields = append(fields, string(field))
	return fields, nil
}

// DecodeLine splits and coerces a CSV line in one step.
func (s Schema) DecodeLine(line string) (Record, error) {
	fields, err := SplitLine(line)
	if err != nil {
		return nil, err
	}
	return s.Apply(fields)
}
