package core

// statusPayload builds the single-row report returned when an evaluation ends
// before scoring.
func statusPayload(title, column, message, winnerText string) ResultPayload {
	return ResultPayload{
		Title:      title,
		Columns:    []string{column},
		Rows:       []Row{{column: message}},
		WinnerText: winnerText,
	}
}

// prependWarning adds a leading warning column and a warning row ahead of the
// data rows. Data rows leave the warning cell empty.
func prependWarning(payload ResultPayload, column, warning string) ResultPayload {
	columns := make([]string, 0, len(payload.Columns)+1)
	columns = append(columns, column)
	columns = append(columns, payload.Columns...)

	warningRow := make(Row, len(columns))
	for _, col := range payload.Columns {
		warningRow[col] = ""
	}
	warningRow[column] = warning

	rows := make([]Row, 0, len(payload.Rows)+1)
	rows = append(rows, warningRow)
	rows = append(rows, payload.Rows...)

	payload.Columns = columns
	payload.Rows = rows
	payload.Warnings = append(payload.Warnings, warning)
	return payload
}

// bidderName returns the supplied name, or A, B, C… by position.
func bidderName(name string, index int) string {
	if name != "" {
		return name
	}
	return positionalName(index)
}

// positionalName maps 0 → A … 25 → Z, 26 → AA, 27 → AB and so on.
func positionalName(index int) string {
	name := ""
	for n := index; n >= 0; n = n/26 - 1 {
		name = string(rune('A'+n%26)) + name
	}
	return name
}

func yesNo(l *Labels, v bool) string {
	if v {
		return l.Yes
	}
	return l.No
}
