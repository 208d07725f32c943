package fortiparse

import "strings"

// Parse runs the sectioning automaton over lines using table.
//
// Each line is trimmed and classified, in this order, as a start marker (the
// first table prefix it begins with), the terminator ("end"), or content.
// Content is buffered only while a section is open; a terminator commits the
// buffer as one newline-joined block when it holds at least one line.
//
// Two behaviors are deliberate and must not be "fixed" here: a start marker
// seen while a section is open drops the open buffer without committing it,
// and a section still open when the input runs out is dropped as well. Both
// lose data silently.
func Parse(lines []string, table MarkerTable) *Document {
	doc := newDocument(table)

	var (
		capturing bool
		current   SectionKind
		buf       []string
	)
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if kind, ok := table.match(line); ok {
			capturing, current, buf = true, kind, buf[:0]
			continue
		}
		if line == EndToken {
			if capturing && len(buf) > 0 {
				doc.commit(current, strings.Join(buf, "\n"))
			}
			capturing, buf = false, buf[:0]
			continue
		}
		if capturing {
			buf = append(buf, line)
		}
	}
	return doc
}

func (t MarkerTable) match(line string) (SectionKind, bool) {
	for _, m := range t.Markers {
		if strings.HasPrefix(line, m.Prefix) {
			return m.Kind, true
		}
	}
	return "", false
}
