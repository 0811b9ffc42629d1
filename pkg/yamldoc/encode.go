package yamldoc

import (
	"strconv"
	"strings"
)

const indentStep = 2

// Serialize renders the tree back to block-style YAML. Comments, blank-line
// spacing and quoting styles recorded on the tree are emitted exactly, and
// scalar values are never wrapped across lines regardless of length: the
// generated documents carry single-line `${{ ... }}` expressions that must
// stay on one line.
func Serialize(root *Mapping) []byte {
	var b strings.Builder
	writeMapping(&b, root, 0)
	return []byte(b.String())
}

func writeMapping(b *strings.Builder, m *Mapping, indent int) {
	for i, p := range m.pairs {
		writePair(b, p, indent, i == 0)
	}
}

func writePair(b *strings.Builder, p *Pair, indent int, first bool) {
	if p.SpaceBefore && !first {
		b.WriteByte('\n')
	}
	writeComment(b, p.CommentBefore, indent)
	b.WriteString(strings.Repeat(" ", indent))
	b.WriteString(renderKey(p.Key))
	b.WriteByte(':')
	writeValue(b, p.Value, indent, p.LineComment)
}

// writeValue emits everything after the colon of a "key:" line, including the
// trailing newline.
func writeValue(b *strings.Builder, value Node, indent int, lineComment string) {
	switch v := value.(type) {
	case *Mapping:
		if v.Len() == 0 {
			b.WriteString(" {}")
			writeLineComment(b, lineComment)
			b.WriteByte('\n')
			return
		}
		writeLineComment(b, lineComment)
		b.WriteByte('\n')
		writeMapping(b, v, indent+indentStep)
	case *Sequence:
		if len(v.Items) == 0 {
			b.WriteString(" []")
			writeLineComment(b, lineComment)
			b.WriteByte('\n')
			return
		}
		writeLineComment(b, lineComment)
		b.WriteByte('\n')
		writeSequence(b, v, indent+indentStep)
	case *Scalar:
		if v.Style == StyleLiteral || strings.Contains(v.Value, "\n") {
			writeLiteral(b, v.Value, indent+indentStep, lineComment)
			return
		}
		if v.Tag == "!!null" && v.Value == "" {
			writeLineComment(b, lineComment)
			b.WriteByte('\n')
			return
		}
		b.WriteByte(' ')
		b.WriteString(renderScalar(v))
		writeLineComment(b, lineComment)
		b.WriteByte('\n')
	case nil:
		writeLineComment(b, lineComment)
		b.WriteByte('\n')
	}
}

func writeSequence(b *strings.Builder, s *Sequence, indent int) {
	for _, item := range s.Items {
		writeSequenceItem(b, item, indent)
	}
}

func writeSequenceItem(b *strings.Builder, item Node, indent int) {
	pad := strings.Repeat(" ", indent)
	switch v := item.(type) {
	case *Scalar:
		b.WriteString(pad)
		b.WriteString("- ")
		b.WriteString(renderScalar(v))
		b.WriteByte('\n')
	case *Sequence:
		if len(v.Items) == 0 {
			b.WriteString(pad)
			b.WriteString("- []\n")
			return
		}
		b.WriteString(pad)
		b.WriteString("-\n")
		writeSequence(b, v, indent+indentStep)
	case *Mapping:
		if v.Len() == 0 {
			b.WriteString(pad)
			b.WriteString("- {}\n")
			return
		}
		// the first pair rides on the dash line
		first := v.pairs[0]
		if first.SpaceBefore {
			b.WriteByte('\n')
		}
		writeComment(b, first.CommentBefore, indent)
		b.WriteString(pad)
		b.WriteString("- ")
		b.WriteString(renderKey(first.Key))
		b.WriteByte(':')
		writeValue(b, first.Value, indent+indentStep, first.LineComment)
		for _, p := range v.pairs[1:] {
			writePair(b, p, indent+indentStep, false)
		}
	}
}

func writeLiteral(b *strings.Builder, value string, contentIndent int, lineComment string) {
	b.WriteString(" |")
	if !strings.HasSuffix(value, "\n") {
		b.WriteByte('-')
	}
	writeLineComment(b, lineComment)
	b.WriteByte('\n')
	pad := strings.Repeat(" ", contentIndent)
	for _, l := range strings.Split(strings.TrimSuffix(value, "\n"), "\n") {
		if l == "" {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(pad)
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

func writeComment(b *strings.Builder, comment string, indent int) {
	if comment == "" {
		return
	}
	pad := strings.Repeat(" ", indent)
	for _, l := range strings.Split(comment, "\n") {
		b.WriteString(pad)
		if l == "" {
			b.WriteString("#\n")
			continue
		}
		b.WriteString("# ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

func writeLineComment(b *strings.Builder, comment string) {
	if comment == "" {
		return
	}
	b.WriteString(" # ")
	b.WriteString(comment)
}

func renderKey(k string) string {
	if k == "" || strings.TrimSpace(k) != k || strings.ContainsAny(k, ":#'\"\n") {
		return "'" + strings.ReplaceAll(k, "'", "''") + "'"
	}
	return k
}

func renderScalar(s *Scalar) string {
	if s.Tag != "" && s.Tag != "!!str" {
		// bools, numbers and nulls keep their parsed textual form
		return s.Value
	}
	switch s.Style {
	case StyleSingle:
		return "'" + strings.ReplaceAll(s.Value, "'", "''") + "'"
	case StyleDouble:
		return strconv.Quote(s.Value)
	}
	if needsQuoting(s.Value) {
		if strings.ContainsAny(s.Value, "\n\t'") {
			return strconv.Quote(s.Value)
		}
		return "'" + s.Value + "'"
	}
	return s.Value
}

// needsQuoting reports whether a plain rendering of v would parse back as
// something other than the string v.
func needsQuoting(v string) bool {
	if v == "" {
		return true
	}
	if strings.TrimSpace(v) != v {
		return true
	}
	switch strings.ToLower(v) {
	case "true", "false", "yes", "no", "on", "off", "null", "~":
		return true
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return true
	}
	if strings.ContainsRune("!&*?|>%@`\"'#,[]{}:", rune(v[0])) {
		return true
	}
	if v[0] == '-' && (len(v) == 1 || v[1] == ' ') {
		return true
	}
	if strings.Contains(v, ": ") || strings.HasSuffix(v, ":") {
		return true
	}
	if strings.Contains(v, " #") {
		return true
	}
	return strings.ContainsAny(v, "\n\t")
}
