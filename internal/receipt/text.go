package receipt

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

// Columns is the width of a 58mm thermal printer line.
const Columns = 32

// WriteText renders d as monospace text, Columns characters wide.
func WriteText(w io.Writer, d Document) error {
	bw := bufio.NewWriter(w)
	sep := strings.Repeat("-", Columns)

	for i, s := range d.Sections {
		if i > 0 {
			bw.WriteString(sep + "\n")
		}

		for _, l := range s.Lines {
			for _, text := range textLines(l) {
				bw.WriteString(text + "\n")
			}
		}
	}

	return bw.Flush()
}

func textLines(l Line) []string {
	if l.Value != "" {
		room := Columns - utf8.RuneCountInString(l.Value) - 1
		left := truncate(l.Text, max(room, 0))
		pad := Columns - utf8.RuneCountInString(left) - utf8.RuneCountInString(l.Value)

		return []string{left + strings.Repeat(" ", max(pad, 1)) + l.Value}
	}

	lines := wrap(l.Text, Columns)

	if l.Align == AlignCenter {
		for i, s := range lines {
			pad := (Columns - utf8.RuneCountInString(s)) / 2
			lines[i] = strings.Repeat(" ", max(pad, 0)) + s
		}
	}

	return lines
}

// wrap breaks text on spaces so no line is longer than width. Words longer
// than width are cut.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   string
	)

	for _, word := range words {
		for utf8.RuneCountInString(word) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}

			r := []rune(word)
			lines = append(lines, string(r[:width]))
			word = string(r[width:])
		}

		switch {
		case cur == "":
			cur = word
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}

	if cur != "" {
		lines = append(lines, cur)
	}

	return lines
}
