package ui

import (
	"fmt"
	"io"

	"github.com/Makepad-fr/tada/internal/model"
)

// maxTextWidth truncates long todo text in list output.
const maxTextWidth = 80

// RenderList draws the todo panel: header counts, progress, then the items
// either flat or grouped by pending/done.
func RenderList(w io.Writer, todos []model.Todo, group bool) {
	t := Current()
	d, p := model.Stats(todos)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		C(t.Title, "Todos"),
		C(t.Success, t.SymDone), d,
		C(t.Pending, t.SymUnchecked), p,
		C(t.Accent, "Total"), len(todos),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, C(t.Muted, ProgressBar(d, d+p, 28)))
	lines = append(lines, "")
	if group {
		lines = append(lines, groupLines(todos)...)
	} else {
		lines = append(lines, flatLines(todos, 1)...)
	}
	lines = append(lines, "")
	lines = append(lines, C(t.Muted, "Tip: add with `tada add \"Buy milk\"`"))
	Panel(w, lines)
}

// flatLines numbers items from start; the numbers are the 1-based refs the
// CLI accepts.
func flatLines(todos []model.Todo, start int) []string {
	t := Current()
	if len(todos) == 0 {
		return []string{C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(todos))
	for i, it := range todos {
		idx := fmt.Sprintf("%2d.", start+i)
		box, color := t.BoxUnchecked, t.Muted
		if it.Completed {
			box, color = t.BoxChecked, t.Success
		}
		text := []rune(it.Text)
		if len(text) > maxTextWidth {
			text = append(text[:maxTextWidth-3], []rune("...")...)
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			C(dim, idx), C(color, box), string(text)))
	}
	return out
}

// groupLines keeps each item's position in the full list so refs printed
// here still resolve.
func groupLines(todos []model.Todo) []string {
	t := Current()
	var pend, done []string
	for i, it := range todos {
		line := flatLines([]model.Todo{it}, i+1)[0]
		if it.Completed {
			done = append(done, line)
		} else {
			pend = append(pend, line)
		}
	}
	none := C(t.Muted, "(none)")

	var lines []string
	lines = append(lines, C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, none)
	}
	lines = append(lines, pend...)
	lines = append(lines, "")
	lines = append(lines, C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, none)
	}
	lines = append(lines, done...)
	return lines
}
