package menu

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const clearSeq = "\x1b[H\x1b[2J"

// screenClearer returns a func that clears the terminal, or a no-op when out
// is not a terminal (pipes, files, tests) or clearing is disabled.
func screenClearer(out io.Writer, enabled bool) func() {
	f, ok := out.(*os.File)
	if !enabled || !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return func() {}
	}
	return func() { _, _ = io.WriteString(out, clearSeq) }
}
