package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the webform banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	p := out.Profile
	lines := []struct {
		text, color string
	}{
		{" __      __      ___.    _____                    ", "#38bdf8"},
		{"/  \\    /  \\ ____\\_ |___/ ____\\___________  _____  ", "#60a5fa"},
		{"\\   \\/\\/   // __ \\| __ \\   __\\/  _ \\_  __ \\/     \\ ", "#818cf8"},
		{" \\        /\\  ___/| \\_\\ \\  | (  <_> )  | \\/  Y Y  \\", "#a78bfa"},
		{"  \\__/\\  /  \\___  >___  /__|  \\____/|__|  |__|_|  /", "#c084fc"},
		{"       \\/       \\/    \\/                        \\/ ", "#e879f9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
