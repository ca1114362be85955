package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printf prints a line to w.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// infof prints a highlighted status line to w.
func infof(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.FgGreen).Fprintf(w, format+"\n", a...)
}

// warningf prints a warning to w.
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.FgYellow, color.Bold).Fprintf(w, "Warning: "+format+"\n", a...)
}
