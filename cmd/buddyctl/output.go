package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var keyLabel = color.New(color.FgCyan)

type printer struct {
	w io.Writer
}

func (p *printer) ok(msg string) {
	okLabel.Fprintf(p.w, "[OK] ")
	fmt.Fprintln(p.w, msg)
}

func (p *printer) fail(msg string) {
	errorLabel.Fprintf(p.w, "[REJECTED] ")
	fmt.Fprintln(p.w, msg)
}

func (p *printer) field(name string, value any) {
	keyLabel.Fprintf(p.w, "%-22s", name+":")
	fmt.Fprintln(p.w, value)
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// emit writes v as indented JSON under --json, otherwise calls human.
func emit(cmd *cobra.Command, v any, human func(p *printer)) error {
	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human(&printer{w: out})
	return nil
}
