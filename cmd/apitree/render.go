package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/apitree/apitree"
	"github.com/dhamidi/apitree/config"
	"github.com/dhamidi/apitree/scan"
)

type report struct {
	Environment   string         `json:"environment" yaml:"environment"`
	Archives      []string       `json:"archives" yaml:"archives"`
	Supplementary []string       `json:"supplementary,omitempty" yaml:"supplementary,omitempty"`
	Fingerprint   string         `json:"fingerprint" yaml:"fingerprint"`
	Types         []apitree.Node `json:"types" yaml:"types"`
}

func newReport(env *apitree.Environment, cfg *config.Config) report {
	return report{
		Environment:   env.ID,
		Archives:      cfg.Archives,
		Supplementary: cfg.Supplementary,
		Fingerprint:   fmt.Sprintf("%016x", env.Tree().Fingerprint()),
		Types:         env.Tree().Export(),
	}
}

func renderJSON(w io.Writer, r report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func renderYAML(w io.Writer, r report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// renderTree prints one type per line, nested types indented below their
// enclosing type.
func renderTree(w io.Writer, tree *apitree.ClassTree) {
	name := color.New(color.Bold)
	binary := color.New(color.Faint)
	tree.Walk(func(e *apitree.TypeElement, depth int) bool {
		fmt.Fprint(w, strings.Repeat("  ", depth))
		name.Fprint(w, e.CanonicalName())
		fmt.Fprint(w, " ")
		binary.Fprintln(w, e.BinaryName())
		return true
	})
	fmt.Fprintf(w, "\n%d types\n", tree.Len())
}

func renderMissing(w io.Writer, err *scan.ClosureError) {
	color.New(color.Bold, color.FgRed).Fprintf(w, "%d types of the public API of %s could not be located:\n",
		len(err.Missing), strings.Join(err.Archives, ", "))
	for _, desc := range err.Missing {
		fmt.Fprintf(w, "  %s\n", color.YellowString(desc))
	}
}
