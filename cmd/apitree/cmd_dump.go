package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/dhamidi/apitree/classfile"
)

func newDumpCmd(verbose *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file.class>",
		Short: "Print the class header, members and inner class records of a class file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(*verbose, "")
			cf, err := classfile.ParseFile(args[0])
			if err != nil {
				return fmt.Errorf("parse class file: %w", err)
			}
			dumpClass(os.Stdout, cf)
			return nil
		},
	}
	return cmd
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)
}

func dumpClass(w io.Writer, cf *classfile.ClassFile) {
	cp := cf.ConstantPool

	color.New(color.Bold).Fprintln(w, classfile.InternalToSourceName(cf.ClassName()))
	fmt.Fprintf(w, "  binary name: %s\n", cf.ClassName())
	fmt.Fprintf(w, "  version:     %d.%d\n", cf.MajorVersion, cf.MinorVersion)
	fmt.Fprintf(w, "  access:      %s\n", cf.AccessFlags)
	if super := cf.SuperClassName(); super != "" {
		fmt.Fprintf(w, "  super:       %s\n", super)
	}
	if ifaces := cf.InterfaceNames(); len(ifaces) > 0 {
		fmt.Fprintf(w, "  interfaces:  %s\n", strings.Join(ifaces, ", "))
	}
	if src := cf.SourceFile(); src != "" {
		fmt.Fprintf(w, "  source:      %s\n", src)
	}
	fmt.Fprintln(w)

	table := newTable(w)
	table.Header([]string{"Kind", "Access", "Name", "Descriptor", "Type"})
	for _, f := range cf.Fields {
		table.Append(memberRow("field", f.AccessFlags, f.Name(cp), f.Descriptor(cp)))
	}
	for _, m := range cf.Methods {
		table.Append(memberRow("method", m.AccessFlags, m.Name(cp), m.Descriptor(cp)))
	}
	table.Render()

	inner := cf.InnerClasses()
	if len(inner) == 0 {
		return
	}
	fmt.Fprintln(w)
	table = newTable(w)
	table.Header([]string{"Inner Class", "Outer Class", "Simple Name", "Access"})
	for _, ic := range inner {
		table.Append([]string{ic.Name, orDash(ic.OuterName), orDash(ic.InnerName), ic.AccessFlags.String()})
	}
	table.Render()
}

func memberRow(kind string, flags classfile.AccessFlags, name, desc string) []string {
	readable := "?"
	if t, err := classfile.ParseType(desc); err == nil {
		readable = t.String()
	}
	return []string{kind, flags.String(), name, desc, readable}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
