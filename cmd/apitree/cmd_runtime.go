package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhamidi/apitree/classfile"
	"github.com/dhamidi/apitree/runtimelib"
)

func newRuntimeCmd(verbose *int) *cobra.Command {
	var javaHome string

	cmd := &cobra.Command{
		Use:   "runtime [class...]",
		Short: "Show the detected Java runtime library and which classes it provides",
		Long: `Runtime prints where the platform class listing was read from. Given class
names, either binary (java/util/Map$Entry) or dotted (java.util.Map), it
reports whether the runtime library provides each of them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(*verbose, "")
			ix, err := detectJDK(javaHome)
			if err != nil {
				return err
			}
			printRuntime(os.Stdout, ix, args)
			return nil
		},
	}

	cmd.Flags().StringVar(&javaHome, "java-home", "", "JDK to inspect (default: $JAVA_HOME or the java on the PATH)")

	return cmd
}

func printRuntime(w io.Writer, ix *runtimelib.Index, names []string) {
	fmt.Fprintf(w, "%s: %d classes\n", ix.Source(), ix.Len())
	for _, name := range names {
		binaryName := classfile.SourceToInternalName(name)
		if ix.Provides(binaryName) {
			fmt.Fprintf(w, "  %s %s\n", color.GreenString("provided"), binaryName)
		} else {
			fmt.Fprintf(w, "  %s %s\n", color.RedString("missing "), binaryName)
		}
	}
}
