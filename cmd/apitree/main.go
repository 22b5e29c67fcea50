package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// errReported is returned by commands that already printed their failure.
var errReported = errors.New("failure reported")

func main() {
	var verbose int

	rootCmd := &cobra.Command{
		Use:           "apitree",
		Short:         "Extract the public API class tree of Java archives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "log verbosity (repeat for more)")

	rootCmd.AddCommand(newScanCmd(&verbose))
	rootCmd.AddCommand(newDumpCmd(&verbose))
	rootCmd.AddCommand(newRuntimeCmd(&verbose))

	if err := rootCmd.Execute(); err != nil {
		if err != errReported {
			fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		}
		os.Exit(1)
	}
}

// configureLogging sends log output to path, or to stderr when path is
// empty.
func configureLogging(verbosity int, path string) {
	if path == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &path)
}
