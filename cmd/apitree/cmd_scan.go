package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/apitree/apitree"
	"github.com/dhamidi/apitree/config"
	"github.com/dhamidi/apitree/runtimelib"
	"github.com/dhamidi/apitree/scan"
)

var log = commonlog.GetLogger("apitree.cli")

// fallbackPackages are assumed to be provided by the platform when no JDK
// can be found.
var fallbackPackages = runtimelib.Packages{"java/", "javax/"}

type scanOptions struct {
	configPath    string
	supplementary []string
	javaHome      string
	noRuntime     bool
	format        string
	noColor       bool
}

func newScanCmd(verbose *int) *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan [archive...]",
		Short: "Build the public API tree of jars or class files",
		Long: `Scan reads the given archives, keeps their public and protected classes
and follows member signatures to every type the API refers to. Referenced
types must be found in the archives, in the supplementary archives (-s) or
in the Java runtime library. Missing types are listed and the command
exits with status 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Archives = args
			}
			if cmd.Flags().Changed("supplementary") {
				cfg.Supplementary = opts.supplementary
			}
			if opts.javaHome != "" {
				cfg.Runtime.JavaHome = opts.javaHome
			}
			if opts.noRuntime {
				cfg.Runtime.Disabled = true
			}
			if opts.format != "" {
				cfg.Output.Format = opts.format
			}
			if opts.noColor {
				cfg.Output.Color = false
			}
			if *verbose > 0 {
				cfg.Log.Verbosity = *verbose
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if len(cfg.Archives) == 0 {
				return fmt.Errorf("no archives to scan")
			}
			configureLogging(cfg.Log.Verbosity, cfg.Log.File)
			return runScan(cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: apitree.{toml,yaml,yml,json} in the working directory)")
	cmd.Flags().StringArrayVarP(&opts.supplementary, "supplementary", "s", nil, "archive used only to resolve referenced types (repeatable)")
	cmd.Flags().StringVar(&opts.javaHome, "java-home", "", "JDK whose runtime classes need not be supplied")
	cmd.Flags().BoolVar(&opts.noRuntime, "no-runtime", false, "require every referenced type to come from an archive")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (text, json, yaml)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault()
}

func runScan(cfg *config.Config) error {
	if !cfg.Output.Color {
		color.NoColor = true
	}

	lib, err := buildRuntime(cfg.Runtime)
	if err != nil {
		return err
	}

	archives := fileArchives(cfg.Archives)
	env := apitree.NewEnvironment()
	initializer := scan.New(archives, fileArchives(cfg.Supplementary), env, lib)
	if err := initializer.InitTree(); err != nil {
		var closure *scan.ClosureError
		if errors.As(err, &closure) {
			renderMissing(os.Stderr, closure)
			return errReported
		}
		return err
	}
	log.Infof("%s: %d types", env.ID, env.Tree().Len())

	switch cfg.Output.Format {
	case "json":
		return renderJSON(os.Stdout, newReport(env, cfg))
	case "yaml":
		return renderYAML(os.Stdout, newReport(env, cfg))
	default:
		renderTree(os.Stdout, env.Tree())
		return nil
	}
}

func fileArchives(paths []string) []scan.Archive {
	archives := make([]scan.Archive, len(paths))
	for i, p := range paths {
		archives[i] = scan.FileArchive(p)
	}
	return archives
}

// buildRuntime combines the configured package prefixes, boot class path
// jars and the detected JDK into one cached library.
func buildRuntime(rc config.RuntimeConfig) (runtimelib.Library, error) {
	if rc.Disabled {
		log.Info("runtime library disabled")
		return runtimelib.None, nil
	}

	var chain runtimelib.Chain
	if len(rc.Packages) > 0 {
		chain = append(chain, runtimelib.Packages(rc.Packages))
	}
	for _, jar := range rc.Jars {
		ix, err := runtimelib.LoadJar(jar)
		if err != nil {
			return nil, err
		}
		chain = append(chain, ix)
	}

	jdk, err := detectJDK(rc.JavaHome)
	if err != nil {
		log.Warningf("no runtime library: %s; assuming %v", err, fallbackPackages)
		chain = append(chain, fallbackPackages)
	} else {
		log.Infof("using runtime library %s", jdk)
		chain = append(chain, jdk)
	}

	if rc.CacheSize == 0 {
		return chain, nil
	}
	return runtimelib.Cached(chain, rc.CacheSize)
}

func detectJDK(javaHome string) (*runtimelib.Index, error) {
	if javaHome == "" {
		jh, err := runtimelib.FindJavaHome()
		if err != nil {
			return nil, err
		}
		javaHome = jh
	}
	return runtimelib.Detect(javaHome)
}
