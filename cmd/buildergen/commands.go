package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/origadmin/buildergen/internal/config"
	"github.com/origadmin/buildergen/internal/runner"
)

// options holds what every command needs before loading the configuration.
type options struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	opts := &options{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "buildergen [flags] [dir]",
		Short: config.Description,
		Long: `buildergen writes a builder for each selected struct of the Go package in dir
(default "."). Structs are selected with --type or with a //derive:builder
comment on the type. Slice fields tagged //builder:each="Name" get an extra
setter appending one element.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := targetDir(args)
			cfg, closeLog, err := opts.load(dir)
			if err != nil {
				return err
			}
			defer closeLog()

			res, err := runner.New(cfg).Generate(dir)
			if err != nil {
				return err
			}
			if cfg.DryRun {
				_, err = cmd.OutOrStdout().Write(res.Source)
				return err
			}
			return runner.Write(res)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "Configuration file (default <dir>/.buildergen.yaml)")
	flags.StringSliceP("type", "t", nil, "Struct names to generate builders for; repeatable or comma separated")
	flags.StringP("output", "o", "", "Output file name. Defaults to <first type>_builder.gen.go")
	flags.String("optional-pkg", "", "Import path of the Optional runtime package")
	flags.String("duplicate-attributes", "", `Handling of repeated //builder: directives: "error" or "first"`)
	flags.StringSlice("tags", nil, "Build tags used when loading the package")
	flags.Int("workers", 0, "Records generated concurrently; 0 uses GOMAXPROCS")
	flags.Bool("dry-run", false, "Print the generated code instead of writing it")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-file", "", "Path to a file where logs should be written. If empty, logs go to stderr.")
	bindFlags(opts.v, flags, map[string]string{
		"types":                "type",
		"output":               "output",
		"optional_package":     "optional-pkg",
		"duplicate_attributes": "duplicate-attributes",
		"tags":                 "tags",
		"workers":              "workers",
		"dry_run":              "dry-run",
		"debug":                "debug",
		"log_file":             "log-file",
	})

	cmd.AddCommand(newInspectCmd(opts), newVersionCmd())
	return cmd
}

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Print the analyzed builder shapes as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := targetDir(args)
			cfg, closeLog, err := opts.load(dir)
			if err != nil {
				return err
			}
			defer closeLog()

			sums, err := runner.New(cfg).Inspect(dir)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(sums); err != nil {
				return fmt.Errorf("failed to encode summary: %w", err)
			}
			return enc.Close()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			v := buildVersion(version, commit, date, builtBy, treeState)
			fmt.Fprintln(cmd.OutOrStdout(), v.String())
		},
	}
}

// load reads the configuration for dir and installs the logger.
func (o *options) load(dir string) (*config.Config, func(), error) {
	cfg, err := config.Load(o.v, dir, o.cfgFile)
	if err != nil {
		return nil, nil, err
	}
	closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("Configuration loaded", "dir", dir, "types", cfg.Types, "output", cfg.Output, "config", o.v.ConfigFileUsed())
	return cfg, closeLog, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

func targetDir(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
