package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var red = color.New(color.FgRed).SprintfFunc()

// newRootCmd builds the command tree. Flags are bound to v, which also reads
// LOWER_* environment variables and the config file.
func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "lower",
		Short:         "Lower modern script syntax to ES5",
		Long:          "Lower rewrites exponentiation, object spread and macro tagged templates into plain ES5.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v, cfgFile); err != nil {
				return err
			}
			if v.GetBool("no-color") {
				color.NoColor = true
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lower.yaml)")
	flags.String("macro-schema", "", "schema document passed to macros (path or s3://bucket/key)")
	flags.String("macro-tag", "", "dotted tag that marks a macro call site (default \"Relay.QL\")")
	flags.String("macro-plugin", "", "WASI module implementing the macro")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.Bool("no-color", false, "disable colored output")
	for _, name := range []string{"macro-schema", "macro-tag", "macro-plugin", "log-level", "log-file", "no-color"} {
		cobra.CheckErr(v.BindPFlag(name, flags.Lookup(name)))
	}

	root.AddCommand(
		newEmitCmd(v),
		newAstCmd(v),
		newServeCmd(v),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads cfgFile, or $HOME/.lower.yaml when it exists.
func loadConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("LOWER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return err
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		return nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(home)
	v.SetConfigName(".lower")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", red("%s", formatError(err)))
	os.Exit(1)
}
