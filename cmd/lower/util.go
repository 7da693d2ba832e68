package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/risor-io/lowering/errz"
	"github.com/risor-io/lowering/macro"
	"github.com/risor-io/lowering/parser"
	"github.com/risor-io/lowering/transform"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// formatError renders syntax errors and other structured errors with the
// offending source line.
func formatError(err error) string {
	if errs := parser.SyntaxErrors(err); len(errs) > 0 {
		var msgs []string
		for _, se := range errs {
			msgs = append(msgs, strings.TrimRight(se.FriendlyErrorMessage(), "\n"))
		}
		return strings.Join(msgs, "\n")
	}
	if se, ok := err.(*errz.StructuredError); ok {
		return strings.TrimRight(se.FriendlyErrorMessage(), "\n")
	}
	return err.Error()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// source is one unit of input.
type source struct {
	name string
	code string
}

// getSources determines the input. There are three possibilities:
//  1. --code <code>
//  2. --stdin (read code from stdin)
//  3. paths as args
func getSources(cmd *cobra.Command, args []string) ([]source, error) {
	var codeFlagSet, stdinFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	if f := cmd.Flags().Lookup("stdin"); f != nil && f.Changed {
		stdinFlagSet = true
	}
	pathSupplied := len(args) > 0
	if pathSupplied && (codeFlagSet || stdinFlagSet) {
		return nil, errors.New("multiple input sources specified")
	} else if codeFlagSet && stdinFlagSet {
		return nil, errors.New("multiple input sources specified")
	}
	switch {
	case stdinFlagSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return []source{{name: "<stdin>", code: string(data)}}, nil
	case codeFlagSet:
		code, _ := cmd.Flags().GetString("code")
		return []source{{name: "<code>", code: code}}, nil
	case pathSupplied:
		sources := make([]source, 0, len(args))
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			sources = append(sources, source{name: path, code: string(data)})
		}
		return sources, nil
	}
	return nil, errors.New("no input provided (pass files, --code or --stdin)")
}

// newLogger configures the global logger from the log-level and log-file
// settings. Logs go to stderr, as console output on a terminal and JSON
// otherwise. The returned function closes the log file, if any.
func newLogger(v *viper.Viper) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q", v.GetString("log-level"))
	}
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if path := v.GetString("log-file"); path != "" {
		path, err := homedir.Expand(path)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	} else if isTerminal(os.Stderr) {
		w = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: v.GetBool("no-color")}
	}
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger, closeFn, nil
}

// transformOptions builds the lowering options from the macro settings. When
// a macro plugin is configured it is compiled once and shared by all units;
// the returned function releases it.
func transformOptions(ctx context.Context, v *viper.Viper) (transform.Options, func(), error) {
	opts := transform.Options{
		MacroSchema: v.GetString("macro-schema"),
		MacroTag:    v.GetString("macro-tag"),
		Schemas:     macro.NewSchemaCache(),
	}
	plugin := v.GetString("macro-plugin")
	if plugin == "" {
		return opts, func() {}, nil
	}
	runner, err := macro.LoadWasmRunner(ctx, plugin)
	if err != nil {
		return opts, nil, err
	}
	opts.Expander = macro.NewExpander(runner)
	return opts, func() { runner.Close(ctx) }, nil
}

// setup prepares the logger and lowering options shared by the commands.
func setup(cmd *cobra.Command, v *viper.Viper) (context.Context, transform.Options, func(), error) {
	logger, closeLog, err := newLogger(v)
	if err != nil {
		return nil, transform.Options{}, nil, err
	}
	ctx := logger.WithContext(cmd.Context())
	opts, release, err := transformOptions(ctx, v)
	if err != nil {
		closeLog()
		return nil, transform.Options{}, nil, err
	}
	return ctx, opts, func() { release(); closeLog() }, nil
}
