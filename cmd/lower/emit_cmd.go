package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/parser"
	"github.com/risor-io/lowering/transform"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newEmitCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit [files...]",
		Short: "Lower source files and print the result",
		Long: `Lower source files and print the result.

Each file is an independent compilation unit; multiple files are lowered in
parallel. Use --out-dir to write the results to files instead of stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(cmd, v, args)
		},
	}
	cmd.Flags().StringP("code", "c", "", "code to lower")
	cmd.Flags().Bool("stdin", false, "read code from stdin")
	cmd.Flags().StringP("out-dir", "o", "", "write lowered files to this directory")
	cmd.Flags().IntP("jobs", "j", 0, "maximum number of files lowered at once (0 means no limit)")
	return cmd
}

func runEmit(cmd *cobra.Command, v *viper.Viper, args []string) error {
	sources, err := getSources(cmd, args)
	if err != nil {
		return err
	}
	ctx, opts, done, err := setup(cmd, v)
	if err != nil {
		return err
	}
	defer done()

	files := make([]*ast.SourceFile, 0, len(sources))
	for _, src := range sources {
		file, err := parser.Parse(ctx, src.code, parser.WithFilename(src.name))
		if err != nil {
			return err
		}
		files = append(files, file)
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	host := &transform.StaticHost{Directory: dir, Opts: opts}
	jobs, _ := cmd.Flags().GetInt("jobs")
	results, transformErr := transform.TransformAll(ctx, host, files, jobs, transform.DefaultTransformers()...)

	outDir, _ := cmd.Flags().GetString("out-dir")
	out := cmd.OutOrStdout()
	for i, result := range results {
		if result == nil {
			continue
		}
		text := result.String() + "\n"
		switch {
		case outDir != "":
			path := filepath.Join(outDir, filepath.Base(sources[i].name))
			if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
				return err
			}
		case len(results) > 1:
			fmt.Fprintf(out, "// %s\n%s", sources[i].name, text)
		default:
			fmt.Fprint(out, text)
		}
	}
	return transformErr
}
