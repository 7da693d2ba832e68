package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hokaccha/go-prettyjson"
	"github.com/risor-io/lowering/ast"
	"github.com/risor-io/lowering/parser"
	"github.com/risor-io/lowering/transform"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newAstCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the syntax tree of the input as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAst(cmd, v, args)
		},
	}
	cmd.Flags().StringP("code", "c", "", "code to parse")
	cmd.Flags().Bool("stdin", false, "read code from stdin")
	cmd.Flags().Bool("lowered", false, "print the tree after lowering")
	return cmd
}

func runAst(cmd *cobra.Command, v *viper.Viper, args []string) error {
	sources, err := getSources(cmd, args)
	if err != nil {
		return err
	}
	ctx, opts, done, err := setup(cmd, v)
	if err != nil {
		return err
	}
	defer done()

	src := sources[0]
	file, err := parser.Parse(ctx, src.code, parser.WithFilename(src.name))
	if err != nil {
		return err
	}
	if lowered, _ := cmd.Flags().GetBool("lowered"); lowered {
		dir, err := os.Getwd()
		if err != nil {
			return err
		}
		host := &transform.StaticHost{Directory: dir, Opts: opts}
		if file, err = transform.Transform(ctx, host, file, transform.DefaultTransformers()...); err != nil {
			return err
		}
	}

	var data []byte
	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok && isTerminal(f) && !v.GetBool("no-color") {
		data, err = prettyjson.Marshal(ast.Dump(file))
	} else {
		data, err = json.MarshalIndent(ast.Dump(file), "", "  ")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}
