package main

import (
	"os"

	"github.com/risor-io/lowering/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run an editor session on stdin and stdout",
		Long: `Run an editor session on stdin and stdout.

The session reads one JSON request per line and writes Content-Length framed
responses and events. Logs never go to stdout; use --log-file to keep them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, opts, done, err := setup(cmd, v)
			if err != nil {
				return err
			}
			defer done()
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			s := server.New(server.Config{Directory: dir, Transform: opts})
			return s.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
