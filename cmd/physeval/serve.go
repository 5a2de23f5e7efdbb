package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/phys-eval/api"
)

func newServeCmd(st *cliState) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluation HTTP API",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(st, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func runServe(st *cliState, addr string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("serve: missing config (internal error)")
	}

	stor, err := openStore(st.cfg)
	if err != nil {
		return err
	}
	defer stor.Close()

	run, err := buildRunner(st.cfg)
	if err != nil {
		return err
	}

	srv, err := api.NewServer(st.cfg, stor, run)
	if err != nil {
		return err
	}
	return srv.Run(addr)
}
