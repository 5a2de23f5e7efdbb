package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/phys-eval/internal/config"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errPairsMismatched) {
			osExit(1)
			return
		}
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "physeval",
		Short:         "Evaluate physics answers against references",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")

	root.AddCommand(newRunCmd(st))
	root.AddCommand(newCompareCmd(st))
	root.AddCommand(newNormalizeCmd())
	root.AddCommand(newHistoryCmd(st))
	root.AddCommand(newServeCmd(st))
	return root
}

// loadState loads config into the CLI state, tolerating a missing file by
// falling back to defaults unless the path was set explicitly.
func loadState(st *cliState) error {
	if st == nil {
		return fmt.Errorf("physeval: nil state")
	}
	cfg, err := config.Load(st.configPath)
	if err != nil {
		if st.configPath == config.DefaultPath && errors.Is(err, os.ErrNotExist) {
			st.cfg = config.Default()
			return nil
		}
		return err
	}
	st.cfg = cfg
	return nil
}
