package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/voice-ingest/internal/logger"
	"github.com/nguyentantai21042004/voice-ingest/internal/state"
)

func newStateCommand(cc *commandContext) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect the processed-file state",
	}
	stateCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List files already delivered",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}
			set := state.New(cfg.Paths.StateFile, logger.Discard()).Load()
			out := cmd.OutOrStdout()
			for _, name := range set.Sorted() {
				fmt.Fprintln(out, name)
			}
			fmt.Fprintf(out, "%d file(s) processed\n", set.Len())
			return nil
		},
	})
	return stateCmd
}
