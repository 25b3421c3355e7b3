package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/voice-ingest/internal/config"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.Load(strings.TrimSpace(*c.configFlag))
	})
	return c.config, c.configErr
}

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := &commandContext{configFlag: &configFlag}

	var once bool

	rootCmd := &cobra.Command{
		Use:           "voiceingest",
		Short:         "Transcribe dropped voice notes and deliver them to a webhook",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runAction(ctx, &once),
	}
	addOnceFlag(rootCmd, &once)
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default config.yaml if present)")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newCheckConfigCommand(ctx))
	rootCmd.AddCommand(newStateCommand(ctx))
	return rootCmd
}
