// Package commands implements the medshield CLI.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/stake-plus/medshield/src/config"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// CLI wraps the cobra command tree.
type CLI struct {
	rootCmd    *cobra.Command
	configPath string
	out        io.Writer
	errOut     io.Writer
}

func New(out, errOut io.Writer) *CLI {
	rootCmd := &cobra.Command{
		Use:           "medshield",
		Short:         "Health-claim relay and page scanner",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	c := &CLI{rootCmd: rootCmd, out: out, errOut: errOut}
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML config file (default $MEDSHIELD_CONFIG)")

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newScanCmd())
	rootCmd.AddCommand(c.newVersionCmd())
	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}
