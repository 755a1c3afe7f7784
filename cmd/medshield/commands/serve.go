package commands

import (
	"github.com/spf13/cobra"

	"github.com/stake-plus/medshield/src/api"
	"github.com/stake-plus/medshield/src/logging"
)

func (c *CLI) newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the /scan relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			logger := logging.NewWithWriter(c.errOut, cfg.Logging.Level)
			srv, err := api.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	return cmd
}
