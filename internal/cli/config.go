package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, string(buf))
			usdc, err := a.cfg.USDCAddress()
			if err != nil {
				a.logger.Warn().Err(err).Msg("stablecoin address unavailable")
				return nil
			}
			fmt.Fprintf(a.out, "# %s stablecoin: %s\n", a.cfg.Network, usdc.Hex())
			return nil
		},
	}
}
