package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var transferCmd = remote(&cobra.Command{
	Use:   "transfer",
	Short: "Show global transfer statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := client.GetTransferInfo(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get transfer info: %w", err)
		}

		limit := func(n int64) string {
			if n <= 0 {
				return "unlimited"
			}
			return formatSpeed(n)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Connection: %s (%d DHT nodes)\n", info.ConnectionStatus, info.DHTNodes)
		fmt.Fprintf(w, "Download:   %s, %s this session, limit %s\n", formatSpeed(info.DlInfoSpeed), formatSize(info.DlInfoData), limit(info.DlRateLimit))
		fmt.Fprintf(w, "Upload:     %s, %s this session, limit %s\n", formatSpeed(info.UpInfoSpeed), formatSize(info.UpInfoData), limit(info.UpRateLimit))
		return nil
	},
}, "app")

func init() {
	rootCmd.AddCommand(transferCmd)
}
