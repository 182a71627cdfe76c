package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nimbusdb/cstress/internal/control"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the remote-control server",
	Long: `server exposes list_workloads/info/fields/run/status/stop over a
line-oriented JSON transport, backed by a StressTestManager enforcing
single-run exclusivity.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9999, "listen port")
	serverCmd.Flags().Duration("heartbeat", 30*time.Second, "heartbeat cadence; 0 disables")
}

func runServer(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")
	heartbeat, _ := cmd.Flags().GetDuration("heartbeat")

	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	manager := control.NewManager(store)
	srv, err := control.NewServer(fmt.Sprintf(":%d", port), manager, heartbeat, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	logger.Info("remote-control server listening", "addr", srv.Addr())
	return srv.Serve()
}
