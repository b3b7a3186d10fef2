package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kvload/internal/dummy"
)

func newDummyCmd(a *app) *cobra.Command {
	dummyCmd := &cobra.Command{
		Use:   "dummy",
		Short: "Run an in-memory key/value target for trying kvload out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetInt("port")
			modeName, _ := cmd.Flags().GetString("mode")
			latency, _ := cmd.Flags().GetDuration("latency")
			errorRate, _ := cmd.Flags().GetFloat64("error-rate")

			mode, err := dummy.ParseMode(modeName)
			if err != nil {
				return err
			}

			server, err := dummy.Start(dummy.ServerConfig{
				Port:      port,
				Mode:      mode,
				Latency:   latency,
				ErrorRate: errorRate,
			}, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dummy server running on http://localhost:%d (mode %s)\n", port, mode)
			fmt.Fprintln(cmd.OutOrStdout(), "   Endpoints: POST /create, GET /read, DELETE /delete")

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := dummy.Shutdown(shutdownCtx, server); err != nil {
				a.logger.Warn("dummy shutdown", zap.Error(err))
			}
			return nil
		},
	}

	dummyCmd.Flags().IntP("port", "p", 8080, "Port to run dummy server on")
	dummyCmd.Flags().String("mode", string(dummy.ModeOK), "ok | strict | fail | flaky")
	dummyCmd.Flags().Duration("latency", 0, "added latency per request")
	dummyCmd.Flags().Float64("error-rate", 0.2, "failure probability in flaky mode")
	return dummyCmd
}
