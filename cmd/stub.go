package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ayushhealth/ayushbot/internal/stub"
)

const shutdownTimeout = 5 * time.Second

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Serve an offline diagnosis service from the bundled dataset",
	Long: "Serves /predict, /get_data and the chat endpoints from an embedded dataset so\n" +
		"the wizard can run without the real service. Point --base-url at it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.StubAddr = addr
		}
		quiet, _ := cmd.Flags().GetBool("quiet")

		ds, err := stub.DefaultDataset()
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		var opts []stub.Option
		if !quiet {
			opts = append(opts, stub.WithRequestLog())
		}
		srv := &http.Server{
			Addr:              cfg.StubAddr,
			Handler:           stub.New(ds, opts...).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			fmt.Fprintf(cmd.ErrOrStderr(), "diagnosis stub listening on %s (%d diseases, token %q)\n",
				cfg.StubAddr, len(ds.Profiles), stub.Token)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	stubCmd.Flags().String("addr", "", "Listen address (overrides AYUSH_STUB_ADDR)")
	stubCmd.Flags().Bool("quiet", false, "Do not log requests")
}
