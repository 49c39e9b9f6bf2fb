package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/livefir/neon"
)

// shutdownTimeout bounds how long serve waits for open connections on exit.
const shutdownTimeout = 5 * time.Second

// newServeMux routes the preview handler and the metrics endpoint. Files are
// read again for every client, so a reload picks up edits.
func (a *app) newServeMux(templatePath, dataFile string) *http.ServeMux {
	factory := func() (*neon.Component, error) {
		return a.mount(templatePath, dataFile)
	}

	mux := http.NewServeMux()
	mux.Handle("/", neon.Handler(factory, neon.WithLogger(a.logger), neon.WithMetrics(a.metrics)))
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(a.metrics.GetMetrics()); err != nil {
			a.logger.Error("failed to encode metrics", "error", err)
		}
	})
	return mux
}

func newServeCmd(a *app) *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:   "serve <template>",
		Short: "Serve a live preview of a template",
		Long: `Serve renders the template over HTTP. A WebSocket client receives the
markup, then one update per input message with the changes applied:

  {"action":"input","data":{"key":"name","value":"Bo"}}
  {"action":"set","data":{"key":"count","value":3}}

Runtime metrics are served as JSON at /metrics.

Examples:
  neon serve page.html --data data.yaml --addr :3000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fail fast on a broken template instead of on the first request.
			c, err := a.mount(args[0], dataFile)
			if err != nil {
				return err
			}
			c.Close()

			srv := &http.Server{
				Addr:              a.config.Addr,
				Handler:           a.newServeMux(args[0], dataFile),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("serving preview", "addr", srv.Addr, "template", args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s http://%s\n", headerStyle.Render("serving"), displayAddr(srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down: %w", err)
			}
			a.logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML data file")
	cmd.Flags().String("addr", "", "listen address (default :8080)")
	return cmd
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
