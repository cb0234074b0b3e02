package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nightjar-labs/triage/internal/bootstrap"
	"github.com/nightjar-labs/triage/internal/config"
	"github.com/nightjar-labs/triage/internal/engine"
	"github.com/nightjar-labs/triage/internal/logging"
	"github.com/nightjar-labs/triage/internal/server"
)

func main() {
	root := &cobra.Command{
		Use:           "triage",
		Short:         "Symptom-to-disease triage engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), predictCmd(), symptomsCmd(), diseasesCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "triage:", err)
		os.Exit(1)
	}
}

// setup loads configuration, initializes logging, and boots the model.
func setup() (config.Config, *bootstrap.Result, error) {
	cfg := config.Load()
	logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	res, err := bootstrap.Run(cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, res, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			gin.SetMode(gin.ReleaseMode)

			cfg, res, err := setup()
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              ":" + cfg.Server.Port,
				Handler:           server.New(res.Engine).Router(),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()
			slog.Info("listening", "addr", srv.Addr)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				slog.Info("shutting down", "signal", sig.String())
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}

func predictCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "predict [symptom ...]",
		Short: "Classify symptoms and print the prediction as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && text == "" {
				return fmt.Errorf("provide symptom arguments or --text")
			}

			_, res, err := setup()
			if err != nil {
				return err
			}

			pred, err := predictOne(res, args, text)
			if errors.Is(err, engine.ErrNoSymptomsMatched) {
				return fmt.Errorf("no symptoms matched; known symptoms include: %s",
					strings.Join(head(res.Engine.Vocabulary(), 10), ", "))
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, pred)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "free-text symptom description")
	return cmd
}

func predictOne(res *bootstrap.Result, args []string, text string) (any, error) {
	if len(args) > 0 {
		return res.Engine.Predict(args)
	}
	return res.Engine.PredictText(text)
}

func symptomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symptoms",
		Short: "List the symptoms the model recognizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := setup()
			if err != nil {
				return err
			}
			for _, s := range res.Engine.Vocabulary() {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func diseasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diseases",
		Short: "List the conditions the model can predict",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := setup()
			if err != nil {
				return err
			}
			for _, d := range res.Engine.Diseases() {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func head(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	return items
}
