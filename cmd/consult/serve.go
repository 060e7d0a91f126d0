package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/saladlab/consult-tags/internal/certs"
	"github.com/saladlab/consult-tags/internal/config"
	"github.com/saladlab/consult-tags/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Long: `Serve the analysis API:

  GET  /health         liveness check
  GET  /sheets         every tab with its grid size
  POST /analyze        {"sheet_name": ...} analyze and write the summary tab
  POST /sheets-charts  {"sheet_name": ..., "chart_start_row": ...} add charts`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", server.DefaultConfig().Addr, "Listen address")
	cmd.Flags().Bool("tls", false, "Serve HTTPS with a self-signed certificate")
	cmd.Flags().String("cert-dir", "", "Certificate directory (default: $XDG_CONFIG_HOME/consult/certs)")
	cmd.Flags().StringSlice("tls-host", nil, "Extra host names the certificate covers")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))
	_ = viper.BindPFlag("server.cert_dir", cmd.Flags().Lookup("cert-dir"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	eng, err := initEngine(ctx)
	if err != nil {
		return err
	}
	if !eng.CanPublish() {
		slog.Warn("No spreadsheet writer configured; /analyze will not write summary tabs")
	}

	cfg := server.DefaultConfig()
	cfg.Addr = viper.GetString("server.addr")
	if viper.IsSet("server.write_timeout") {
		cfg.WriteTimeout = viper.GetDuration("server.write_timeout")
	}

	if viper.GetBool("server.tls") {
		certDir, err := certDirectory()
		if err != nil {
			return err
		}
		hosts, _ := cmd.Flags().GetStringSlice("tls-host")
		manager := certs.NewFileManager(certDir, hosts...)
		if cfg.TLS, err = manager.TLSConfig(); err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		slog.Info("Serving HTTPS with a self-signed certificate", "cert_dir", certDir, "hosts", manager.Hosts())
	}

	return server.New(eng, cfg, slog.Default()).ListenAndServe(ctx)
}

func certDirectory() (string, error) {
	if dir := viper.GetString("server.cert_dir"); dir != "" {
		return config.ExpandPath(dir), nil
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "consult", "certs"), nil
}
