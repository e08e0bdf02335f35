package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"satori/common/config"
	"satori/common/connectors/judgeconn"
	"satori/judge"
	"satori/lib/logger"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "satori-judge",
	Short: "Judge client for Satori checking service",
	Long: `Judge takes test results from the checking service queue, checks them
with the configured command and reports results back.

The config file must contain Judge and CheckingConnection sections.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check tasks until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, true)
		if err != nil {
			return err
		}
		logger.InitLogger(cfg)
		defer logger.Sync()

		name := cfg.Judge.Name
		if name == "" {
			name = "judge-" + uuid.NewString()
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		workers := judge.NewWorkers(
			name,
			cfg.Judge.Threads,
			judgeconn.NewConnector(cfg.CheckingConnection),
			judge.NewCommandRunner(cfg.Judge.Command, cfg.Judge.WorkDir),
			cfg.Judge.PollInterval,
			cfg.Judge.MaxPollInterval,
		)
		logger.Info("Judge %s is connecting to %s with %d threads", name, cfg.CheckingConnection.Address, cfg.Judge.Threads)
		return judge.RunPool(ctx, workers)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print queue status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, false)
		if err != nil {
			return err
		}
		status, err := judgeconn.NewConnector(cfg.CheckingConnection).Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("getting status: %w", err)
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(status)
	},
}

func loadConfig(cmd *cobra.Command, needJudge bool) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := config.ReadConfig(path)
	if cfg.CheckingConnection == nil {
		return nil, errors.New("checking connection is not configured")
	}
	if needJudge && cfg.Judge == nil {
		return nil, errors.New("judge is not configured")
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "judge.yaml", "path to config file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
}
