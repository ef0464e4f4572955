package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/everstacklabs/modelrank/internal/config"
	"github.com/everstacklabs/modelrank/internal/publish"
	"github.com/everstacklabs/modelrank/internal/stats"
	"github.com/everstacklabs/modelrank/internal/validate"
)

var (
	cfgFile string
	refresh bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "modelrank",
		Short: "Model stats ranking and catalog pipeline",
		Long:  "Fetches benchmark and registry catalogs, ranks and cross-matches models, and publishes catalog updates.",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&refresh, "refresh", false, "Bypass cached snapshots and refetch")

	rootCmd.AddCommand(
		rankCmd(),
		registryCmd(),
		matchCmd(),
		unionCmd(),
		selectedCmd(),
		publishCmd(),
		validateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func rankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rank",
		Short: "Fetch and rank benchmark models",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			return printJSON(svc.ArtificialAnalysis(cmd.Context()))
		},
	}
}

func registryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "registry",
		Short: "Fetch the flattened model registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			return printJSON(svc.ModelsDev(cmd.Context()))
		},
	}
}

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Cross-match benchmark models against the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			maxCandidates, _ := cmd.Flags().GetInt("max-candidates")
			return printJSON(svc.Mapping(cmd.Context(), maxCandidates))
		},
	}
	cmd.Flags().Int("max-candidates", 0, "Candidates kept per model (default: from config)")
	return cmd
}

func unionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "union",
		Short: "Merge matched pairs into union records",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			return printJSON(svc.Union(cmd.Context()))
		},
	}
}

func selectedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selected",
		Short: "Project union records into the consumer payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			id, _ := cmd.Flags().GetString("id")
			return printJSON(svc.Selected(cmd.Context(), id))
		},
	}
	cmd.Flags().String("id", "", "Filter to a single model id (bypasses the cache artifact)")
	return cmd
}

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write selected models into the catalog and open a PR",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			svc := stats.New(cfg, stats.WithForceRefresh(refresh))
			p := publish.New(cfg, svc)
			result, err := p.Run(cmd.Context(), dryRun)
			if err != nil {
				return err
			}

			if result.SkipReason != "" {
				slog.Info("publish skipped", "reason", result.SkipReason)
				return nil
			}
			fmt.Println(publish.RenderSummary(result.Written))
			if result.PRNumber > 0 {
				slog.Info("publish complete", "pr", result.PRNumber)
			}
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "Write catalog files locally but skip branch and PR")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the selected payload (CI check)",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			payload := svc.Selected(cmd.Context(), "")
			result := validate.ValidateSelected(payload.Models)
			fmt.Println(validate.FormatResult(result))

			if result.HasErrors() {
				os.Exit(1)
			}
			return nil
		},
	}
}

func newService() (*stats.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return stats.New(cfg, stats.WithForceRefresh(refresh)), nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	setupLogging(cfg.LogLevel)
	return cfg, nil
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
