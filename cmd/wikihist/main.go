package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nettrom/wikihist/internal/config"
	"github.com/nettrom/wikihist/internal/database"
	"github.com/nettrom/wikihist/internal/dataset"
	"github.com/nettrom/wikihist/internal/mediawiki"
	"github.com/nettrom/wikihist/internal/pipeline"
	"github.com/nettrom/wikihist/internal/report"
	"github.com/nettrom/wikihist/internal/resolver"
	"github.com/nettrom/wikihist/internal/revert"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "wikihist",
	Short:   "Resolve article quality assessments against page history",
	Long:    "wikihist reconciles training labels for article quality classifiers with the talk-page revision where each assessment was actually made.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(reportCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("wikihist", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/wikihist/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point at your history mirror and content API.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show history mirror status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("History mirror:")
		fmt.Printf("  Article pages: %d\n", stats.ArticlePages)
		fmt.Printf("  Talk pages: %d\n", stats.TalkPages)
		fmt.Printf("  Revisions: %d\n", stats.Revisions)
		return nil
	},
}

// --- clean command ---

var cleanCmd = &cobra.Command{
	Use:   "clean [input.tsv] [output.tsv]",
	Short: "Resolve assessment boundaries for a training set",
	Long: "Reads a training set of (class, pageid) rows, finds the talk-page revision " +
		"where each article's class was first assigned, and writes the cleaned set " +
		"with the matching article revision ids.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		source := mediawiki.NewClient(cfg.API.BaseURL, cfg.API.UserAgent, cfg.API.BatchSize)
		detector := revert.NewDetector(db, cfg.Resolver.RevertRadius)
		res := resolver.New(db, source, detector, cfg.Resolver.BatchSize, cfg.Resolver.MaxContentBytes)

		pipe := pipeline.New(res)
		result, err := pipe.Run(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Println("\nCleaning complete:")
		fmt.Printf("  Records: %d\n", result.Total)
		fmt.Printf("  Re-anchored: %d\n", result.Resolved)
		fmt.Printf("  Unchanged: %d\n", result.Unchanged)
		fmt.Printf("  Failed: %d\n", result.Failed)
		return nil
	},
}

// --- report command ---

var reportCmd = &cobra.Command{
	Use:   "report [cleaned.tsv] [output.html]",
	Short: "Render an HTML summary of a cleaned dataset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := dataset.ReadCleaned(args[0])
		if err != nil {
			return err
		}

		html, err := report.RenderHTML(report.Build(records))
		if err != nil {
			return err
		}

		if err := os.WriteFile(args[1], []byte(html), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Report written to %s (%d records)\n", args[1], len(records))
		return nil
	},
}

func openDB() (*database.DB, error) {
	dsn := cfg.GetDSN()
	if cfg.Database.Driver == "" || cfg.Database.Driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	return database.Open(cfg.Database.Driver, dsn)
}
