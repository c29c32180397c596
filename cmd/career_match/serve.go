package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ybennani/career-match/internal/config"
	"github.com/ybennani/career-match/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start the HTTP server exposing the job matching, CV analysis, ATS and course endpoints.`,
	RunE:  runServe,
}

var (
	servePort       int
	serveConfigFile string
	serveJobsCSV    string
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT env)")
	serveCmd.Flags().StringVar(&serveConfigFile, "config", "", "Path to JSON config file")
	serveCmd.Flags().StringVar(&serveJobsCSV, "jobs-csv", "", "Job dataset CSV replacing the embedded one")

	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	// Flags over config file over environment.
	cfg := config.FromEnv()
	if serveConfigFile != "" {
		fileCfg, err := config.LoadConfig(serveConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveJobsCSV != "" {
		cfg.JobsCSV = serveJobsCSV
	}
	if cfg.Port == 0 {
		cfg.Port = config.DefaultPort
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	srv, err := server.New(server.Config{
		Port:               cfg.Port,
		GeminiAPIKey:       cfg.GeminiAPIKey,
		ResumeParserAPIKey: cfg.ResumeParserAPIKey,
		ResumeParserURL:    cfg.ResumeParserURL,
		PdflatexPath:       cfg.PdflatexPath,
		LatexTimeout:       cfg.LatexTimeout(),
		JobsCSV:            cfg.JobsCSV,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
