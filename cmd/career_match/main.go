// Package main provides the entry point for the Career-Match HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "career_match",
	Short: "Career-Match Backend API",
	Long:  "Career-Match matches CVs and free-text queries against the Moroccan job market, renders ATS-friendly LaTeX resumes and reviews them with Gemini.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
