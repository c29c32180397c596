package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ybennani/career-match/internal/courses"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Search free online courses for a skill",
	Long:  "Scrapes OpenClassrooms, FUN-MOOC and Google Digital Garage for free courses matching a skill, topped up from the static catalog.",
	RunE:  runCourses,
}

var (
	coursesSkill string
	coursesMax   int
)

func init() {
	coursesCmd.Flags().StringVarP(&coursesSkill, "skill", "s", "", "Skill to search courses for (required)")
	coursesCmd.Flags().IntVarP(&coursesMax, "max", "m", 5, "Maximum number of courses (1-20)")
	_ = coursesCmd.MarkFlagRequired("skill")

	rootCmd.AddCommand(coursesCmd)
}

func runCourses(_ *cobra.Command, _ []string) error {
	if coursesMax < 1 || coursesMax > 20 {
		return fmt.Errorf("max must be between 1 and 20")
	}

	results := courses.NewScraper().SearchCourses(context.Background(), coursesSkill, coursesMax)

	jsonBytes, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal courses: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "%s\n", jsonBytes)

	return nil
}
