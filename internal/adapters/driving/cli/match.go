package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talentstack/docpipe/internal/core/domain"
)

var matchJSON bool

var matchCmd = &cobra.Command{
	Use:   "match [resume-id] [job-file]",
	Short: "Match a stored resume against a job description",
	Long: `Scores a previously processed resume against the job description in
the given file. The overall score weighs skill overlap, experience
span and education level.`,
	Args: cobra.ExactArgs(2),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matcherService == nil {
		return errors.New("matcher service not configured")
	}

	resumeID := args[0]
	jobText, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading job description: %w", err)
	}

	result, err := matcherService.MatchResumeToJob(context.Background(), resumeID, string(jobText))
	if err != nil {
		return fmt.Errorf("matching resume %s: %w", resumeID, err)
	}

	if matchJSON {
		return outputJSON(cmd, result)
	}
	printMatchResult(cmd, result)
	return nil
}

func printMatchResult(cmd *cobra.Command, result *domain.MatchResult) {
	cmd.Printf("Overall match: %.0f%%\n", result.OverallScore*100)
	cmd.Printf("  Skills:     %.0f%%\n", result.SkillScore*100)
	cmd.Printf("  Experience: %.0f%%\n", result.ExperienceScore*100)
	cmd.Printf("  Education:  %.0f%%\n", result.EducationScore*100)

	if len(result.MatchedSkills) > 0 {
		cmd.Printf("  Matched skills: %v\n", result.MatchedSkills)
	}
	if len(result.MissingSkills) > 0 {
		cmd.Printf("  Missing skills: %v\n", result.MissingSkills)
	}
}
