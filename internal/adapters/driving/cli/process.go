package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentstack/docpipe/internal/core/domain"
)

var (
	processOwner   string
	processJobFile string
	processNoNLP   bool
	processNoIndex bool
	processNoStore bool
	processJSON    bool
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Process a document through the pipeline",
	Long: `Extracts text from a document, parses resume structure when the
content looks like one, enriches it with entities and key phrases,
chunks it for retrieval and persists the result.

With --job, the parsed resume is additionally scored against the job
description in the given file.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processOwner, "owner", "", "owner ID to associate with the document")
	processCmd.Flags().StringVar(&processJobFile, "job", "", "job description file to match the resume against")
	processCmd.Flags().BoolVar(&processNoNLP, "no-nlp", false, "skip entity and key phrase extraction")
	processCmd.Flags().BoolVar(&processNoIndex, "no-index", false, "skip chunking and embedding")
	processCmd.Flags().BoolVar(&processNoStore, "no-store", false, "skip persistence")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if processorService == nil {
		return errors.New("processor service not configured")
	}

	path := args[0]
	file := domain.FileRef{Name: filepath.Base(path), Path: path}

	opts := domain.ProcessOptions{
		EnableNLP:         !processNoNLP,
		EnableRetrieval:   !processNoIndex,
		EnablePersistence: !processNoStore,
	}
	if !processJSON {
		opts.Progress = func(stage string) { cmd.Printf("  %s\n", stage) }
	}

	ctx := context.Background()
	result, err := processorService.ProcessDocument(ctx, file, processOwner, opts)
	if err != nil {
		return fmt.Errorf("processing %s: %w", file.Name, err)
	}

	if processJSON {
		if err := outputJSON(cmd, result); err != nil {
			return err
		}
	} else {
		printProcessResult(cmd, result)
	}

	if processJobFile != "" {
		return matchProcessed(ctx, cmd, result)
	}
	return nil
}

// matchProcessed scores a freshly processed resume against the job
// description named by --job.
func matchProcessed(ctx context.Context, cmd *cobra.Command, result *domain.ProcessResult) error {
	if result.Resume == nil {
		return errors.New("document did not parse as a resume, nothing to match")
	}
	if matcherService == nil {
		return errors.New("matcher service not configured")
	}

	jobText, err := os.ReadFile(processJobFile)
	if err != nil {
		return fmt.Errorf("reading job description: %w", err)
	}

	match, err := matcherService.MatchResumeToJob(ctx, result.Resume.ID, string(jobText))
	if err != nil {
		return fmt.Errorf("matching resume: %w", err)
	}

	if processJSON {
		return outputJSON(cmd, match)
	}
	printMatchResult(cmd, match)
	return nil
}

func printProcessResult(cmd *cobra.Command, result *domain.ProcessResult) {
	cmd.Printf("Document %s processed in %s\n", result.ID, result.Elapsed.Round(time.Millisecond))
	cmd.Printf("  Words: %d  Chunks: %d  Confidence: %d%%\n",
		result.WordCount, len(result.Chunks), result.Confidence)

	if result.Resume != nil {
		r := result.Resume
		cmd.Printf("  Resume: %s\n", r.Contact.Name)
		cmd.Printf("    Skills: %d  Experience: %d  Education: %d\n",
			len(r.Skills), len(r.Experience), len(r.Education))
	}
	if len(result.KeyPhrases) > 0 {
		cmd.Printf("  Key phrases: %v\n", result.KeyPhrases)
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
