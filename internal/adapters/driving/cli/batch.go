package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentstack/docpipe/internal/core/domain"
)

var (
	batchOwner       string
	batchConcurrency int
	batchNoNLP       bool
	batchNoIndex     bool
	batchNoStore     bool
	batchJSON        bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [file|dir]...",
	Short: "Process multiple documents",
	Long: `Processes every given file, and every regular file inside given
directories, with bounded concurrency. Results keep input order; one
failing document fails the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchOwner, "owner", "", "owner ID to associate with the documents")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max documents in flight (0 uses the configured default)")
	batchCmd.Flags().BoolVar(&batchNoNLP, "no-nlp", false, "skip entity and key phrase extraction")
	batchCmd.Flags().BoolVar(&batchNoIndex, "no-index", false, "skip chunking and embedding")
	batchCmd.Flags().BoolVar(&batchNoStore, "no-store", false, "skip persistence")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if processorService == nil {
		return errors.New("processor service not configured")
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no files to process")
	}

	maxConcurrent := batchConcurrency
	if maxConcurrent <= 0 {
		maxConcurrent = cfg.Batch.MaxConcurrent
	}

	opts := domain.ProcessOptions{
		EnableNLP:         !batchNoNLP,
		EnableRetrieval:   !batchNoIndex,
		EnablePersistence: !batchNoStore,
		MaxConcurrent:     maxConcurrent,
	}

	start := time.Now()
	results, err := processorService.BatchProcess(context.Background(), files, batchOwner, opts)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if batchJSON {
		return outputJSON(cmd, results)
	}

	for i, result := range results {
		cmd.Printf("  [%d/%d] %s -> %s (%d chunks, confidence %d%%)\n",
			i+1, len(results), files[i].Name, result.ID, len(result.Chunks), result.Confidence)
	}
	cmd.Printf("Processed %d documents in %s\n", len(results), time.Since(start).Round(time.Millisecond))
	return nil
}

// collectFiles expands directory arguments one level deep into their
// regular files, keeping argument order.
func collectFiles(args []string) ([]domain.FileRef, error) {
	var files []domain.FileRef
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, domain.FileRef{Name: filepath.Base(arg), Path: arg})
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			files = append(files, domain.FileRef{
				Name: entry.Name(),
				Path: filepath.Join(arg, entry.Name()),
			})
		}
	}
	return files, nil
}
