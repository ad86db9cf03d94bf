package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"proposal_ai_server/config"
	"proposal_ai_server/internal/export"
	"proposal_ai_server/internal/orchestrator"
	"proposal_ai_server/internal/proposal"
	"proposal_ai_server/internal/utils"

	"github.com/spf13/cobra"
)

type generateOptions struct {
	input   string
	outDir  string
	format  string
	offline bool
}

func generateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a proposal from a notes file and write it to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadConfig(configDir)
			if err != nil {
				return err
			}
			orch, err := newOrchestrator(cfg, opts.offline)
			if err != nil {
				return err
			}
			exporter := export.New(export.NewHTTPFetcher(cfg.FetchTimeout()))
			path, err := runGenerate(cmd.Context(), orch, exporter, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Notes file, or - for stdin")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "Output directory")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "html", "Output format: html, pdf or json")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Use canned text and placeholder images instead of the AI service")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// runGenerate produces one proposal and returns the path of the written file.
func runGenerate(ctx context.Context, orch *orchestrator.Orchestrator, exporter *export.Exporter, opts generateOptions) (string, error) {
	switch opts.format {
	case "html", "pdf", "json":
	default:
		return "", fmt.Errorf("unknown format %q (want html, pdf or json)", opts.format)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	notes, err := readNotes(opts.input)
	if err != nil {
		return "", err
	}

	start := time.Now()
	doc, report, err := orch.Generate(ctx, string(notes))
	if err != nil {
		return "", err
	}
	fmt.Fprintf(os.Stderr, "Generated %q in %s: %d sections, %d/%d images\n",
		doc.Title, time.Since(start).Round(time.Millisecond), len(doc.Sections), report.ImagesGenerated, report.ImagesRequested)

	name, data, err := encode(ctx, exporter, doc, opts.format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(opts.outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func readNotes(input string) ([]byte, error) {
	if input == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}
	return data, nil
}

func encode(ctx context.Context, exporter *export.Exporter, doc *proposal.Document, format string) (string, []byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", nil, err
		}
		return utils.SanitizeFilename(doc.Title, ".json"), data, nil
	case "pdf":
		res, err := exporter.PDF(ctx, doc)
		if err != nil {
			return "", nil, err
		}
		return res.Filename, res.Data, nil
	default:
		res, err := exporter.ExportDocument(ctx, doc)
		if err != nil {
			return "", nil, err
		}
		return res.Filename, res.Data, nil
	}
}
