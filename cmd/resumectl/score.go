package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resume-scorer/internal/analyses"
	"resume-scorer/internal/extract"
	"resume-scorer/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Extract and score a resume file, printing the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := scoreOptions{
			extractor: mustString(cmd, "extractor"),
			content:   mustString(cmd, "content"),
			feedback:  mustString(cmd, "feedback"),
		}
		opts.fixed, _ = cmd.Flags().GetFloat64("fixed")
		opts.seed, _ = cmd.Flags().GetInt64("seed")
		return runScore(cmd, args[0], opts)
	},
}

type scoreOptions struct {
	extractor string
	content   string
	feedback  string
	fixed     float64
	seed      int64
}

type scoreOutput struct {
	File         string            `json:"file"`
	Score        int               `json:"score"`
	Grade        string            `json:"grade"`
	Band         scoring.Band      `json:"band"`
	Verdict      string            `json:"verdict"`
	Keywords     []string          `json:"keywords"`
	Strengths    []string          `json:"strengths"`
	Improvements []string          `json:"improvements"`
	Sections     scoring.Sections  `json:"sections"`
	Breakdown    scoring.Breakdown `json:"breakdown"`
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("extractor", "document", "text extractor: document or sample")
	scoreCmd.Flags().String("content", "random", "content component: random or fixed")
	scoreCmd.Flags().Float64("fixed", 25, "content value when --content=fixed")
	scoreCmd.Flags().Int64("seed", 0, "seed for the random content component (0 uses the clock)")
	scoreCmd.Flags().String("feedback", string(scoring.FeedbackStatic), "feedback mode: static or adaptive")
}

func runScore(cmd *cobra.Command, path string, opts scoreOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	up := analyses.Upload{
		FileName: name,
		MimeType: mimeFromExt(name),
		Size:     int64(len(data)),
		Data:     data,
	}
	if err := analyses.Validate(up); err != nil {
		return err
	}

	text, err := extract.New(opts.extractor).Extract(cmd.Context(), data, up.MimeType, name)
	if err != nil {
		return fmt.Errorf("extract %s: %w", name, err)
	}

	var content scoring.ContentScorer = scoring.NewRandomContent(opts.seed)
	if opts.content == "fixed" {
		content = scoring.FixedContent(opts.fixed)
	}
	res := scoring.New(content, scoring.FeedbackMode(opts.feedback)).Score(text, name)
	return writeJSON(cmd.OutOrStdout(), scoreOutput{
		File:         name,
		Score:        res.Score,
		Grade:        scoring.Grade(res.Score),
		Band:         scoring.BandFor(res.Score),
		Verdict:      scoring.Verdict(res.Score),
		Keywords:     res.Keywords,
		Strengths:    res.Strengths,
		Improvements: res.Improvements,
		Sections:     res.Sections,
		Breakdown:    res.Breakdown,
	})
}

func mimeFromExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return extract.MimePDF
	case ".doc":
		return extract.MimeDOC
	case ".docx":
		return extract.MimeDOCX
	default:
		return "application/octet-stream"
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
