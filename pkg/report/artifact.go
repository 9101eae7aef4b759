package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultArtifactsDir is where attempt artifacts go unless configured.
const DefaultArtifactsDir = ".autojoin/artifacts"

// ArtifactWriter handles writing attempt artifacts
type ArtifactWriter struct {
	outputDir string
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	if outputDir == "" {
		outputDir = DefaultArtifactsDir
	}
	return &ArtifactWriter{
		outputDir: outputDir,
	}
}

// Dir returns the output directory.
func (w *ArtifactWriter) Dir() string {
	return w.outputDir
}

// WriteAll writes attempt.json and summary.md
func (w *ArtifactWriter) WriteAll(summary *AttemptSummary) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.WriteAttemptJSON(summary); err != nil {
		return fmt.Errorf("failed to write attempt JSON: %w", err)
	}

	if err := w.WriteSummaryMarkdown(summary); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}

	return nil
}

// WriteAttemptJSON writes the full attempt summary as JSON
func (w *ArtifactWriter) WriteAttemptJSON(summary *AttemptSummary) error {
	path := filepath.Join(w.outputDir, "attempt.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal attempt summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write attempt JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *AttemptSummary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# Autojoin Attempt Summary\n\n")
	md.WriteString(fmt.Sprintf("**Meeting:** %s\n\n", summary.MeetingURL))
	if summary.FinalURL != "" && summary.FinalURL != summary.MeetingURL {
		md.WriteString(fmt.Sprintf("**Final page:** %s\n\n", summary.FinalURL))
	}
	md.WriteString(fmt.Sprintf("**Display name:** %s\n\n", summary.DisplayName))
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", summary.EndTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration))
	if summary.SessionID != "" {
		md.WriteString(fmt.Sprintf("**Session:** %s\n\n", summary.SessionID))
	}

	md.WriteString("## Result\n\n")
	switch {
	case summary.Status == "failed":
		md.WriteString(fmt.Sprintf("❌ **Failed (%s):** %s\n\n", summary.Kind, summary.Reason))
	case summary.Joined:
		md.WriteString(fmt.Sprintf("✅ **Joined**, closed after %d heartbeat(s)\n\n", summary.Heartbeats))
	default:
		md.WriteString(fmt.Sprintf("**%s**\n\n", summary.Status))
	}

	if len(summary.Steps) > 0 {
		md.WriteString("## Steps\n\n")
		md.WriteString("| Step | Policy | Status | Note |\n")
		md.WriteString("|------|--------|--------|------|\n")
		for _, st := range summary.Steps {
			md.WriteString(fmt.Sprintf("| %s | %s | %s %s | %s |\n",
				st.Step, st.Policy, stepMark(st.Status), st.Status, escapeCell(st.Note())))
		}
		md.WriteString("\n")
	}

	if summary.LastScreenshot != "" || summary.LogPath != "" {
		md.WriteString("## Files\n\n")
		if summary.LastScreenshot != "" {
			md.WriteString(fmt.Sprintf("- **Last screenshot:** `%s`\n", summary.LastScreenshot))
		}
		if summary.LogPath != "" {
			md.WriteString(fmt.Sprintf("- **Log:** `%s`\n", summary.LogPath))
		}
	}

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
