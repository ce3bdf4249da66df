package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sprite-ai/ctrev/internal/autoreview"
	"github.com/sprite-ai/ctrev/internal/model"
	"github.com/sprite-ai/ctrev/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review FILE|-",
	Short: "Run the automatic reviewers on a document",
	Long: `Run every reviewer enabled in the config file against a document and
print the aggregated verdict. Useful for CI and pre-publish hooks.

Examples:
  ctrev review post.json                 # text report
  ctrev review -f json post.json         # machine-readable
  ctrev review -i post.json              # browse and triage in the TUI

Exit codes:
  0 - approved
  1 - needs revision
  2 - rejected`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
	reviewCmd.Flags().BoolP("interactive", "i", false, "triage the feedback in the terminal browser")
	reviewCmd.Flags().Int("concurrency", 0, "reviewers to run at once (overrides config)")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := openLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	root, err := readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	registry, err := cfg.Reviewers()
	if err != nil {
		return fmt.Errorf("building reviewers: %w", err)
	}

	concurrency := cfg.Review.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency, _ = cmd.Flags().GetInt("concurrency")
	}

	jobID := uuid.NewString()
	coordinator := autoreview.NewMemoryCoordinator(jobID)
	orch := autoreview.NewOrchestrator(registry, coordinator, autoreview.Options{
		Concurrency: concurrency,
		Logger:      logger,
	})
	run := orch.Execute(cmd.Context(), autoreview.Job{ID: jobID, ContentID: args[0]}, autoreview.StaticContent{Root: root})

	errOut := cmd.ErrOrStderr()
	switch run.State {
	case autoreview.RunSkipped:
		fmt.Fprintln(cmd.OutOrStdout(), "No reviewers enabled.")
		return nil
	case autoreview.RunAborted:
		return fmt.Errorf("review aborted: %w", run.Err)
	}
	for _, f := range run.Failures {
		fmt.Fprintf(errOut, "Warning: reviewer %s failed: %v\n", f.Reviewer, f.Err)
	}

	fb := run.Feedback
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		res, err := tui.Run(fb, root)
		if err != nil {
			return err
		}
		if res != nil {
			fb = res.Feedback()
			if notes := res.Notes(); notes != "" {
				fmt.Fprintln(errOut, notes)
			}
		}
	}

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		err = outputJSON(out, run, fb)
	case "markdown":
		err = outputMarkdown(out, fb)
	case "text":
		outputText(out, fb)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}

	if code := verdictExitCode(fb.Verdict); code != 0 {
		exit(code)
	}
	return nil
}

func verdictExitCode(v model.Verdict) int {
	switch v {
	case model.VerdictRejected:
		return 2
	case model.VerdictNeedsRevision:
		return 1
	default:
		return 0
	}
}

func outputText(w io.Writer, fb model.Feedback) {
	fmt.Fprintf(w, "Verdict: %s\n%s\n\n", fb.Verdict, fb.Summary)
	if len(fb.Entries) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}

	for _, e := range fb.Entries {
		icon := tui.SeverityStyle(e.Severity).Render(severityIcon(e.Severity))
		fmt.Fprintf(w, "  %s [%s] %s%s: %s\n", icon, e.Source.Name, e.Category, location(e.Location), e.Message)
		if e.Suggestion != "" {
			fmt.Fprintf(w, "     %s\n", e.Suggestion)
		}
	}
}

func outputJSON(w io.Writer, run *autoreview.Run, fb model.Feedback) error {
	type jsonOutput struct {
		JobID    string                `json:"job_id"`
		TaskID   string                `json:"task_id"`
		Verdict  model.Verdict         `json:"verdict"`
		Summary  string                `json:"summary"`
		Total    int                   `json:"total"`
		Entries  []model.FeedbackEntry `json:"entries"`
		Failures []string              `json:"failures,omitempty"`
	}

	out := jsonOutput{
		JobID:   run.JobID,
		TaskID:  run.TaskID,
		Verdict: fb.Verdict,
		Summary: fb.Summary,
		Total:   len(fb.Entries),
		Entries: fb.Entries,
	}
	if out.Entries == nil {
		out.Entries = []model.FeedbackEntry{}
	}
	for _, f := range run.Failures {
		out.Failures = append(out.Failures, fmt.Sprintf("%s: %v", f.Reviewer, f.Err))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputMarkdown(w io.Writer, fb model.Feedback) error {
	fmt.Fprintf(w, "## Auto-review Report\n\n")
	fmt.Fprintf(w, "**Verdict:** %s | **Entries:** %d\n\n", fb.Verdict, len(fb.Entries))
	fmt.Fprintf(w, "%s\n\n", fb.Summary)

	if len(fb.Entries) == 0 {
		return nil
	}

	fmt.Fprintln(w, "| Severity | Reviewer | Category | Location | Message |")
	fmt.Fprintln(w, "|----------|----------|----------|----------|---------|")
	for _, e := range fb.Entries {
		loc := strings.TrimPrefix(location(e.Location), " @ ")
		if loc == "" {
			loc = "-"
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n", e.Severity, e.Source.Name, e.Category, loc, markdownEscape(e.Message))
	}
	return nil
}

func markdownEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func location(loc *model.ContentLocationRange) string {
	if loc == nil || loc.IsWholeContent() {
		return ""
	}
	return fmt.Sprintf(" @ %d-%d", loc.Start, loc.End)
}

func severityIcon(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "!!"
	case model.SeverityMajor:
		return "! "
	case model.SeverityMinor:
		return "* "
	default:
		return "- "
	}
}
