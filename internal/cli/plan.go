package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sqlsplit/internal/files/writer"
	"github.com/vvka-141/sqlsplit/internal/splitter"
	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

type planFlagValues struct {
	json bool
}

var planFlags planFlagValues

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show which files a split would write, without writing anything",
	Long: `Plan splits the source in memory and lists every file it would write,
together with skipped segments and filename collisions.

With --json the plan is printed to stdout as a single JSON document.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().BoolVar(&planFlags.json, "json", false, "Print the plan as JSON")
}

// planOutput is the JSON form of a plan.
type planOutput struct {
	Source     string                `json:"source"`
	Date       string                `json:"date"`
	OutputDir  string                `json:"outputDir"`
	Summary    splitter.Summary      `json:"summary"`
	Files      []planFileOutput      `json:"files"`
	Skipped    []planSkipOutput      `json:"skipped"`
	Collisions []planCollisionOutput `json:"collisions"`
}

type planFileOutput struct {
	Filename string `json:"filename"`
	Part     int    `json:"part"`
	Name     string `json:"name"`
	Segment  int    `json:"segment"`
	Line     int    `json:"line"`
	Bytes    int    `json:"bytes"`
}

type planSkipOutput struct {
	Segment int    `json:"segment"`
	Line    int    `json:"line"`
	Message string `json:"message"`
	Preview string `json:"preview"`
}

type planCollisionOutput struct {
	Filename string `json:"filename"`
	Segment  int    `json:"segment"`
	Previous int    `json:"previous"`
	Resolved string `json:"resolved,omitempty"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd, getVerboseFlag(cmd))

	settings, err := resolveSettings(cmd, logger)
	if err != nil {
		return err
	}
	source, err := readSource(settings.Source)
	if err != nil {
		return err
	}
	plan, err := splitter.Split(string(source), settings.SplitOptions())
	if err != nil {
		return err
	}

	if planFlags.json {
		return printPlanJSON(cmd, plan, settings.OutputDir)
	}

	writer.LogWarnings(logger, plan)
	out := cmd.OutOrStdout()
	for _, f := range plan.Files {
		seg := plan.Segments[f.Segment]
		fmt.Fprintf(out, "%s  (segment %d, line %d, %d bytes)\n", f.Filename, seg.Index+1, seg.Line, len(f.Content))
	}
	s := plan.Summary()
	fmt.Fprintf(out, "\nWould write %d files from %d blocks into %s (%d skipped)\n",
		s.Files, s.Segments, settings.OutputDir, s.Skipped)
	return nil
}

func printPlanJSON(cmd *cobra.Command, plan *splitter.Plan, outputDir string) error {
	out := planOutput{
		Source:     plan.Source,
		Date:       plan.Date.Format(sqlsplit.DateLayout),
		OutputDir:  outputDir,
		Summary:    plan.Summary(),
		Files:      make([]planFileOutput, 0, len(plan.Files)),
		Skipped:    make([]planSkipOutput, 0, len(plan.Skipped)),
		Collisions: make([]planCollisionOutput, 0, len(plan.Collisions)),
	}
	for _, f := range plan.Files {
		out.Files = append(out.Files, planFileOutput{
			Filename: f.Filename,
			Part:     f.PartNumber,
			Name:     f.PartName,
			Segment:  f.Segment + 1,
			Line:     plan.Segments[f.Segment].Line,
			Bytes:    len(f.Content),
		})
	}
	for _, s := range plan.Skipped {
		out.Skipped = append(out.Skipped, planSkipOutput{
			Segment: s.Index + 1,
			Line:    s.Line,
			Message: s.Message,
			Preview: s.Preview,
		})
	}
	for _, c := range plan.Collisions {
		out.Collisions = append(out.Collisions, planCollisionOutput{
			Filename: c.Filename,
			Segment:  c.Segment + 1,
			Previous: c.Previous + 1,
			Resolved: c.Resolved,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
