package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/coursegrab/config"
	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/gaurav-prasanna/coursegrab/traverse"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	flagListJSON  bool
	flagListNames bool
)

var listCmd = &cobra.Command{
	Use:   "list [course-url]",
	Short: "Print the file name of every lesson without downloading",
	Long: `List reads the course outline of the tab and prints the base file name each
lesson would be saved under. Nothing is clicked except collapsed sections.

Examples:
  coursegrab list https://www.linkedin.com/learning/learning-go
  coursegrab list --platform teachable --remote <ws-url> --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	addBrowserFlags(listCmd)
	listCmd.Flags().BoolVar(&flagListJSON, "json", false, "Print the course outline as JSON")
	listCmd.Flags().BoolVar(&flagListNames, "names", false, "Print only the file names, one per line")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyConfig(cmd, cfg)

	courseURL, err := courseArg(args)
	if err != nil {
		return err
	}
	if courseURL == "" && flagRemote == "" {
		return fmt.Errorf("a course URL is required unless --remote points at a browser with the course open")
	}
	if courseURL == "" && flagPlatform == "" {
		return fmt.Errorf("--platform is required when no course URL is given")
	}
	p, err := selectPlatform(courseURL)
	if err != nil {
		return err
	}
	timing, err := cfg.Timing.Resolve()
	if err != nil {
		return err
	}

	tab, err := openTab(cmd, courseURL, p)
	if err != nil {
		return err
	}
	defer tab.Close()

	runner := &traverse.Runner{Browser: tab, Platform: p, Timing: timing}
	snap, _, err := runner.Snapshot(cmd.Context(), true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case flagListJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case flagListNames:
		for _, ref := range snap.Lessons {
			fmt.Fprintln(out, snap.NameFor(ref))
		}
	default:
		t := outlineTable(snap)
		t.SetOutputMirror(out)
		t.Render()
	}
	return nil
}

func outlineTable(snap *core.Snapshot) table.Writer {
	t := table.NewWriter()
	t.SetTitle(snap.Course.Label())
	t.AppendHeader(table.Row{"#", "Chapter", "Lesson", "Duration"})
	for _, ref := range snap.Lessons {
		chapter := ""
		if ref.Chapter < len(snap.Chapters) {
			chapter = fmt.Sprintf("%d. %s", ref.Chapter, snap.Chapters[ref.Chapter].Title)
		}
		t.AppendRow(table.Row{ref.Position, chapter, fmt.Sprintf("%d. %s", ref.Local, ref.Title), ref.Duration})
	}
	t.SetStyle(table.StyleRounded)
	return t
}
