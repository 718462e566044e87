package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/gaurav-prasanna/coursegrab/config"
	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/gaurav-prasanna/coursegrab/core/browser"
	"github.com/gaurav-prasanna/coursegrab/core/fetch"
	"github.com/gaurav-prasanna/coursegrab/core/output"
	"github.com/gaurav-prasanna/coursegrab/core/platform"
	"github.com/gaurav-prasanna/coursegrab/core/render"
	"github.com/gaurav-prasanna/coursegrab/traverse"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// Flag variables.
var (
	flagPlatform     string
	flagStart        int
	flagCount        int
	flagLessons      []int
	flagType         string
	flagQuizFormat   string
	flagOutputDir    string
	flagRemote       string
	flagHeadless     bool
	flagUserDataDir  string
	flagReport       string
	flagSkipExisting bool
)

// downloadCmd orchestrates the pipeline:
// snapshot → navigate → classify → fetch or capture → write.
var downloadCmd = &cobra.Command{
	Use:   "download [course-url]",
	Short: "Download the lessons of a course",
	Long: `Download walks the course shown in the browser tab lesson by lesson and saves
each lesson's video, attachments or quiz to the output directory.

Without a course URL the already open course tab of the --remote browser is
used, so --platform is then required.

Examples:
  coursegrab download https://www.linkedin.com/learning/learning-go --remote ws://127.0.0.1:9222/devtools/browser/<id>
  coursegrab download --platform linkedin --remote <ws-url> --start 5 --count 3 --type video
  coursegrab download https://school.example.com/courses/go/lectures/1 --lessons 3,5,7 --quiz-format md
  coursegrab download --platform teachable --remote <ws-url> --start 0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	addBrowserFlags(downloadCmd)

	// Selection flags.
	downloadCmd.Flags().IntVar(&flagStart, "start", 1, "First lesson to download (1-based); 0 downloads the current lesson only")
	downloadCmd.Flags().IntVar(&flagCount, "count", 0, "Number of lessons to download (0 = to the end of the course)")
	downloadCmd.Flags().IntSliceVar(&flagLessons, "lessons", nil, "Explicit lesson positions, e.g. 3,5,7 (overrides --start and --count, unless --start is 0)")
	downloadCmd.Flags().StringVar(&flagType, "type", "", "Resource type to download: all, video or quiz (linkedin only)")

	// Output flags.
	downloadCmd.Flags().StringVar(&flagQuizFormat, "quiz-format", "", "Quiz capture format: png, pdf, md or json (default: per platform)")
	downloadCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	downloadCmd.Flags().StringVar(&flagReport, "report", "", "Write a JSON run report to this file")
	downloadCmd.Flags().BoolVar(&flagSkipExisting, "skip_existing", false, "Skip lessons whose files are already in the output directory")
}

// addBrowserFlags registers the flags that locate the course tab.
func addBrowserFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPlatform, "platform", "", "Platform: "+strings.Join(platform.Names(), " or ")+" (default: detected from the course URL)")
	cmd.Flags().StringVar(&flagRemote, "remote", "", "DevTools websocket URL of a running, logged-in browser")
	cmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run a launched browser headless")
	cmd.Flags().StringVar(&flagUserDataDir, "user_data_dir", "", "Profile directory of a launched browser")
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyConfig(cmd, cfg)

	// --- Validate flags ---
	courseURL, err := courseArg(args)
	if err != nil {
		return err
	}
	if err := validateFlags(courseURL); err != nil {
		return err
	}

	p, err := selectPlatform(courseURL)
	if err != nil {
		return err
	}
	if flagType != "" && !p.SupportsFilter {
		return fmt.Errorf("--type is not supported for %s", p.Name)
	}
	filter, err := core.ParseTypeFilter(flagType)
	if err != nil {
		return err
	}

	quizRenderer, err := selectRenderer(flagQuizFormat, p)
	if err != nil {
		return err
	}
	timing, err := cfg.Timing.Resolve()
	if err != nil {
		return err
	}

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx := cmd.Context()
	tab, err := openTab(cmd, courseURL, p)
	if err != nil {
		return err
	}
	defer tab.Close()

	runner := &traverse.Runner{
		Browser:      tab,
		Platform:     p,
		Downloader:   fetch.New(),
		Writer:       writer,
		QuizRenderer: quizRenderer,
		Timing:       timing,
		SkipExisting: flagSkipExisting,
		Logger:       slog.Default().With("platform", p.Name),
		Out:          cmd.OutOrStdout(),
	}

	report, runErr := runner.Run(ctx, core.Selection{
		Start:     flagStart,
		Count:     flagCount,
		Positions: flagLessons,
		Filter:    filter,
	})
	if flagReport != "" && report != nil {
		if err := writeReport(flagReport, report); err != nil {
			slog.Error("writing report", "path", flagReport, "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	printSummary(cmd.OutOrStdout(), report)
	return nil
}

// printSummary renders the per-lesson outcomes and the tally.
func printSummary(w io.Writer, report *core.Report) {
	if len(report.Outcomes) == 0 {
		fmt.Fprintln(w, "No lessons selected")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Lesson", "Kind", "Status", "Detail"})
	for _, o := range report.Outcomes {
		detail := strings.Join(o.Files, "\n")
		if o.Status == core.StatusFailed {
			detail = o.Error
		}
		t.AppendRow(table.Row{o.Position, o.Name, o.Kind, o.Status, detail})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d downloaded, %d skipped, %d failed", report.Downloaded, report.Skipped, report.Failed)})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.Render()
}

// applyConfig fills flags the user did not set from the config file.
func applyConfig(cmd *cobra.Command, cfg config.Config) {
	setString := func(name string, dst *string, value string) {
		if value != "" && !cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	setString("platform", &flagPlatform, cfg.Platform)
	setString("remote", &flagRemote, cfg.RemoteURL)
	setString("user_data_dir", &flagUserDataDir, cfg.UserDataDir)
	if cmd.Flags().Lookup("output_dir") != nil {
		setString("output_dir", &flagOutputDir, cfg.OutputDir)
		setString("quiz-format", &flagQuizFormat, cfg.QuizFormat)
	}
	if cfg.Headless && !cmd.Flags().Changed("headless") {
		flagHeadless = true
	}
	if cfg.SkipExisting && cmd.Flags().Lookup("skip_existing") != nil && !cmd.Flags().Changed("skip_existing") {
		flagSkipExisting = true
	}
}

// courseArg validates the optional course URL argument.
func courseArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	parsed, err := url.Parse(args[0])
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://www.linkedin.com/learning/...)", args[0])
	}
	return args[0], nil
}

// validateFlags rejects flag combinations that cannot be satisfied.
func validateFlags(courseURL string) error {
	if courseURL == "" && flagRemote == "" {
		return fmt.Errorf("a course URL is required unless --remote points at a browser with the course open")
	}
	if courseURL == "" && flagPlatform == "" {
		return fmt.Errorf("--platform is required when no course URL is given")
	}
	if flagRemote != "" && (flagHeadless || flagUserDataDir != "") {
		return fmt.Errorf("--headless and --user_data_dir only apply to a launched browser, not --remote")
	}
	if flagStart < 0 {
		return fmt.Errorf("--start must be 0 or a lesson position (got %d)", flagStart)
	}
	if flagCount < 0 {
		return fmt.Errorf("--count must not be negative (got %d)", flagCount)
	}
	for _, p := range flagLessons {
		if p < 1 {
			return fmt.Errorf("--lessons positions start at 1 (got %d)", p)
		}
	}
	return nil
}

// selectPlatform honours --platform, else detects it from the course URL.
func selectPlatform(courseURL string) (*platform.Platform, error) {
	if flagPlatform != "" {
		return platform.Lookup(flagPlatform)
	}
	return platform.Detect(courseURL)
}

// selectRenderer creates the quiz Renderer for a format. A nil Renderer
// means quizzes are captured as PNG screenshots.
func selectRenderer(format string, p *platform.Platform) (core.Renderer, error) {
	if format == "" {
		format = p.QuizFormat
	}
	switch strings.ToLower(format) {
	case "png":
		return nil, nil
	case "pdf":
		return render.NewPDFRenderer(), nil
	case "md", "markdown":
		return render.NewMarkdownRenderer(), nil
	case "json":
		return render.NewJSONRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown quiz format %q (want png, pdf, md or json)", format)
	}
}

// openTab obtains the course tab: a new tab on the course URL when one is
// given, otherwise the open tab of the remote browser showing the platform.
func openTab(cmd *cobra.Command, courseURL string, p *platform.Platform) (*browser.Chrome, error) {
	opts := browser.Options{
		RemoteURL:   flagRemote,
		Headless:    flagHeadless,
		UserDataDir: flagUserDataDir,
	}
	if courseURL == "" {
		opts.AttachMatch = p.TabMatch
	}

	tab, err := browser.New(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}
	if err := tab.Open(cmd.Context(), courseURL); err != nil {
		tab.Close()
		return nil, err
	}
	slog.Debug("course tab ready", "url", courseURL, "remote", flagRemote != "")
	return tab, nil
}

func writeReport(path string, report *core.Report) error {
	data, err := render.RenderReport(report)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
