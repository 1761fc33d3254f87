package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/dbf"
	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/payroll"
	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/server"
	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/tabular"
	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/updater"
	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/watcher"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information
	Version   = "1.0.0"
	BuildDate = "unknown"

	// convert/watch flags
	workshopID string
	year       int
	month      int
	listNo     string

	// serve flags
	serveAddr  string
	serveWatch bool

	// watch/serve debounce
	debounceString string

	// Color definitions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow)
)

// Exit codes per the command-line surface's error model.
const (
	exitOK            = 0
	exitArgumentError = 1
	exitInputNotFound = 2
	exitConversionErr = 3
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sso-payroll-dbf",
		Short: "📊 Payroll month-end converter for the SSO dBase III feed",
		Long: `
╔═══════════════════════════════════════════════════════════╗
║           🎯 SSO Payroll DBF - Month-End Converter         ║
║  Converts SAP payroll exports into DSKKAR00/DSKWOR00 DBF   ║
║            files, Iran System encoded for the SSO          ║
╚═══════════════════════════════════════════════════════════╝

Reads tab-delimited SAP header/workers exports and writes the two
dBase III files the SSO month-end submission expects.
`,
		Version: Version,
	}

	convertCmd := &cobra.Command{
		Use:   "convert <header-input> <workers-input> <output-dir>",
		Short: "🔄 Convert SAP exports to DSKKAR00/DSKWOR00 DBF files",
		Args:  cobra.ExactArgs(3),
		Run:   runConvert,
	}
	convertCmd.Flags().StringVar(&workshopID, "workshop-id", "", "Workshop ID (used when the input omits DSK_ID)")
	convertCmd.Flags().IntVar(&year, "year", 0, "Persian year (used when the input omits DSK_YY)")
	convertCmd.Flags().IntVar(&month, "month", 0, "Persian month (used when the input omits DSK_MM)")
	convertCmd.Flags().StringVar(&listNo, "list-no", "", "List number (used when the input omits DSK_LISTNO)")

	watchCmd := &cobra.Command{
		Use:   "watch <header-input> <workers-input> <output-dir>",
		Short: "👀 Watch SAP exports and reconvert on change",
		Args:  cobra.ExactArgs(3),
		Run:   runWatch,
	}
	watchCmd.Flags().StringVar(&workshopID, "workshop-id", "", "Workshop ID (used when the input omits DSK_ID)")
	watchCmd.Flags().IntVar(&year, "year", 0, "Persian year (used when the input omits DSK_YY)")
	watchCmd.Flags().IntVar(&month, "month", 0, "Persian month (used when the input omits DSK_MM)")
	watchCmd.Flags().StringVar(&listNo, "list-no", "", "List number (used when the input omits DSK_LISTNO)")
	watchCmd.Flags().StringVarP(&debounceString, "debounce", "d", "1s", "Debounce duration (e.g., 0s, 500ms, 1s, 5s)")

	serveCmd := &cobra.Command{
		Use:   "serve <output-dir>",
		Short: "🌐 Preview the latest conversion over REST and WebSocket",
		Args:  cobra.ExactArgs(1),
		Run:   runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Server address (e.g., :8080)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Watch the output directory and push live updates")
	serveCmd.Flags().StringVarP(&debounceString, "debounce", "d", "0s", "Debounce duration for --watch")

	infoCmd := &cobra.Command{
		Use:   "info <dbf-file>",
		Short: "ℹ️  Show the header and field layout of a DBF file",
		Args:  cobra.ExactArgs(1),
		Run:   runInfo,
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "🚀 Update sso-payroll-dbf to the latest version",
		Long: `🚀 Update sso-payroll-dbf to the latest version from GitHub Actions artifacts.

Downloads the latest build artifact for your platform and replaces the current executable.
You can optionally specify a branch to download from (default: main).

Examples:
  sso-payroll-dbf update                  # Update from main branch
  sso-payroll-dbf update --branch develop  # Update from develop branch

Note: Set GITHUB_TOKEN environment variable for higher API rate limits.`,
		Run: runUpdate,
	}
	updateCmd.Flags().StringP("branch", "b", "main", "Branch to download from")

	rootCmd.AddCommand(convertCmd, watchCmd, serveCmd, infoCmd, updateCmd)

	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(exitArgumentError)
	}
}

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
}

// convertOne runs one conversion: reads both SAP exports, projects them
// against cfg, and writes the two DBF files to outputDir. It returns an
// exit code ready to pass to os.Exit, already having printed the
// operator-facing error.
func convertOne(headerInput, workersInput, outputDir string, cfg payroll.Config) int {
	infoColor.Printf("🔍 Reading header export: %s\n", filepath.Base(headerInput))
	headerRow, err := tabular.ReadHeaderRow(headerInput)
	if err != nil {
		return reportReadError(headerInput, err)
	}

	infoColor.Printf("🔍 Reading workers export: %s\n", filepath.Base(workersInput))
	workerRows, err := tabular.ReadRows(workersInput)
	if err != nil {
		return reportReadError(workersInput, err)
	}

	infoColor.Printf("📊 Found %d worker record(s)\n", len(workerRows))

	// Values the header export carries take precedence over the flags.
	if v, ok := headerRow["DSK_ID"].StringValue(); ok {
		cfg.WorkshopID = v
	}
	if v, ok := headerRow["DSK_YY"].Int64(); ok {
		cfg.Year = int(v)
	}
	if v, ok := headerRow["DSK_MM"].Int64(); ok {
		cfg.Month = int(v)
	}
	if v, ok := headerRow["DSK_LISTNO"].StringValue(); ok {
		cfg.ListNo = v
	}

	projectedWorkers := payroll.ProjectWorkers(workerRows, cfg)
	projectedHeader := payroll.ProjectHeader(headerRow, projectedWorkers, cfg)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		errorColor.Printf("❌ Failed to create output directory: %v\n", err)
		return exitConversionErr
	}

	headerPath := filepath.Join(outputDir, "DSKKAR00.DBF")
	workersPath := filepath.Join(outputDir, "DSKWOR00.DBF")

	if err := dbf.WriteFile(headerPath, dbf.HeaderSchema, []map[string]dbf.Cell{projectedHeader}); err != nil {
		errorColor.Printf("❌ Failed to write %s: %v\n", filepath.Base(headerPath), err)
		return exitConversionErr
	}
	if err := dbf.WriteFile(workersPath, dbf.WorkersSchema, projectedWorkers); err != nil {
		errorColor.Printf("❌ Failed to write %s: %v\n", filepath.Base(workersPath), err)
		return exitConversionErr
	}

	successColor.Printf("✅ Wrote %s and %s\n", filepath.Base(headerPath), filepath.Base(workersPath))
	return exitOK
}

func reportReadError(path string, err error) int {
	if errors.Is(err, tabular.ErrInputNotFound) {
		errorColor.Printf("❌ Input not found: %s\n", path)
		return exitInputNotFound
	}
	if errors.Is(err, tabular.ErrDecoding) {
		errorColor.Printf("❌ Could not decode %s under any known encoding\n", path)
		return exitConversionErr
	}
	errorColor.Printf("❌ Failed to read %s: %v\n", path, err)
	return exitConversionErr
}

func runConvert(cmd *cobra.Command, args []string) {
	cfg := payroll.Config{WorkshopID: workshopID, Year: year, Month: month, ListNo: listNo}
	os.Exit(convertOne(args[0], args[1], args[2], cfg))
}

func runWatch(cmd *cobra.Command, args []string) {
	headerInput, workersInput, outputDir := args[0], args[1], args[2]
	cfg := payroll.Config{WorkshopID: workshopID, Year: year, Month: month, ListNo: listNo}
	debounceDuration := parseDebounceDuration(debounceString)

	infoColor.Printf("👀 Watching: %s, %s\n", filepath.Base(headerInput), filepath.Base(workersInput))
	infoColor.Println("📝 Press Ctrl+C to stop watching")

	if code := convertOne(headerInput, workersInput, outputDir, cfg); code != exitOK {
		os.Exit(code)
	}

	fw, err := watcher.NewFileWatcher()
	if err != nil {
		errorColor.Printf("❌ Failed to create file watcher: %v\n", err)
		os.Exit(exitConversionErr)
	}
	defer fw.Close()

	var convertMu sync.Mutex
	onChange := func(path string) {
		convertMu.Lock()
		defer convertMu.Unlock()
		infoColor.Printf("🔄 File changed: %s\n", filepath.Base(path))
		convertOne(headerInput, workersInput, outputDir, cfg)
	}

	if err := fw.Watch(headerInput, onChange, debounceDuration); err != nil {
		errorColor.Printf("❌ Failed to watch %s: %v\n", headerInput, err)
		os.Exit(exitConversionErr)
	}
	if err := fw.Watch(workersInput, onChange, debounceDuration); err != nil {
		errorColor.Printf("❌ Failed to watch %s: %v\n", workersInput, err)
		os.Exit(exitConversionErr)
	}

	fw.Start()
	select {}
}

func runServe(cmd *cobra.Command, args []string) {
	outputDir := args[0]

	srv, err := server.NewServer(outputDir)
	if err != nil {
		errorColor.Printf("❌ Failed to create server: %v\n", err)
		os.Exit(exitConversionErr)
	}
	defer srv.Close()

	if serveWatch {
		debounceDuration := parseDebounceDuration(debounceString)
		if err := srv.StartWatching(debounceDuration); err != nil {
			errorColor.Printf("❌ Failed to start file watching: %v\n", err)
			os.Exit(exitConversionErr)
		}
	}

	successColor.Printf("🌐 Server running at http://localhost%s\n", serveAddr)
	infoColor.Println("📝 Press Ctrl+C to stop the server")

	if err := srv.Start(serveAddr); err != nil {
		errorColor.Printf("❌ Server error: %v\n", err)
		os.Exit(exitConversionErr)
	}
}

func runInfo(cmd *cobra.Command, args []string) {
	path := args[0]

	infoColor.Printf("🔍 Reading file: %s\n", filepath.Base(path))

	info, records, err := dbf.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			errorColor.Printf("❌ Input not found: %s\n", path)
			os.Exit(exitInputNotFound)
		}
		errorColor.Printf("❌ Failed to read %s: %v\n", path, err)
		os.Exit(exitConversionErr)
	}

	fmt.Println()
	successColor.Println("📋 File Information")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	infoColor.Printf("📁 File: %s\n", filepath.Base(path))
	infoColor.Printf("📅 Header date: %02d-%02d-%02d\n", info.Year, info.Month, info.Day)
	infoColor.Printf("📊 Records: %d\n", info.NumRecords)
	infoColor.Printf("📝 Fields: %d\n", len(info.Fields))
	fmt.Println()

	successColor.Println("🗂️  Field Definitions")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	for i, field := range info.Fields {
		fmt.Printf("%2d. %-12s %-10s (width: %d, decimals: %d)\n", i+1, field.Name, string(field.Kind), field.Width, field.Decimals)
	}
	fmt.Println()

	if len(records) > 0 {
		successColor.Println("📄 First Record")
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		for _, field := range info.Fields {
			fmt.Printf("%-12s %s\n", field.Name, records[0][field.Name])
		}
		fmt.Println()
	}
}

// parseDebounceDuration parses and validates a debounce duration string.
func parseDebounceDuration(durationStr string) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		errorColor.Printf("❌ Invalid debounce duration '%s': %v\n", durationStr, err)
		errorColor.Println("💡 Valid examples: 0s, 500ms, 1s, 5s, 1m")
		os.Exit(exitArgumentError)
	}
	return duration
}

func runUpdate(cmd *cobra.Command, args []string) {
	branch, err := cmd.Flags().GetString("branch")
	if err != nil {
		errorColor.Printf("❌ Failed to read 'branch' flag: %v\n", err)
		os.Exit(exitArgumentError)
	}

	fmt.Println()
	successColor.Println("🚀 SSO Payroll DBF Auto-Update")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	repoOwner, repoName, err := updater.DeriveRepoInfoFromModule()
	if err != nil {
		errorColor.Printf("❌ Failed to determine repository information: %v\n", err)
		errorColor.Println("💡 Make sure you're running this from within the project directory")
		os.Exit(exitArgumentError)
	}

	infoColor.Printf("📦 Repository: %s/%s\n", repoOwner, repoName)

	u := updater.NewUpdater(repoOwner, repoName)

	platformName := u.GetCurrentPlatformArtifactName()
	if platformName == "" {
		errorColor.Printf("❌ Auto-update is not supported on %s/%s\n", runtime.GOOS, runtime.GOARCH)
		errorColor.Println("💡 Supported platforms: linux/amd64, windows/amd64, darwin/amd64, darwin/arm64")
		os.Exit(exitConversionErr)
	}

	infoColor.Printf("📦 Current version: %s (built: %s)\n", Version, BuildDate)
	infoColor.Printf("🌿 Target branch: %s\n", branch)
	infoColor.Printf("💻 Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()

	if os.Getenv("GITHUB_TOKEN") == "" {
		warningColor.Println("⚠️  GITHUB_TOKEN not set - using anonymous API access (lower rate limits)")
		warningColor.Println("💡 Set GITHUB_TOKEN environment variable for higher rate limits")
		fmt.Println()
	}

	infoColor.Println("🔍 Searching for latest successful build...")
	run, err := u.GetLatestSuccessfulRun(branch)
	if err != nil {
		errorColor.Printf("❌ Failed to find latest build: %v\n", err)
		os.Exit(exitConversionErr)
	}

	successColor.Printf("✅ Found build #%d from %s\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println()

	infoColor.Println("📦 Fetching build artifacts...")
	artifacts, err := u.GetArtifactsForRun(run.ID)
	if err != nil {
		errorColor.Printf("❌ Failed to get artifacts: %v\n", err)
		os.Exit(exitConversionErr)
	}

	targetArtifact := u.FindPlatformArtifact(artifacts)
	if targetArtifact == nil {
		errorColor.Printf("❌ No artifact found for platform: %s\n", platformName)
		errorColor.Println("💡 Available artifacts:")
		for _, a := range artifacts {
			fmt.Printf("   • %s\n", a.Name)
		}
		os.Exit(exitConversionErr)
	}

	if targetArtifact.Expired {
		errorColor.Println("❌ Artifact has expired - cannot download")
		os.Exit(exitConversionErr)
	}

	successColor.Printf("✅ Found artifact: %s (%.2f MB)\n", targetArtifact.Name, float64(targetArtifact.SizeInBytes)/(1024*1024))
	fmt.Println()

	infoColor.Println("⬇️  Downloading artifact...")
	tmpDir, err := os.MkdirTemp("", "sso-payroll-dbf-update-*")
	if err != nil {
		errorColor.Printf("❌ Failed to create temporary directory: %v\n", err)
		os.Exit(exitConversionErr)
	}
	defer os.RemoveAll(tmpDir)

	zipPath, err := u.DownloadArtifact(targetArtifact, tmpDir)
	if err != nil {
		errorColor.Printf("❌ Failed to download artifact: %v\n", err)
		os.Exit(exitConversionErr)
	}
	successColor.Println("✅ Download complete")
	fmt.Println()

	infoColor.Println("📂 Extracting executable...")
	exePath, err := u.ExtractExecutable(zipPath, tmpDir)
	if err != nil {
		errorColor.Printf("❌ Failed to extract executable: %v\n", err)
		os.Exit(exitConversionErr)
	}
	successColor.Println("✅ Extraction complete")
	fmt.Println()

	infoColor.Println("🔄 Replacing current executable...")
	if err := u.ReplaceCurrentExecutable(exePath); err != nil {
		errorColor.Printf("❌ Failed to replace executable: %v\n", err)
		os.Exit(exitConversionErr)
	}

	fmt.Println()
	successColor.Println("✅ Update complete!")
	infoColor.Println("💡 Restart the application to use the new version")
	fmt.Println()
}
