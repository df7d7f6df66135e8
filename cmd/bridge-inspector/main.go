package main

import (
	"context"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/carelink/openapi-bridge/internal/config"
	"github.com/carelink/openapi-bridge/internal/fetcher"
	"github.com/carelink/openapi-bridge/internal/locator"
	"github.com/carelink/openapi-bridge/internal/logger"
	"github.com/carelink/openapi-bridge/internal/parser"
	"github.com/carelink/openapi-bridge/internal/tui"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bridge-inspector",
	Short: "Browse the MCP tools generated from a service's OpenAPI document",
	Long: `Bridge Inspector discovers and fetches the OpenAPI document the same way
the bridge server does and shows the resulting tool set in a terminal browser,
without starting an MCP server.`,
	Run: runInspector,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags()
	rootCmd.Flags().AddFlagSet(pflag.CommandLine)
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
}

// runInspector fetches the document, builds the tool set and runs the TUI
func runInspector(cmd *cobra.Command, args []string) {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	// Keep the terminal clean for the TUI.
	cfg.Logging.DisableConsole = true
	if err := logger.InitLogger(&cfg.Logging); err != nil {
		pterm.Error.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	candidates := locator.Resolve(locator.Config{
		BaseURL:     cfg.Endpoint.BaseURL,
		ContextPath: cfg.Endpoint.ContextPath,
		OpenAPIPath: cfg.Endpoint.OpenAPIPath,
		FullURL:     cfg.Endpoint.OpenAPIFullURL,
	})
	result, err := fetcher.NewFetcher(cfg).Fetch(context.Background(), candidates)
	if err != nil {
		pterm.Error.Printf("Failed to fetch OpenAPI document: %v\n", err)
		os.Exit(1)
	}
	pterm.Info.Printfln("Loaded %s", pterm.LightGreen(result.URL))

	adjuster := parser.NewAdjuster()
	if err := adjuster.Load(cfg.AdjustmentsFile); err != nil {
		pterm.Error.Printf("Failed to load adjustments file: %v\n", err)
		os.Exit(1)
	}

	tools := parser.NewToolBuilder(adjuster).Build(result.Doc)
	if len(tools) == 0 {
		pterm.Warning.Println("No tools generated from the document")
		os.Exit(0)
	}

	p := tea.NewProgram(tui.NewAppModel(tools, cfg.Server.Name), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		pterm.Error.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	pterm.Info.Printfln("Inspected %s tools from %s.",
		pterm.LightGreen(len(tools)),
		pterm.White(result.URL))
}
