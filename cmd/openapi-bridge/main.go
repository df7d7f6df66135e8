package main

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/carelink/openapi-bridge/internal/config"
	"github.com/carelink/openapi-bridge/internal/dispatcher"
	"github.com/carelink/openapi-bridge/internal/fetcher"
	"github.com/carelink/openapi-bridge/internal/logger"
	"github.com/carelink/openapi-bridge/internal/parser"
	"github.com/carelink/openapi-bridge/internal/requester"
	"github.com/carelink/openapi-bridge/internal/server"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "openapi-bridge",
	Short: "Serve a REST service's operations as MCP tools",
	Long: `OpenAPI Bridge discovers the OpenAPI document of a running REST service,
translates its operations into MCP tools and serves them over STDIO, SSE or
streamable HTTP. Tool calls are forwarded to the service as HTTP requests.`,
	Run: runServer,
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

func runServer(cmd *cobra.Command, args []string) {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(config.Load),
		fetcher.Module,
		parser.Module,
		requester.Module,
		dispatcher.Module,
		server.Module,
		fx.Invoke(setupLogger),
		fx.Invoke(run),
	)
	app.Run()
}

// setupLogger initializes the global logger. In STDIO mode console
// output is forced off so stdout stays clean for the MCP transport.
func setupLogger(cfg *config.Config) error {
	if cfg.Server.Mode == config.ServerModeSTDIO {
		cfg.Logging.DisableConsole = true
	}
	return logger.InitLogger(&cfg.Logging)
}

// run ties the server to the fx lifecycle: it serves until the process
// receives a signal, then shuts down gracefully.
func run(lc fx.Lifecycle, srv *server.Server, shutdowner fx.Shutdowner) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.Start(ctx); err != nil {
					logger.Error("server exited", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			_ = logger.Sync()
			return nil
		},
	})
}
