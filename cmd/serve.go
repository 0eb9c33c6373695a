package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kubeportal/mcp-kubectl/internal/instrumentation"
	"github.com/kubeportal/mcp-kubectl/internal/kubectl"
	"github.com/kubeportal/mcp-kubectl/internal/logging"
	"github.com/kubeportal/mcp-kubectl/internal/server"
	"github.com/kubeportal/mcp-kubectl/internal/tools/cluster"
	"github.com/kubeportal/mcp-kubectl/internal/tools/command"
	"github.com/kubeportal/mcp-kubectl/internal/tools/manifest"
	"github.com/kubeportal/mcp-kubectl/internal/tools/workload"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var (
		nonDestructiveMode bool
		dryRun             bool
		allowedOperations  []string

		// Executor options
		kubectlBinary     string
		installKubectl    bool
		kubectlVersion    string
		installDir        string
		preflight         bool
		structuredTimeout = kubectl.DefaultStructuredTimeout
		manifestTimeout   = kubectl.DefaultManifestTimeout

		// Logging options
		logLevel  string
		logFormat string

		// Transport options
		transport       string
		httpAddr        string
		sseEndpoint     string
		messageEndpoint string
		httpEndpoint    string

		// Metrics options
		enableMetricsServer bool
		metricsAddr         string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP kubectl server",
		Long: `Start the MCP kubectl server to execute kubectl operations against
clusters described by per-request credentials, via the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Every tool call carries its own cluster credential (endpoint, bearer
token, namespace); the server holds no cluster state between calls. The
credential is written to a private kubeconfig file for the duration of
one kubectl invocation and removed afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := ServeConfig{
				Transport:          transport,
				HTTPAddr:           httpAddr,
				SSEEndpoint:        sseEndpoint,
				MessageEndpoint:    messageEndpoint,
				HTTPEndpoint:       httpEndpoint,
				KubectlBinary:      kubectlBinary,
				InstallKubectl:     installKubectl,
				KubectlVersion:     kubectlVersion,
				InstallDir:         installDir,
				Preflight:          preflight,
				StructuredTimeout:  structuredTimeout,
				ManifestTimeout:    manifestTimeout,
				NonDestructiveMode: nonDestructiveMode,
				DryRun:             dryRun,
				AllowedOperations:  allowedOperations,
				LogLevel:           logLevel,
				LogFormat:          logFormat,
				Metrics: MetricsServeConfig{
					Enabled: enableMetricsServer,
					Addr:    metricsAddr,
				},
			}
			// Load env vars only for flags not explicitly set by the user
			loadServeEnvVars(cmd, &config)
			return runServe(config)
		},
	}

	// Safety flags
	cmd.Flags().BoolVar(&nonDestructiveMode, "non-destructive", false, "Reject create, apply, delete, and run operations (default: false)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate mutating operations without applying them (default: false)")
	cmd.Flags().StringSliceVar(&allowedOperations, "allowed-operations", nil, "Operations still permitted in non-destructive mode (e.g. apply,delete)")

	// Executor flags
	cmd.Flags().StringVar(&kubectlBinary, "kubectl-binary", kubectl.TrustedBinary, "Name or path of the kubectl binary")
	cmd.Flags().BoolVar(&installKubectl, "install-kubectl", false, "Install kubectl on first use when missing from PATH (can also be set via INSTALL_KUBECTL env var)")
	cmd.Flags().StringVar(&kubectlVersion, "kubectl-version", "", "kubectl release to install, e.g. v1.34.0 (defaults to current stable, can also be set via KUBECTL_VERSION env var)")
	cmd.Flags().StringVar(&installDir, "install-dir", "", "Directory kubectl is installed into (can also be set via KUBECTL_INSTALL_DIR env var)")
	cmd.Flags().BoolVar(&preflight, "preflight", true, "Run a connectivity probe before every primary action (default: true)")
	cmd.Flags().DurationVar(&structuredTimeout, "structured-timeout", kubectl.DefaultStructuredTimeout, "Default timeout for structured operations (can also be set via STRUCTURED_TIMEOUT env var)")
	cmd.Flags().DurationVar(&manifestTimeout, "manifest-timeout", kubectl.DefaultManifestTimeout, "Default timeout for manifest and freeform operations (can also be set via MANIFEST_TIMEOUT env var)")

	// Logging flags
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, or error")
	cmd.Flags().StringVar(&logFormat, "log-format", "json", "Log format: json or text")

	// Transport flags
	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&sseEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&messageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&httpEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	// Metrics flags
	cmd.Flags().BoolVar(&enableMetricsServer, "enable-metrics-server", false, "Serve Prometheus metrics on a dedicated listener (can also be set via ENABLE_METRICS_SERVER env var)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address (can also be set via METRICS_ADDR env var)")

	return cmd
}

// loadServeEnvVars loads serve configuration from environment variables.
// Environment variables only override flag values when the flag was not
// explicitly set by the user.
func loadServeEnvVars(cmd *cobra.Command, config *ServeConfig) {
	if !cmd.Flags().Changed("install-kubectl") {
		if os.Getenv("INSTALL_KUBECTL") == envValueTrue {
			config.InstallKubectl = true
		}
	}
	if !cmd.Flags().Changed("kubectl-version") {
		loadEnvIfEmpty(&config.KubectlVersion, "KUBECTL_VERSION")
	}
	if !cmd.Flags().Changed("install-dir") {
		loadEnvIfEmpty(&config.InstallDir, "KUBECTL_INSTALL_DIR")
	}
	if !cmd.Flags().Changed("structured-timeout") {
		if d, ok := parseDurationEnv(os.Getenv("STRUCTURED_TIMEOUT"), "STRUCTURED_TIMEOUT"); ok {
			config.StructuredTimeout = d
		}
	}
	if !cmd.Flags().Changed("manifest-timeout") {
		if d, ok := parseDurationEnv(os.Getenv("MANIFEST_TIMEOUT"), "MANIFEST_TIMEOUT"); ok {
			config.ManifestTimeout = d
		}
	}
	if !cmd.Flags().Changed("enable-metrics-server") {
		if os.Getenv("ENABLE_METRICS_SERVER") == envValueTrue {
			config.Metrics.Enabled = true
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Metrics.Addr = addr
		}
	}
}

// runServe contains the main server logic with support for multiple transports.
func runServe(config ServeConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	logger := logging.NewLogger(config.LogLevel, config.LogFormat)

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize OpenTelemetry instrumentation
	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig, logger.Logger())
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			// Stay quiet on stdio; log output would interleave with MCP traffic.
			if config.Transport != transportStdio {
				logger.Error("error during instrumentation shutdown", "error", shutdownErr)
			}
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics", instrumentationConfig.MetricsExporter,
			"tracing", instrumentationConfig.TracingExporter)
	}

	// Build the kubectl executor
	executorOptions := []kubectl.Option{
		kubectl.WithBinary(config.KubectlBinary),
		kubectl.WithPreflight(config.Preflight),
		kubectl.WithDryRun(config.DryRun),
		kubectl.WithDefaultTimeouts(config.StructuredTimeout, config.ManifestTimeout),
		kubectl.WithLogger(logger),
	}
	if config.InstallKubectl {
		executorOptions = append(executorOptions, kubectl.WithInstaller(&kubectl.ReleaseInstaller{
			Version: config.KubectlVersion,
			DestDir: config.InstallDir,
		}))
	}
	if metrics := instrumentationProvider.Metrics(); metrics != nil {
		executorOptions = append(executorOptions, kubectl.WithSpawnObserver(func(stage string) {
			metrics.RecordSpawn(context.Background(), stage)
		}))
	}
	executor := kubectl.NewExecutor(executorOptions...)

	// Build the server configuration from flags
	serverConfig := server.NewDefaultConfig()
	if rootCmd.Version != "" {
		serverConfig.Version = rootCmd.Version
	}
	serverConfig.KubectlBinary = config.KubectlBinary
	serverConfig.InstallKubectl = config.InstallKubectl
	serverConfig.KubectlVersion = config.KubectlVersion
	serverConfig.InstallDir = config.InstallDir
	serverConfig.Preflight = config.Preflight
	serverConfig.StructuredTimeout = config.StructuredTimeout
	serverConfig.ManifestTimeout = config.ManifestTimeout
	serverConfig.NonDestructiveMode = config.NonDestructiveMode
	serverConfig.DryRun = config.DryRun
	serverConfig.AllowedOperations = config.AllowedOperations
	serverConfig.LogLevel = config.LogLevel
	serverConfig.LogFormat = config.LogFormat

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithExecutor(executor),
		server.WithLogger(logger),
		server.WithConfig(serverConfig),
		server.WithInstrumentationProvider(instrumentationProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			if config.Transport != transportStdio {
				logger.Error("error during server context shutdown", "error", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer(serverConfig.ServerName, serverConfig.Version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register all tool categories
	if err := cluster.RegisterClusterTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register cluster tools: %w", err)
	}
	if err := workload.RegisterWorkloadTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register workload tools: %w", err)
	}
	if err := manifest.RegisterManifestTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register manifest tools: %w", err)
	}
	if err := command.RegisterCommandTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register command tools: %w", err)
	}

	// Start the appropriate server based on transport type
	switch config.Transport {
	case transportStdio:
		// No startup message for stdio mode; stdout belongs to MCP traffic.
		return runStdioServer(shutdownCtx, mcpSrv)
	case transportSSE:
		logger.Info("starting MCP kubectl server", "transport", config.Transport)
		return runSSEServer(shutdownCtx, mcpSrv, config, logger)
	case transportStreamableHTTP:
		logger.Info("starting MCP kubectl server", "transport", config.Transport)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, config, instrumentationProvider, serverContext, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}
