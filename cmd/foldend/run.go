package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"gopkg.in/natefinch/lumberjack.v2"

	foldendcmd "github.com/foldend/foldend/cmd"
	"github.com/foldend/foldend/pkg/daemon"
	"github.com/foldend/foldend/pkg/foldend"
	"github.com/foldend/foldend/pkg/ipc"
	"github.com/foldend/foldend/pkg/logging"
	"github.com/foldend/foldend/pkg/must"
	"github.com/foldend/foldend/pkg/rpcapi"
	"github.com/foldend/foldend/pkg/service/handler"
	"github.com/foldend/foldend/pkg/supervisor"
)

// runConfiguration holds the values of the run command's flags (§6's CLI
// surface).
var runConfiguration struct {
	// mappingPath overrides the daemon configuration's mapping_state_path.
	mappingPath string
	// port additionally exposes the RPC service over TCP on this port; 0
	// disables the TCP listener and leaves the Unix-domain socket as the
	// only transport.
	port int
	// limit overrides the daemon configuration's concurrent_threads_limit.
	limit int
	// logPath overrides the daemon configuration's tracing_file_path.
	logPath string
}

var runCommand = &cobra.Command{
	Use:          "run",
	Short:        "Run the foldend daemon in the foreground",
	Args:         foldendcmd.DisallowArguments,
	SilenceUsage: true,
	Run:          foldendcmd.Mainify(runMain),
}

func init() {
	flags := runCommand.Flags()
	flags.StringVar(&runConfiguration.mappingPath, "mapping", "", "override the handler mapping document path")
	flags.IntVar(&runConfiguration.port, "port", 0, "additionally listen for RPCs on this TCP port (0 disables)")
	flags.IntVar(&runConfiguration.limit, "limit", 0, "override the concurrent handler limit (0 uses the configuration file's value)")
	flags.StringVar(&runConfiguration.logPath, "log", "", "override the daemon log file path")

	rootCommand.AddCommand(runCommand)
}

// resolvePath returns override if non-empty, otherwise the result of
// computing the default.
func resolvePath(override string, computeDefault func() (string, error)) (string, error) {
	if override != "" {
		return override, nil
	}
	return computeDefault()
}

func runMain(command *cobra.Command, _ []string) error {
	lock, err := daemon.AcquireLock(logging.RootLogger)
	if err != nil {
		return fmt.Errorf("unable to acquire daemon lock: %w", err)
	}
	defer must.Release(lock, logging.RootLogger)

	configPath, err := resolvePath(rootConfiguration.configPath, daemon.DefaultConfigPath)
	if err != nil {
		return fmt.Errorf("unable to compute daemon configuration path: %w", err)
	}
	defaultMapping, err := daemon.DefaultMappingPath()
	if err != nil {
		return fmt.Errorf("unable to compute default mapping path: %w", err)
	}
	defaultTracing, err := daemon.DefaultTracingPath()
	if err != nil {
		return fmt.Errorf("unable to compute default tracing path: %w", err)
	}

	logger := logging.NewLogger(logging.LevelInfo, os.Stderr)

	config, err := daemon.LoadConfig(configPath, defaultMapping, defaultTracing, logger)
	if err != nil {
		return fmt.Errorf("unable to load daemon configuration: %w", err)
	}
	if runConfiguration.mappingPath != "" {
		config.MappingStatePath = runConfiguration.mappingPath
	}
	if runConfiguration.limit > 0 {
		config.ConcurrentThreadsLimit = runConfiguration.limit
	}
	if runConfiguration.logPath != "" {
		config.TracingFilePath = runConfiguration.logPath
	}
	config.Port = runConfiguration.port

	level := logging.LevelInfo
	if foldend.DebugEnabled {
		level = logging.LevelDebug
	}
	rotatingLog := &lumberjack.Logger{
		Filename: config.TracingFilePath,
		MaxSize:  10,
		MaxAge:   1,
		Compress: true,
	}
	logWriter := io.MultiWriter(os.Stdout, rotatingLog)
	logger = logging.NewLogger(level, logWriter)

	// Rotate the log file once a day, in addition to lumberjack's own
	// size-based rotation.
	rotationTicker := time.NewTicker(24 * time.Hour)
	defer rotationTicker.Stop()
	go func() {
		for range rotationTicker.C {
			if err := rotatingLog.Rotate(); err != nil {
				logger.Warnf("unable to rotate daemon log: %v", err)
			}
		}
	}()

	sup, err := supervisor.Boot(config, logger)
	if err != nil {
		return fmt.Errorf("unable to boot supervisor: %w", err)
	}
	defer sup.Shutdown()

	server := grpc.NewServer(grpc.ForceServerCodec(rpcapi.Codec))
	rpcapi.RegisterFoldendServer(server, handler.New(sup))

	endpointPath, err := daemon.EndpointPath()
	if err != nil {
		return fmt.Errorf("unable to compute daemon IPC endpoint path: %w", err)
	}
	unixListener, err := ipc.NewListener(endpointPath, logger)
	if err != nil {
		return fmt.Errorf("unable to create IPC listener: %w", err)
	}

	serveFailures := make(chan error, 2)
	go func() { serveFailures <- server.Serve(unixListener) }()

	if config.Port != 0 {
		tcpListener, err := net.Listen("tcp", ":"+strconv.Itoa(config.Port))
		if err != nil {
			return fmt.Errorf("unable to listen on TCP port %d: %w", config.Port, err)
		}
		go func() { serveFailures <- server.Serve(tcpListener) }()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, foldendcmd.TerminationSignals...)

	select {
	case sig := <-signals:
		logger.Infof("received signal %v, shutting down", sig)
	case err := <-serveFailures:
		if err != nil {
			logger.Errorf("RPC server failure: %v", err)
		}
	}

	server.GracefulStop()

	return nil
}
