// Command closetctl is a command-line front end for an encrypted,
// deniable secret store. Every subcommand operates on a single closet
// file, descending through nested drawers by supplying one passphrase
// per level with repeated --passphrase flags.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aeriskit/closet/pkg/ccrypto"
	"github.com/aeriskit/closet/pkg/telemetry"
	pkgversion "github.com/aeriskit/closet/pkg/version"
)

var (
	version   = ""        // Set via -ldflags "-X main.version=x.y.z"
	buildTime = "unknown" // Set via -ldflags "-X main.buildTime=..."
	gitCommit = "unknown" // Set via -ldflags "-X main.gitCommit=..."
)

func getVersion() string {
	if version != "" {
		return version
	}
	return pkgversion.String()
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "create", "open", "list", "add", "rm", "mkdrawer", "passwd":
		if err := ccrypto.SelfTest(); err != nil {
			fmt.Fprintf(os.Stderr, "closetctl: self-test failed, refusing to run: %v\n", err)
			os.Exit(1)
		}
	}

	switch command {
	case "create":
		createCommand()
	case "open", "list":
		openCommand()
	case "add":
		addCommand()
	case "rm":
		rmCommand()
	case "mkdrawer":
		mkdrawerCommand()
	case "passwd":
		passwdCommand()
	case "version":
		fmt.Printf("closetctl version %s\n", getVersion())
		if buildTime != "unknown" {
			fmt.Printf("Built: %s\n", buildTime)
		}
		if gitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", gitCommit)
		}
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`closetctl - encrypted, deniable secret store

USAGE:
    closetctl <command> [options]

COMMANDS:
    create     Create a new closet file with one drawer
    open       Open (and list) a drawer, descending through nested ones
    list       Alias for open
    add        Add or update an entry in the deepest opened drawer
    rm         Remove an entry from the deepest opened drawer
    mkdrawer   Create a drawer nested inside the deepest opened drawer
    passwd     Change the passphrase of the deepest opened drawer
    version    Print version information
    help       Show this help message

Run 'closetctl <command> --help' for more information on a command.

NESTING:
    Pass one --passphrase flag per level, outermost first. The deepest
    passphrase given names the drawer the command operates on; any
    passphrases before it only unlock the parent drawers on the way
    down.

EXAMPLES:
    # Create a new closet with its first drawer
    closetctl create --file vault.closet --passphrase "correct horse"

    # List entries in that drawer
    closetctl open --file vault.closet --passphrase "correct horse"

    # Add an entry
    closetctl add --file vault.closet --passphrase "correct horse" \
        --name api-key --value s3cr3t

    # Create a drawer nested one level inside it
    closetctl mkdrawer --file vault.closet --passphrase "correct horse" \
        --passphrase "deeper secret"

PROJECT:
    closet - a file-backed secret store where the file format reveals
    nothing about how many drawers exist or which passphrases are real.`)
}

// passphraseFlags collects repeated --passphrase flags in order, outermost
// first. flag.Value is implemented so the same flag name can repeat on the
// command line.
type passphraseFlags []string

func (p *passphraseFlags) String() string {
	return strings.Join(*p, ",")
}

func (p *passphraseFlags) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func registerCommonFlags(fs *flag.FlagSet) (file *string, passphrases *passphraseFlags, logLevel, logFormat, tracing, metricsAddr *string) {
	file = fs.String("file", "", "Path to the closet file")
	passphrases = &passphraseFlags{}
	fs.Var(passphrases, "passphrase", "Passphrase for one nesting level; repeat outermost-first")
	logLevel = fs.String("log-level", "warn", "Log level: debug, info, warn, error, silent")
	logFormat = fs.String("log-format", "text", "Log format: text or json")
	tracing = fs.String("tracing", "none", "Tracing mode: none, simple, otel (requires -tags otel)")
	metricsAddr = fs.String("metrics-addr", "", "Serve Prometheus metrics on this address while the command runs. Empty disables")
	return
}

func setupObservability(logLevel, logFormat, tracing string) (*telemetry.Collector, *telemetry.Logger, error) {
	level := telemetry.ParseLevel(logLevel)

	format, err := parseLogFormat(logFormat)
	if err != nil {
		return nil, nil, err
	}

	logger := telemetry.NewLogger(
		telemetry.WithOutput(os.Stderr),
		telemetry.WithLevel(level),
		telemetry.WithFormat(format),
		telemetry.WithFields(telemetry.Fields{"app": "closetctl"}),
	)
	telemetry.SetLogger(logger)

	switch strings.ToLower(tracing) {
	case "none":
		telemetry.SetTracer(telemetry.NoOpTracer{})
	case "simple":
		telemetry.SetTracer(telemetry.NewSimpleTracer())
	case "otel":
		if !telemetry.OTelEnabled() {
			return nil, nil, fmt.Errorf("otel tracing not enabled (build with -tags otel)")
		}
		telemetry.SetTracer(telemetry.NewOTelTracer("closetctl"))
	default:
		return nil, nil, fmt.Errorf("invalid tracing mode: %s (use none, simple, or otel)", tracing)
	}

	collector := telemetry.NewCollector(telemetry.Labels{"service": "closetctl"})
	telemetry.SetGlobal(collector)

	return collector, logger, nil
}

func parseLogFormat(format string) (telemetry.Format, error) {
	switch strings.ToLower(format) {
	case "text":
		return telemetry.FormatText, nil
	case "json":
		return telemetry.FormatJSON, nil
	default:
		return telemetry.FormatText, fmt.Errorf("invalid log format: %s (use text or json)", format)
	}
}

// maybeServeMetrics starts a background Prometheus exporter when addr is
// non-empty and returns a func to call before the process exits. That func
// logs the exporter's error if it has already stopped; it does not stop a
// running exporter, which ends with the process.
func maybeServeMetrics(addr string, collector *telemetry.Collector, logger *telemetry.Logger) func() {
	if addr == "" {
		return func() {}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- telemetry.ServePrometheus(addr, collector, "closet")
	}()

	logger.Info("serving metrics", telemetry.Fields{"addr": addr})

	return func() {
		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("metrics server exited", telemetry.Fields{"error": err.Error()})
			}
		default:
		}
	}
}
