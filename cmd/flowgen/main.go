/*
Copyright 2024 The Flowgen Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command flowgen synthesizes NetFlow v5/v7/v9 and IPFIX export traffic
// from a declarative YAML configuration, either sending it over UDP to a
// collector or writing it to a pcap capture file.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/netsynth/flowgen"
	"github.com/netsynth/flowgen/sinks"
)

const (
	exitOK            = 0
	exitConfiguration = 1
	exitRuntime       = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		configPath string
		dest       string
		output     string
		verbose    bool
		interval   float64
		once       bool
	)

	cmd := &cobra.Command{
		Use:          "flowgen",
		Short:        "Synthesize NetFlow and IPFIX export traffic for testing collectors",
		Version:      "0.1.0",
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration (absent: use the built-in sample)")
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "override destination as ip:port")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write pcap to this file instead of sending UDP")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable detailed diagnostic logging")
	cmd.Flags().Float64VarP(&interval, "interval", "i", 2, "seconds between iterations")
	cmd.Flags().BoolVar(&once, "once", false, "perform exactly one iteration and exit")
	// Registered ourselves (rather than left to cobra's InitDefaultVersionFlag)
	// so it gets the -V shorthand; -v is already taken by --verbose.
	cmd.Flags().BoolP("version", "V", false, "print version and exit")
	cmd.AddCommand(newDumpCommand())

	exitCode := exitOK
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		code, err := execute(cmd.Context(), configPath, dest, output, verbose, interval, once)
		exitCode = code
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitCode == exitOK {
			exitCode = exitRuntime
		}
	}
	return exitCode
}

func execute(ctx context.Context, configPath, dest, output string, verbose bool, intervalSeconds float64, once bool) (int, error) {
	zapCfg := zap.NewProductionConfig()
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zl, err := zapCfg.Build()
	if err != nil {
		return exitRuntime, fmt.Errorf("building logger: %w", err)
	}
	defer zl.Sync()
	flowgen.SetLogger(zapr.NewLogger(zl))
	log := flowgen.Log.WithName("flowgen")

	cfg, err := loadConfiguration(configPath)
	if err != nil {
		log.Error(err, "configuration error")
		return exitConfiguration, err
	}

	interval := time.Duration(intervalSeconds * float64(time.Second))
	cache, err := flowgen.BuildTemplateCache(cfg, intervalSeconds)
	if err != nil {
		log.Error(err, "template cache build failed")
		return exitConfiguration, err
	}

	destination, err := resolveDestinationFlag(cfg, dest)
	if err != nil {
		log.Error(err, "invalid destination")
		return exitConfiguration, err
	}

	sink, err := buildSink(output, destination)
	if err != nil {
		log.Error(err, "failed to initialize sink")
		return exitConfiguration, err
	}
	defer sink.Close()

	reg := prometheus.NewRegistry()
	metrics := flowgen.NewMetrics(reg)

	scheduler := flowgen.NewScheduler(cfg, cache, sink, interval, once, log, metrics)
	if err := scheduler.Run(ctx); err != nil {
		log.Error(err, "scheduler aborted")
		return exitRuntime, err
	}
	return exitOK, nil
}

func loadConfiguration(path string) (*flowgen.Config, error) {
	if path == "" {
		return flowgen.SampleConfig(), nil
	}
	return flowgen.LoadConfig(path)
}

func resolveDestinationFlag(cfg *flowgen.Config, destFlag string) (flowgen.Destination, error) {
	if destFlag == "" {
		return flowgen.ResolveDestination(cfg, nil), nil
	}
	host, port, err := splitHostPort(destFlag)
	if err != nil {
		return flowgen.Destination{}, err
	}
	return flowgen.ResolveDestination(cfg, &flowgen.Destination{IP: host, Port: port}), nil
}

func splitHostPort(hostport string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --dest %q: %w", hostport, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --dest %q: port must be numeric", hostport)
	}
	return host, port, nil
}

func buildSink(output string, dest flowgen.Destination) (flowgen.Sink, error) {
	if output != "" {
		return sinks.NewPCAPSink(output, dest.IP, dest.Port)
	}
	return sinks.NewUDPSink(dest.IP, dest.Port)
}

// newDumpCommand builds the operator-debugging "dump" subcommand: it prints
// the resolved configuration's shape (flow groups, flowsets, record and
// field counts) without sending anything. It carries no wire-protocol
// invariants of its own.
func newDumpCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the resolved configuration without emitting any traffic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfiguration(configPath)
			if err != nil {
				return err
			}
			return dumpConfig(cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration (absent: use the built-in sample)")
	return cmd
}

func dumpConfig(w io.Writer, cfg *flowgen.Config) error {
	dest := flowgen.ResolveDestination(cfg, nil)
	fmt.Fprintf(w, "destination: %s:%d\n", dest.IP, dest.Port)
	for i, group := range cfg.Flows {
		fmt.Fprintf(w, "flow[%d]: version=%s exporter_id=%d\n", i, group.Version, group.ExporterID)
		if len(group.Header) > 0 {
			fmt.Fprintf(w, "  header overrides: %v\n", group.Header)
		}
		if len(group.Records) > 0 {
			fmt.Fprintf(w, "  records=%d\n", len(group.Records))
		}
		for j, fs := range group.Flowsets {
			fmt.Fprintf(w, "  flowset[%d]: kind=%s template_id=%d fields=%d records=%d\n",
				j, fs.Kind, fs.TemplateID, len(fs.Fields), len(fs.Records))
		}
	}
	return nil
}
