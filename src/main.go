package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Red-Bob7120/Data-Science/src/config"
	"github.com/Red-Bob7120/Data-Science/src/datasource/file"
	"github.com/Red-Bob7120/Data-Science/src/processor"
	"github.com/Red-Bob7120/Data-Science/src/storage"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configDir      string
	configFile     string
	dataConfigFile string
}

// app carries what every command needs once the configuration is loaded.
type app struct {
	cfg    *config.Config
	dcfg   *config.DataConfig
	logger *storage.Logger
	loader processor.SurrenderLoader
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "surrender",
		Short: "Elderly driver accident and licence surrender statistics",
		Long: `surrender derives the age-group accident table and the regional
licence surrender tables used to discuss elderly driver safety.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "./config", "directory holding the config files")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "config.json", "runtime config file")
	cmd.PersistentFlags().StringVar(&opts.dataConfigFile, "data-config", "dataconfig.json", "dataset schema config file")

	cmd.AddCommand(summaryCmd(opts))
	cmd.AddCommand(exportCmd(opts))
	cmd.AddCommand(watchCmd(opts))
	return cmd
}

// newApp loads both config files and builds the logger and the aggregator.
func newApp(opts *rootOptions, out io.Writer) (*app, error) {
	cfg, dcfg, err := config.LoadConfig(opts.configDir, opts.configFile, opts.dataConfigFile)
	if err != nil {
		return nil, err
	}

	var logger *storage.Logger
	if cfg.LogName == "" {
		logger = storage.NewWriterLogger(os.Stderr)
	} else if logger, err = storage.NewLogger(cfg.LogName); err != nil {
		return nil, err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Close()
		return nil, err
	}

	aggregator := processor.NewSurrenderAggregator(
		processor.ResolverFromConfig(dcfg),
		file.ReadOptions{Encodings: dcfg.Encodings, Delimiter: dcfg.DelimiterRune()},
		logger,
	)

	return &app{cfg: cfg, dcfg: dcfg, logger: logger, loader: aggregator, out: out}, nil
}

func (a *app) close() {
	a.logger.Close()
}

// fail logs err at FATAL when it is a data error and hands it back to cobra,
// which makes the process exit non-zero.
func (a *app) fail(err error) error {
	if processor.IsFatal(err) {
		a.logger.Event(storage.FATAL).Err(err).Msg("input data rejected")
	} else {
		a.logger.Event(storage.ERROR).Err(err).Msg("command failed")
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
