package main

import (
	"context"
	"io"

	"github.com/invertedv/crimedf/config"
	"github.com/invertedv/crimedf/loader"
	"github.com/invertedv/crimedf/logging"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	dataPath string
	logLevel string

	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "crimedf",
	Short:         "County crime, population and GDP analytics",
	Long:          `crimedf loads the merged county crime/GDP/population table and serves filters, aggregates and statistics over it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var e error
		if cfg, e = config.Load(cfgFile); e != nil {
			return e
		}

		f := cmd.Flags()
		if f.Changed("data") {
			cfg.DataFilePath = dataPath
		}

		if f.Changed("log-level") {
			cfg.LogLevel = logLevel
		}

		log, e = logging.New(logging.Config{
			Level:      cfg.LogLevel,
			Format:     cfg.LogFormat,
			File:       cfg.LogFile,
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
		})

		return e
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./crimedf.yaml if present)")
	pf.StringVar(&dataPath, "data", "", "CSV file or clickhouse:// / postgres:// DSN (overrides DATA_FILE_PATH)")
	pf.StringVar(&logLevel, "log-level", "", "log level (overrides CRIMEDF_LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd, summaryCmd, exportCmd, describeCmd, trendCmd, configCmd)
}

func source() loader.Source {
	return loader.Source{Path: cfg.DataFilePath, Query: cfg.DataQuery}
}

func newStore(ctx context.Context) (*loader.Store, error) {
	st := loader.NewStore(source(), log)

	return st, st.Init(ctx)
}

func newBox(out io.Writer, header ...any) table.Writer {
	w := table.NewWriter()
	w.SetOutputMirror(out)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row(header))

	return w
}
