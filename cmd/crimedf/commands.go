package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	d "github.com/invertedv/crimedf"
	"github.com/invertedv/crimedf/api"
	"github.com/invertedv/crimedf/config"
	"github.com/invertedv/crimedf/filter"
	"github.com/invertedv/crimedf/loader"
	"github.com/invertedv/crimedf/stats"
	"github.com/spf13/cobra"
)

var (
	flagHost   string
	flagPort   int
	flagStates []string
	flagYears  []int
	flagFormat string
	flagOut    string
	flagState  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the table and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if f.Changed("host") {
			cfg.Host = flagHost
		}

		if f.Changed("port") {
			cfg.Port = flagPort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, e := newStore(ctx)
		if e != nil {
			if errors.Is(e, loader.ErrDataNotFound) {
				log.WithField("path", cfg.DataFilePath).Error("data file not found")
			}

			return e
		}

		svr := api.New(st, &api.Config{
			Title:          cfg.APITitle,
			Version:        cfg.APIVersion,
			AllowedOrigins: cfg.AllowedOrigins,
		}, log)

		return svr.Serve(ctx, cfg.Addr())
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dataset summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, e := newStore(cmd.Context())
		if e != nil {
			return e
		}

		t, _ := st.Canonical(cmd.Context())
		s := loader.Describe(t)

		w := newBox(cmd.OutOrStdout(), "ITEM", "VALUE")
		w.AppendRow([]any{"records", s.TotalRecords})
		w.AppendRow([]any{"states", s.UniqueStates})
		w.AppendRow([]any{"counties", s.UniqueCounties})
		w.AppendRow([]any{"years", fmt.Sprintf("%d - %d", s.YearRange.Min, s.YearRange.Max)})
		w.AppendRow([]any{"columns", strings.Join(s.Columns, ", ")})
		w.Render()

		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the (optionally filtered) table as CSV or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagFormat != "csv" && flagFormat != "json" {
			return fmt.Errorf("format must be csv or json, got %s", flagFormat)
		}

		st, e := newStore(cmd.Context())
		if e != nil {
			return e
		}

		t, _ := st.Canonical(cmd.Context())
		out := filter.Apply(t, filter.Predicates{States: flagStates, Years: flagYears})

		var w io.Writer = cmd.OutOrStdout()
		if flagOut != "" {
			fh, e := os.Create(flagOut)
			if e != nil {
				return e
			}
			defer fh.Close()

			w = fh
		}

		if flagFormat == "json" {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(out.Records())
		}

		return d.NewFiles().Write(w, out)
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe VARIABLE",
	Short: "Descriptive statistics of one variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, e := newStore(cmd.Context())
		if e != nil {
			return e
		}

		t, _ := st.Canonical(cmd.Context())
		s, e := stats.Describe(t, args[0], stats.Filters{States: flagStates, Years: flagYears})
		if e != nil {
			return e
		}

		w := newBox(cmd.OutOrStdout(), "STAT", args[0])
		for _, r := range []struct {
			name string
			val  stats.Float
		}{
			{"mean", s.Mean}, {"median", s.Median}, {"std", s.Std}, {"min", s.Min},
			{"q25", s.Q25}, {"q75", s.Q75}, {"max", s.Max},
		} {
			w.AppendRow([]any{r.name, d.FormatNumber(float64(r.val))})
		}

		w.AppendRow([]any{"count", s.Count})
		w.Render()

		return nil
	},
}

var trendCmd = &cobra.Command{
	Use:   "trend VARIABLE",
	Short: "Linear trend of the yearly mean of one variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, e := newStore(cmd.Context())
		if e != nil {
			return e
		}

		t, _ := st.Canonical(cmd.Context())
		tr, e := stats.Trend(t, args[0], flagState)
		if e != nil {
			return e
		}

		w := newBox(cmd.OutOrStdout(), "YEAR", args[0])
		for i, yr := range tr.Years {
			w.AppendRow([]any{yr, d.FormatNumber(tr.Values[i])})
		}

		w.AppendFooter([]any{tr.Trend, "slope " + d.FormatNumber(float64(tr.Slope)) +
			"  r2 " + d.FormatNumber(float64(tr.RSquared)) + "  p " + d.FormatNumber(float64(tr.PValue))})
		w.Render()

		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config [FILE]",
	Short: "Write the effective configuration as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return config.Save(cfg, args[0])
		}

		w := newBox(cmd.OutOrStdout(), "KEY", "VALUE")
		w.AppendRow([]any{"api_title", cfg.APITitle})
		w.AppendRow([]any{"api_version", cfg.APIVersion})
		w.AppendRow([]any{"data_file_path", cfg.DataFilePath})
		w.AppendRow([]any{"addr", cfg.Addr()})
		w.AppendRow([]any{"allowed_origins", strings.Join(cfg.AllowedOrigins, ",")})
		w.AppendRow([]any{"log_level", cfg.LogLevel})
		w.AppendRow([]any{"log_file", cfg.LogFile})
		w.AppendRow([]any{"log_max_size_mb", strconv.Itoa(cfg.LogMaxSizeMB)})
		w.Render()

		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagHost, "host", "", "listen host (overrides CRIMEDF_HOST)")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "listen port (overrides CRIMEDF_PORT)")

	for _, c := range []*cobra.Command{exportCmd, describeCmd} {
		c.Flags().StringSliceVar(&flagStates, "states", nil, "restrict to these states")
		c.Flags().IntSliceVar(&flagYears, "years", nil, "restrict to these years")
	}

	exportCmd.Flags().StringVar(&flagFormat, "format", "csv", "csv or json")
	exportCmd.Flags().StringVarP(&flagOut, "output", "o", "", "output file (default stdout)")

	trendCmd.Flags().StringVar(&flagState, "state", "", "restrict to one state")
}
