package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/Red-Bob7120/Data-Science/src/datasource/file"
	"github.com/Red-Bob7120/Data-Science/src/processor"
	"github.com/Red-Bob7120/Data-Science/src/storage"
	"github.com/Red-Bob7120/Data-Science/src/utils"
	"github.com/davecgh/go-spew/spew"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// report is everything one run derives from the accident table and the data
// file.
type report struct {
	Accidents []processor.AgeGroupAccidentRecord
	Summary   processor.AccidentSummary
	Year      int
	Regional  []processor.RegionalSurrenderRecord
	Trend     []processor.YearlyTrendRecord
	Changes   []processor.TrendChange
}

func (a *app) buildReport(year int, groups []string) (*report, error) {
	if year == 0 {
		year = a.cfg.TargetYear
	}

	accidents := processor.FilterAgeGroups(processor.LoadAccidentRates(), groups...)

	regional, err := a.loader.LoadRegional(a.cfg.DataFile, year)
	if err != nil {
		return nil, err
	}
	trend, err := a.loader.LoadYearlyTrend(a.cfg.DataFile, a.cfg.TrendYears)
	if err != nil {
		return nil, err
	}

	return &report{
		Accidents: accidents,
		Summary:   processor.SummarizeAccidents(accidents),
		Year:      year,
		Regional:  regional,
		Trend:     trend,
		Changes:   processor.YearOverYear(trend),
	}, nil
}

func (r *report) sheets() []utils.Sheet {
	return []utils.Sheet{
		{Name: "연령대별 사고율", Frame: processor.AccidentFrame(r.Accidents)},
		{Name: fmt.Sprintf("%d 지역별 반납률", r.Year), Frame: processor.RegionalFrame(r.Regional)},
		{Name: "연도별 추이", Frame: processor.TrendFrame(r.Trend)},
		{Name: "전년 대비", Frame: processor.ChangeFrame(r.Changes)},
	}
}

// printReport writes the three tables with Korean digit grouping.
func printReport(w io.Writer, r *report) error {
	p := message.NewPrinter(language.Korean)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	p.Fprintln(tw, "[연령대별 교통사고 비율]")
	p.Fprintln(tw, "연령대\t비율\t퍼센트")
	for _, rec := range r.Accidents {
		p.Fprintf(tw, "%s\t%.6f\t%.2f%%\n", rec.AgeGroup, rec.RawRatio, rec.Percent)
	}
	if len(r.Accidents) > 0 {
		p.Fprintf(tw, "최고 %s %.2f%%, 최저 %s %.2f%%, 평균 %.3f%%, 차이 %.2f%%p\n",
			r.Summary.Highest.AgeGroup, r.Summary.Highest.Percent,
			r.Summary.Lowest.AgeGroup, r.Summary.Lowest.Percent,
			r.Summary.MeanPercent, r.Summary.SpreadPercent)
	}

	p.Fprintf(tw, "\n[%d 지역별 면허 반납]\n", r.Year)
	p.Fprintln(tw, "지역\t65세 이상\t전체\t반납률")
	for _, rec := range r.Regional {
		p.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\n", rec.Region, rec.ElderlyCount, rec.TotalCount, rec.SurrenderRate)
	}

	p.Fprintln(tw, "\n[연도별 추이]")
	p.Fprintln(tw, "연도\t65세 이상\t전체\t반납률\t전년 대비")
	for i, rec := range r.Trend {
		change := "-"
		if i > 0 && i-1 < len(r.Changes) {
			change = p.Sprintf("%+.2f%%p", r.Changes[i-1].RateDelta)
		}
		// Years are printed without grouping.
		p.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\t%s\n", fmt.Sprint(rec.Year), rec.ElderlySum, rec.TotalSum, rec.Rate, change)
	}

	return tw.Flush()
}

func summaryCmd(opts *rootOptions) *cobra.Command {
	var (
		year   int
		groups []string
		dump   bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the accident, regional and trend tables",
		Example: `  surrender summary
  surrender summary --year 2022 --groups 60대,"65세 이상"
  surrender summary --dump`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			r, err := a.buildReport(year, groups)
			if err != nil {
				return a.fail(err)
			}
			if dump {
				spew.Fdump(a.out, r)
				return nil
			}
			return printReport(a.out, r)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year of the regional table (default: target_year)")
	cmd.Flags().StringSliceVar(&groups, "groups", nil, "age groups to keep in the accident table")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the raw records instead of the tables")
	return cmd
}

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		year   int
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the tables to an xlsx workbook, one sheet per table",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			if output == "" {
				output = a.cfg.ExportFile
			}
			r, err := a.buildReport(year, nil)
			if err != nil {
				return a.fail(err)
			}
			if err := utils.SaveToExcel(output, r.sheets()...); err != nil {
				return a.fail(err)
			}

			a.logger.Event(storage.INFO).Str("output", output).Int("year", r.Year).Msg("report exported")
			fmt.Fprintf(a.out, "exported %s\n", output)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year of the regional table (default: target_year)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "workbook path (default: export_file)")
	return cmd
}

func watchCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-export whenever the data file changes",
		Long: `watch exports once, then again every time the data file is written and
on every refresh_interval tick. SIGHUP reopens the log file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			if output == "" {
				output = a.cfg.ExportFile
			}
			if err := a.watch(cmd.Context(), output); err != nil {
				return a.fail(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "workbook path (default: export_file)")
	return cmd
}

// exporter rebuilds the report through a Cache and writes it to output. The
// cache re-reads the data file only when its modification time or size moved.
type exporter struct {
	a      *app
	output string
	mu     sync.Mutex
}

func newExporter(a *app, output string) *exporter {
	a.loader = processor.NewCache(a.loader)
	return &exporter{a: a, output: output}
}

func (e *exporter) refresh(reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.a.buildReport(0, nil)
	if err != nil {
		return err
	}
	if err := utils.SaveToExcel(e.output, r.sheets()...); err != nil {
		return err
	}
	e.a.logger.Event(storage.INFO).
		Str("reason", reason).Str("output", e.output).Int("regions", len(r.Regional)).
		Msg("report exported")
	return nil
}

// tick is the scheduled job: rotate the log if needed, then refresh.
func (e *exporter) tick() error {
	if err := e.a.logger.CheckRotate(e.a.cfg); err != nil {
		e.a.logger.Event(storage.ERROR).Err(err).Msg("log rotation failed")
	}
	return e.refresh("schedule")
}

// watch exports the report to output until ctx is done. A data error stops
// the loop so that the workbook is never rewritten from bad input.
func (a *app) watch(ctx context.Context, output string) error {
	monitor, err := file.NewFileMonitor(a.cfg.DataFile)
	if err != nil {
		return err
	}
	defer monitor.Close()

	exp := newExporter(a, output)
	if err := exp.refresh("start"); err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	if a.cfg.RefreshInterval > 0 {
		c := cron.New()
		spec := fmt.Sprintf("@every %s", a.cfg.RefreshInterval)
		err := c.AddFunc(spec, func() {
			if err := exp.tick(); err != nil {
				cancel(err)
			}
		})
		if err != nil {
			return fmt.Errorf("schedule refresh %q: %w", spec, err)
		}
		c.Start()
		defer c.Stop()
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := a.logger.Reopen(a.cfg.LogName); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			}
		}
	}()

	a.logger.Event(storage.INFO).
		Str("path", a.cfg.DataFile).Str("interval", a.cfg.RefreshInterval.String()).
		Msg("watching data file")

	err = monitor.Watch(ctx, func(string) {
		if err := exp.refresh("file changed"); err != nil {
			cancel(err)
		}
	})
	if err != nil {
		return err
	}
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return nil
}
