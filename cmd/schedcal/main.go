package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"schedcal/internal/calendar"
	"schedcal/internal/capture"
	"schedcal/internal/config"
	"schedcal/internal/export"
	"schedcal/internal/ics"
	appLog "schedcal/internal/log"
	"schedcal/internal/model"
	"schedcal/internal/parser"
	"schedcal/internal/source"
	"schedcal/internal/web"
)

// flagConfig holds CLI flag values; non-empty values override the config file.
type flagConfig struct {
	configPath  string
	in          string
	html        bool
	url         string
	browser     bool
	out         string
	csvPath     string
	summary     string
	description string
	preview     int
	serve       bool
	listen      string
	logLevel    string
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	applyFlags(conf, flags)
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Debug("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"output_dir", conf.OutputDir,
		"summary_template", conf.SummaryTemplate,
		"description_template", conf.DescriptionTemplate,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if flags.serve {
		if err := web.StartServer(ctx, conf); err != nil {
			appLog.Error("http server failed", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, conf, flags); err != nil {
		appLog.Error("schedcal failed", err)
		os.Exit(1)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", defaultConfigPath(), "Path to config file")
	flag.StringVar(&cfg.in, "in", "-", "Schedule text or saved .html page; - reads stdin")
	flag.BoolVar(&cfg.html, "html", false, "Treat -in as a saved HTML page regardless of its extension")
	flag.StringVar(&cfg.url, "url", "", "Fetch the schedule page from this URL instead of -in")
	flag.BoolVar(&cfg.browser, "browser", false, "With -url, render the page in headless Chromium and capture its text")
	flag.StringVar(&cfg.out, "out", "", "Output directory for the .ics file (overrides config)")
	flag.StringVar(&cfg.csvPath, "csv", "", "Also write the parsed sessions as CSV to this path")
	flag.StringVar(&cfg.summary, "summary", "", "Event summary template (overrides config)")
	flag.StringVar(&cfg.description, "description", "", "Event description template (overrides config)")
	flag.IntVar(&cfg.preview, "preview", 0, "Log the meetings of the first N days of term")
	flag.BoolVar(&cfg.serve, "serve", false, "Serve the HTTP API instead of converting once")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config)")
	flag.StringVar(&cfg.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	flag.Parse()

	return cfg
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "schedcal.yaml"
	}
	return filepath.Join(dir, "schedcal", "config.yaml")
}

func applyFlags(conf *config.Config, f flagConfig) {
	if f.listen != "" {
		conf.Listen = f.listen
	}
	if f.out != "" {
		conf.OutputDir = f.out
	}
	if f.summary != "" {
		conf.SummaryTemplate = f.summary
	}
	if f.description != "" {
		conf.DescriptionTemplate = f.description
	}
	if f.logLevel != "" {
		conf.LogLevel = f.logLevel
	}
}

// run performs one text -> schedule -> calendar conversion.
func run(ctx context.Context, conf *config.Config, f flagConfig) error {
	text, err := loadText(ctx, conf, f)
	if err != nil {
		return err
	}

	parsed, err := parser.Parse(text)
	if err != nil {
		return err
	}
	sched := parsed.Schedule
	appLog.Info("schedule parsed",
		"term", sched.Term.Season+" "+sched.Term.Year,
		"institution", sched.Term.Institution,
		"courses", len(sched.Courses),
		"sessions", sched.SessionCount(),
	)

	if f.csvPath != "" {
		if err := writeCSV(f.csvPath, sched); err != nil {
			return err
		}
		appLog.Info("sessions csv written", "path", f.csvPath)
	}

	var comp calendar.Compiler
	res := comp.Compile(sched, conf.SummaryTemplate, conf.DescriptionTemplate)

	if err := os.MkdirAll(conf.OutputDir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(conf.OutputDir, sched.Filename())
	if err := os.WriteFile(outPath, res.Document, 0o644); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	appLog.Info("calendar written", "path", outPath, "events", res.Events, "warnings", len(res.Warnings))

	if f.preview > 0 {
		loc, err := conf.Location()
		if err != nil {
			appLog.Error("failed to load timezone; falling back to local", err, "name", conf.Timezone)
		}
		logPreview(res.Document, sched, f.preview, loc)
	}
	return nil
}

func loadText(ctx context.Context, conf *config.Config, f flagConfig) (string, error) {
	switch {
	case f.url != "" && f.browser:
		return capture.CapturePageText(ctx, capture.CaptureOptions{
			URL:      f.url,
			Selector: conf.Capture.Selector,
			Timeout:  time.Duration(conf.Capture.TimeoutSeconds) * time.Second,
		})
	case f.url != "":
		res, err := source.NewFetcher(conf.FetchCacheDir).Fetch(ctx, f.url)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	case f.browser:
		return "", errors.New("-browser requires -url")
	case f.html:
		return source.FromHTMLFile(f.in)
	default:
		return source.FromFile(f.in)
	}
}

func writeCSV(path string, sched model.ParsedSchedule) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteSessionsCSV(f, sched); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// logPreview logs the meetings in the first days of term, starting at the
// earliest session start date.
func logPreview(doc []byte, sched model.ParsedSchedule, days int, loc *time.Location) {
	var first time.Time
	for _, c := range sched.Courses {
		for _, s := range c.Sessions {
			if first.IsZero() || s.StartDate.Before(first) {
				first = s.StartDate
			}
		}
	}
	if first.IsZero() {
		appLog.Info("preview: no sessions")
		return
	}

	from := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)
	res, err := ics.Preview(doc, from, days, loc)
	if err != nil {
		appLog.Error("preview failed", err)
		return
	}
	for _, occ := range res.Occurrences {
		appLog.Info("preview",
			"start", occ.Start.Format("Mon 2006-01-02 15:04"),
			"end", occ.End.Format("15:04"),
			"summary", occ.Summary,
			"location", occ.Location,
		)
	}
}
