package report

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"ulascansenturk/weather-reports/internal/db/weatherdata"
)

const (
	filePrefix  = "report_"
	fileSuffix  = ".html"
	stampLayout = "2006-01-02_15-04-05"

	maxCollisions = 100
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Options struct {
	Dir    string
	Now    func() time.Time
	Logger zerolog.Logger
}

type Builder struct {
	dir    string
	now    func() time.Time
	policy *bluemonday.Policy
	logger zerolog.Logger
}

func NewBuilder(opts Options) (*Builder, error) {
	if opts.Dir == "" {
		opts.Dir = "reports"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}

	return &Builder{
		dir:    opts.Dir,
		now:    opts.Now,
		policy: bluemonday.UGCPolicy(),
		logger: opts.Logger,
	}, nil
}

func (b *Builder) Dir() string {
	return b.dir
}

type section struct {
	City          string
	TimezoneLabel string
	Country       string
	Offset        string
	Description   template.HTML
	HasWeather    bool
	Condition     string
	Temperature   string
	Humidity      string
	Wind          string
	ClimateType   string
	ClimateClass  string
	Icon          string
	ImageURL      string
	VideoURL      string
}

type page struct {
	Stamp       string
	GeneratedAt string
	Sections    []section
}

// BuildDailyReport renders entries into a new report file and returns its
// path. An existing file is never overwritten.
func (b *Builder) BuildDailyReport(entries []weatherdata.LocationWeather) (string, error) {
	now := b.now()

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "daily.html", b.page(now, entries)); err != nil {
		b.logger.Error().Err(err).Msg("Failed to render report")
		return "", fmt.Errorf("render report: %w", err)
	}

	path, err := b.writeExclusive(now.Format(stampLayout), buf.Bytes())
	if err != nil {
		b.logger.Error().Err(err).Str("dir", b.dir).Msg("Failed to write report")
		return "", err
	}

	b.logger.Info().Str("path", path).Int("locations", len(entries)).Msg("Report generated")
	return path, nil
}

// RenderEmailBody renders the compact e-mail version of the report.
func (b *Builder) RenderEmailBody(entries []weatherdata.LocationWeather) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "email.html", b.page(b.now(), entries)); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return buf.String(), nil
}

// PruneOlderThan removes report files last modified before cutoff.
func (b *Builder) PruneOlderThan(cutoff time.Time) (int, error) {
	files, err := os.ReadDir(b.dir)
	if err != nil {
		return 0, fmt.Errorf("read reports dir: %w", err)
	}

	removed := 0
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(b.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("remove %s: %w", name, err)
		}
		removed++
	}

	return removed, nil
}

func (b *Builder) writeExclusive(stamp string, content []byte) (string, error) {
	for i := 0; i < maxCollisions; i++ {
		name := filePrefix + stamp + fileSuffix
		if i > 0 {
			name = fmt.Sprintf("%s%s_%d%s", filePrefix, stamp, i, fileSuffix)
		}
		path := filepath.Join(b.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create report file: %w", err)
		}

		if _, err := f.Write(content); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("write report file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close report file: %w", err)
		}
		return path, nil
	}

	return "", fmt.Errorf("create report file: %d files already exist for %s", maxCollisions, stamp)
}

func (b *Builder) page(now time.Time, entries []weatherdata.LocationWeather) page {
	p := page{
		Stamp:       now.Format(stampLayout),
		GeneratedAt: now.Format("02/01/2006 às 15:04:05"),
		Sections:    make([]section, 0, len(entries)),
	}
	for _, e := range entries {
		p.Sections = append(p.Sections, b.section(e))
	}
	return p
}

func (b *Builder) section(e weatherdata.LocationWeather) section {
	s := section{
		City:          orNA(e.Location.City),
		TimezoneLabel: orNA(e.Location.TimezoneLabel),
		Country:       orNA(e.Location.Country),
		Offset:        orNA(e.Location.Offset),
		Description:   template.HTML(b.policy.Sanitize(orNA(e.Location.Description))),
	}

	w := e.Snapshot
	if w == nil {
		return s
	}

	s.HasWeather = true
	s.Condition = orNA(w.Condition)
	s.Temperature = fmt.Sprintf("%.1f", w.Temperature)
	s.Humidity = "N/A"
	if w.Humidity != nil {
		s.Humidity = fmt.Sprintf("%d", *w.Humidity)
	}
	s.Wind = "N/A"
	if w.WindSpeed != nil {
		s.Wind = fmt.Sprintf("%.1f", *w.WindSpeed)
	}
	s.ClimateType = w.ClimateType
	s.ClimateClass = ClimateClass(w.ClimateType)
	s.Icon = WeatherIcon(w.Condition)
	s.ImageURL = w.ImageURL
	s.VideoURL = w.VideoURL
	return s
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}
