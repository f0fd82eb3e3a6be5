package recommend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTitle      = "이름 없는 요리"
	DefaultDifficulty = "초급"
	DefaultCategory   = "기타"
	DefaultTime       = 20
)

// ErrDatasetUnavailable is returned when none of the configured dataset
// paths exists.
var ErrDatasetUnavailable = errors.New("recipe dataset unavailable")

// Dataset is an immutable snapshot of the parsed dataset file.
type Dataset struct {
	Path     string
	ModTime  time.Time
	Recipes  []Candidate
	Skipped  int
	LoadedAt time.Time
}

// DatasetSource yields the current dataset snapshot.
type DatasetSource interface {
	Load() (*Dataset, error)
}

// Loader reads the first existing file of paths and caches it at process
// scope, reparsing only when the file's modification time changes.
type Loader struct {
	paths  []string
	logger *zap.Logger

	mu     sync.Mutex
	cached *Dataset
}

func NewLoader(paths []string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{paths: paths, logger: logger}
}

func (l *Loader) resolve() (string, os.FileInfo, error) {
	for _, p := range l.paths {
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, info, nil
		}
	}
	return "", nil, ErrDatasetUnavailable
}

// Load returns the cached snapshot, reloading it if the file changed.
func (l *Loader) Load() (*Dataset, error) {
	path, info, err := l.resolve()
	if err != nil {
		DatasetLoadsTotal.WithLabelValues("unavailable").Inc()
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil && l.cached.Path == path && l.cached.ModTime.Equal(info.ModTime()) {
		return l.cached, nil
	}

	f, err := os.Open(path)
	if err != nil {
		DatasetLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	recipes, skipped, err := ParseDataset(f, l.logger)
	if err != nil {
		DatasetLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}

	l.cached = &Dataset{
		Path:     path,
		ModTime:  info.ModTime(),
		Recipes:  recipes,
		Skipped:  skipped,
		LoadedAt: time.Now(),
	}
	DatasetLoadsTotal.WithLabelValues("loaded").Inc()
	DatasetRecipes.Set(float64(len(recipes)))
	l.logger.Info("recipe dataset loaded",
		zap.String("path", path),
		zap.Int("recipes", len(recipes)),
		zap.Int("skipped", skipped))

	return l.cached, nil
}

type columns struct {
	title, ingredients, time, difficulty, category int
}

func locateColumns(header []string) (columns, error) {
	cols := columns{title: -1, ingredients: -1, time: -1, difficulty: -1, category: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "food_title":
			cols.title = i
		case "ingredients":
			cols.ingredients = i
		case "time":
			cols.time = i
		case "difficulty":
			cols.difficulty = i
		case "category":
			cols.category = i
		case "cartegory":
			if cols.category < 0 {
				cols.category = i
			}
		}
	}
	if cols.ingredients < 0 {
		return cols, fmt.Errorf("dataset header has no ingredients column")
	}
	return cols, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// ParseMinutes keeps only the digits of s. "20분" is 20; no digits, or a
// value that does not fit an int, yields DefaultTime.
func ParseMinutes(s string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return DefaultTime
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return DefaultTime
	}
	return n
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ParseDataset reads CSV rows into candidates. Rows with a wrong field count
// or a parse error are skipped, counted and logged; only a missing or broken
// header fails the whole load.
func ParseDataset(r io.Reader, logger *zap.Logger) ([]Candidate, int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read dataset header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var (
		recipes []Candidate
		skipped int
		line    = 1
	)
	skip := func(reason string, fields ...zap.Field) {
		skipped++
		DatasetRowsSkipped.WithLabelValues(reason).Inc()
		logger.Warn("skipping dataset row", append(fields, zap.Int("line", line), zap.String("reason", reason))...)
	}

	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skip("parse_error", zap.Error(err))
				continue
			}
			return nil, skipped, fmt.Errorf("failed to read dataset: %w", err)
		}
		if len(record) != len(header) {
			skip("field_count", zap.Int("fields", len(record)), zap.Int("expected", len(header)))
			continue
		}

		recipes = append(recipes, NewCandidate(
			orDefault(field(record, cols.title), DefaultTitle),
			Segments(field(record, cols.ingredients)),
			ParseMinutes(field(record, cols.time)),
			orDefault(field(record, cols.difficulty), DefaultDifficulty),
			orDefault(field(record, cols.category), DefaultCategory),
		))
	}

	if skipped > 0 {
		logger.Warn("dataset rows skipped", zap.Int("skipped", skipped), zap.Int("loaded", len(recipes)))
	}
	return recipes, skipped, nil
}

// StaticDataset serves a fixed snapshot. It is used by tools and tests
// that already hold parsed candidates.
type StaticDataset struct {
	Snapshot *Dataset
}

func (s StaticDataset) Load() (*Dataset, error) {
	if s.Snapshot == nil {
		return nil, ErrDatasetUnavailable
	}
	return s.Snapshot, nil
}
