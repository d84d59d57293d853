// Package pipeline orchestrates the full build: read and normalize the
// structure spreadsheets, run the per-type processors, overlay demo content,
// generate search data, and serialize everything to the data directory.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veraarmas/telar/internal/config"
	"github.com/veraarmas/telar/internal/crossref"
	"github.com/veraarmas/telar/internal/demo"
	"github.com/veraarmas/telar/internal/logfields"
	"github.com/veraarmas/telar/internal/markdown"
	"github.com/veraarmas/telar/internal/metrics"
	"github.com/veraarmas/telar/internal/process"
	"github.com/veraarmas/telar/internal/record"
	"github.com/veraarmas/telar/internal/schema"
	"github.com/veraarmas/telar/internal/search"
	"github.com/veraarmas/telar/internal/util/sets"
	"github.com/veraarmas/telar/internal/warnings"
	"github.com/veraarmas/telar/internal/widget"
)

// systemCSVs are structure spreadsheets with dedicated processors; every
// other CSV in the structures directory is a story.
var systemCSVs = sets.New(
	"project.csv", "proyecto.csv",
	"objects.csv", "objetos.csv",
	"glossary.csv", "glosario.csv",
)

// Report summarizes one build for the CLI.
type Report struct {
	BuildID  string
	Stories  []string
	Objects  int
	Warnings int
	Duration time.Duration
}

// Builder runs the content pipeline for one site.
type Builder struct {
	cfg     *config.Config
	strings *config.Strings
	logger  *slog.Logger
	metrics metrics.Recorder
	root    string
}

// New wires a builder. rec may be nil for no metrics.
func New(cfg *config.Config, logger *slog.Logger, rec metrics.Recorder, root string) *Builder {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	strs := config.LoadStrings(filepath.Join(root, cfg.Paths.LanguagesDir), cfg.SiteLanguage())
	return &Builder{
		cfg:     cfg,
		strings: strs,
		logger:  logger,
		metrics: rec,
		root:    root,
	}
}

// Run executes the full build. Individual record problems degrade to
// warnings; only infrastructure failures (unreadable directories,
// unwritable output) return an error.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	buildID := uuid.NewString()
	logger := b.logger.With(logfields.BuildID(buildID))

	christmasTree := b.cfg.ChristmasTreeMode()
	if christmasTree {
		logger.Info("christmas tree mode enabled, injecting test records with errors")
	}

	dataDir := filepath.Join(b.root, b.cfg.Paths.DataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	normalizer := schema.NewNormalizer(logger)
	content, linker := b.contentPipeline(normalizer, logger)
	report := &Report{BuildID: buildID}
	totalWarnings := 0

	// Project.
	project := record.Project{Stories: []record.ProjectEntry{}}
	if table, ok := b.readStructure("project", "proyecto", normalizer, logger); ok {
		stageStart := time.Now()
		warn := &warnings.List{}
		project = process.BuildProject(table, logger, warn)
		totalWarnings += b.recordWarnings(warn)
		b.metrics.IncRecords("project", len(project.Stories))
		b.observeStage("project", stageStart, logger)
	}

	// Objects.
	var objects []*record.Object
	if table, ok := b.readStructure("objects", "objetos", normalizer, logger); ok {
		stageStart := time.Now()
		processor := process.NewObjectProcessor(b.cfg, b.strings, logger, b.metrics, b.root)
		var warn *warnings.List
		objects, warn = processor.Process(ctx, table, christmasTree)
		totalWarnings += b.recordWarnings(warn)
		b.metrics.IncRecords("objects", len(objects))
		b.observeStage("objects", stageStart, logger)
	}

	// Stories.
	storyProcessor := process.NewStoryProcessor(b.cfg, b.strings, logger, content, linker, objects, b.root)
	storyFiles, err := b.discoverStories()
	if err != nil {
		return nil, err
	}
	for _, csvPath := range storyFiles {
		stageStart := time.Now()
		name := strings.TrimSuffix(filepath.Base(csvPath), ".csv")
		table, ok := b.readTable(csvPath, normalizer, logger)
		if !ok {
			continue
		}
		steps, warn := storyProcessor.Process(table, christmasTree)
		totalWarnings += b.recordWarnings(warn)
		b.metrics.IncRecords("story_steps", len(steps))

		if err := writeJSON(filepath.Join(dataDir, name+".json"), storyDocument(steps, warn)); err != nil {
			return nil, err
		}
		logger.Info("converted story", logfields.StoryID(name), slog.Int("steps", len(steps)))
		report.Stories = append(report.Stories, name)
		b.observeStage("story:"+name, stageStart, logger)
	}

	// Demo content overlay.
	if b.cfg.IncludeDemoContent {
		if bundle := demo.LoadBundle(filepath.Join(b.root, b.cfg.Paths.DemoBundle), logger); bundle != nil {
			merger := demo.NewMerger(bundle, content, b.strings, logger)
			merger.MergeProject(&project)
			objects = merger.MergeObjects(objects)

			demoStories := merger.BuildStories()
			ids := make([]string, 0, len(demoStories))
			for id := range demoStories {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				if err := writeJSON(filepath.Join(dataDir, id+".json"), demoStories[id]); err != nil {
					return nil, err
				}
				report.Stories = append(report.Stories, id)
			}

			if terms := merger.GlossaryRecords(); len(terms) > 0 {
				if err := writeJSON(filepath.Join(dataDir, "demo-glossary.json"), terms); err != nil {
					return nil, err
				}
				logger.Info("created demo glossary", slog.Int("terms", len(terms)))
			}
		}
	}

	// Serialize project and objects after the demo overlay so merged
	// records land in the same whole-file write.
	if err := writeJSON(filepath.Join(dataDir, "project.json"), []record.Project{project}); err != nil {
		return nil, err
	}
	if objects != nil {
		if err := writeJSON(filepath.Join(dataDir, "objects.json"), objects); err != nil {
			return nil, err
		}
	}

	if err := b.writeSearchData(objects, logger); err != nil {
		return nil, err
	}
	b.checkProtectedStories(project, logger)

	report.Objects = len(objects)
	report.Warnings = totalWarnings
	report.Duration = time.Since(start)
	b.metrics.ObserveBuildDuration(report.Duration)
	logger.Info("build complete",
		slog.Int("stories", len(report.Stories)),
		slog.Int("objects", report.Objects),
		logfields.Warnings(report.Warnings),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

// contentPipeline wires the shared markdown processor and glossary linker.
// Widget templates are optional: without them widget blocks degrade to
// inline errors, which is the right signal on a site missing its theme.
func (b *Builder) contentPipeline(normalizer *schema.Normalizer, logger *slog.Logger) (*markdown.Processor, *crossref.Linker) {
	templates, err := widget.LoadTemplates(filepath.Join(b.root, b.cfg.Paths.WidgetTemplatesDir))
	if err != nil {
		logger.Warn("widget templates unavailable", logfields.Error(err))
		templates = nil
	}

	renderer := markdown.NewRenderer()
	interpreter := widget.NewInterpreter(templates, renderer, filepath.Join(b.root, b.cfg.Paths.AssetImagesDir))
	content := markdown.NewProcessor(filepath.Join(b.root, b.cfg.Paths.TextsDir), interpreter, logger)

	index := crossref.LoadIndex(
		filepath.Join(b.root, b.cfg.Paths.StructuresDir),
		filepath.Join(b.root, b.cfg.Paths.TextsDir),
		normalizer, logger)
	return content, crossref.NewLinker(index, b.strings)
}

// readStructure opens a structure spreadsheet with bilingual filename
// fallback: the English name first, then the Spanish equivalent.
func (b *Builder) readStructure(english, spanish string, normalizer *schema.Normalizer, logger *slog.Logger) (*schema.Table, bool) {
	dir := filepath.Join(b.root, b.cfg.Paths.StructuresDir)
	path := filepath.Join(dir, english+".csv")
	if _, err := os.Stat(path); err != nil {
		spanishPath := filepath.Join(dir, spanish+".csv")
		if _, err := os.Stat(spanishPath); err != nil {
			logger.Warn("structure spreadsheet not found, skipping", logfields.File(path))
			return nil, false
		}
		logger.Info("using Spanish spreadsheet", logfields.File(spanishPath))
		path = spanishPath
	}
	return b.readTable(path, normalizer, logger)
}

func (b *Builder) readTable(path string, normalizer *schema.Normalizer, logger *slog.Logger) (*schema.Table, bool) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("could not open spreadsheet", logfields.File(path), logfields.Error(err))
		return nil, false
	}
	defer f.Close()

	table, err := schema.ReadCSV(f)
	if err != nil {
		logger.Warn("could not parse spreadsheet", logfields.File(path), logfields.Error(err))
		return nil, false
	}
	normalizer.Normalize(table)
	return table, true
}

// discoverStories lists every CSV in the structures directory that is not a
// system spreadsheet, sorted for deterministic build order.
func (b *Builder) discoverStories() ([]string, error) {
	dir := filepath.Join(b.root, b.cfg.Paths.StructuresDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read structures dir: %w", err)
	}

	var stories []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") || systemCSVs.Has(name) {
			continue
		}
		stories = append(stories, filepath.Join(dir, name))
	}
	sort.Strings(stories)
	return stories, nil
}

func (b *Builder) writeSearchData(objects []*record.Object, logger *slog.Logger) error {
	path := filepath.Join(b.root, "search-data.json")
	if !b.cfg.Collection.BrowseAndSearchEnabled() {
		logger.Info("browse_and_search disabled, skipping search data generation")
		if err := os.Remove(path); err == nil {
			logger.Info("removed stale search data file", logfields.File(path))
		}
		return nil
	}
	data := search.Build(objects, logger)
	if data == nil {
		return nil
	}
	return writeJSON(path, data)
}

// checkProtectedStories flags protected stories that cannot be encrypted
// downstream because no story key is configured.
func (b *Builder) checkProtectedStories(project record.Project, logger *slog.Logger) {
	var protected []string
	for _, story := range project.Stories {
		if story.Protected {
			protected = append(protected, story.StoryID)
		}
	}
	if len(protected) > 0 && b.cfg.StoryKey == "" {
		logger.Warn("protected stories present but no story_key configured, they will not be encrypted",
			slog.Int("count", len(protected)))
	}
}

// recordWarnings forwards per-category warning counts to metrics and
// returns the total.
func (b *Builder) recordWarnings(warn *warnings.List) int {
	counts := map[warnings.Category]int{}
	for _, w := range warn.Items() {
		counts[w.Type]++
	}
	for category, n := range counts {
		b.metrics.IncWarnings(string(category), n)
	}
	return warn.Len()
}

func (b *Builder) observeStage(stage string, start time.Time, logger *slog.Logger) {
	d := time.Since(start)
	b.metrics.ObserveStageDuration(stage, d)
	logger.Info("stage complete", logfields.Stage(stage), logfields.DurationMS(float64(d.Milliseconds())))
}
