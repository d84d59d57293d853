package process

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/veraarmas/telar/internal/config"
	"github.com/veraarmas/telar/internal/crossref"
	"github.com/veraarmas/telar/internal/logfields"
	"github.com/veraarmas/telar/internal/markdown"
	"github.com/veraarmas/telar/internal/record"
	"github.com/veraarmas/telar/internal/schema"
	"github.com/veraarmas/telar/internal/warnings"
)

// Viewer position defaults applied to empty coordinate cells.
const (
	defaultX    = "0.5"
	defaultY    = "0.5"
	defaultZoom = "1"
)

// layers are the panel content columns a story row may carry. Legacy _file
// column names arrive here already renamed by schema normalization.
var layers = []string{"layer1", "layer2"}

// StoryProcessor converts one story table into step records: object
// reference validation, panel content rendering, cross-reference linking,
// and coordinate defaults.
type StoryProcessor struct {
	cfg     *config.Config
	strings *config.Strings
	logger  *slog.Logger
	content *markdown.Processor
	linker  *crossref.Linker
	objects map[string]*record.Object
	root    string
}

func NewStoryProcessor(cfg *config.Config, strs *config.Strings, logger *slog.Logger,
	content *markdown.Processor, linker *crossref.Linker, objects []*record.Object, root string) *StoryProcessor {
	lookup := make(map[string]*record.Object, len(objects))
	for _, obj := range objects {
		lookup[obj.ObjectID] = obj
	}
	return &StoryProcessor{
		cfg:     cfg,
		strings: strs,
		logger:  logger,
		content: content,
		linker:  linker,
		objects: lookup,
		root:    root,
	}
}

// Process converts the story table into step records and the aggregated
// warning list the renderer shows in the story's intro panel. Warning order
// is stable: per-step viewer and panel warnings first, then glossary, then
// widget warnings.
func (p *StoryProcessor) Process(table *schema.Table, christmasTree bool) ([]*record.StoryStep, *warnings.List) {
	stepWarn := &warnings.List{}
	glossaryWarn := &warnings.List{}
	widgetWarn := &warnings.List{}

	var steps []*record.StoryStep
	for row := range table.Rows {
		if table.IsEmptyRow(row) {
			continue
		}
		step := &record.StoryStep{
			Step:     table.Cell(row, "step"),
			Object:   table.Cell(row, "object"),
			X:        table.Cell(row, "x"),
			Y:        table.Cell(row, "y"),
			Zoom:     table.Cell(row, "zoom"),
			Question: table.Cell(row, "question"),
			Answer:   table.Cell(row, "answer"),
		}
		applyCoordinateDefaults(step)
		p.validateObjectRef(step, stepWarn)

		p.processLayer(step, table.Cell(row, "layer1_content"), "layer1",
			&step.Layer1Title, &step.Layer1Text, stepWarn, glossaryWarn, widgetWarn)
		step.Layer1Button = table.Cell(row, "layer1_button")
		p.processLayer(step, table.Cell(row, "layer2_content"), "layer2",
			&step.Layer2Title, &step.Layer2Text, stepWarn, glossaryWarn, widgetWarn)
		step.Layer2Button = table.Cell(row, "layer2_button")

		steps = append(steps, step)
	}

	all := &warnings.List{}
	all.Extend(stepWarn)
	all.Extend(glossaryWarn)
	all.Extend(widgetWarn)

	if christmasTree {
		injectTestWarnings(all, p.strings)
		p.logger.Info("christmas tree mode: injected test warnings into story")
	}
	if all.Len() > 0 {
		p.logger.Info("story validation summary", logfields.Warnings(all.Len()))
	}
	return steps, all
}

// validateObjectRef checks the step's object reference against the object
// records. Lookups are case-insensitive; a case-only mismatch is corrected
// in place. Objects without an external manifest must have a local image.
func (p *StoryProcessor) validateObjectRef(step *record.StoryStep, warn *warnings.List) {
	objectID := step.Object
	if objectID == "" {
		return
	}

	obj, ok := p.objects[objectID]
	if !ok {
		for id, candidate := range p.objects {
			if strings.EqualFold(id, objectID) {
				obj = candidate
				step.Object = id
				break
			}
		}
	}

	if obj == nil {
		step.ViewerWarning = p.strings.Format("errors.object_warnings.object_not_found",
			map[string]any{"object_id": objectID})
		p.logger.Warn("story step references missing object",
			logfields.Step(step.Step), logfields.ObjectID(objectID))
		warn.Add(warnings.Warning{Step: step.Step, Type: warnings.CategoryViewer, Message: step.ViewerWarning})
		return
	}

	if obj.ManifestURL() != "" {
		return
	}
	imagesDir := filepath.Join(p.root, p.cfg.Paths.ImagesDir)
	for _, ext := range localImageExtensions {
		if _, err := os.Stat(filepath.Join(imagesDir, obj.ObjectID+ext)); err == nil {
			return
		}
	}
	step.ViewerWarning = p.strings.Format("errors.object_warnings.object_no_source",
		map[string]any{"object_id": obj.ObjectID})
	p.logger.Warn("story step references object without any source",
		logfields.Step(step.Step), logfields.ObjectID(obj.ObjectID))
	warn.Add(warnings.Warning{Step: step.Step, Type: warnings.CategoryViewer, Message: step.ViewerWarning})
}

// processLayer turns one panel content cell into a title and rendered HTML.
// Cells ending in .md reference files under the texts stories directory;
// anything else is inline content. Cross-references resolve after rendering.
func (p *StoryProcessor) processLayer(step *record.StoryStep, cell, layer string,
	title, text *string, stepWarn, glossaryWarn, widgetWarn *warnings.List) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return
	}

	var content *markdown.Content
	if strings.HasSuffix(cell, ".md") {
		content = p.content.ReadFile(filepath.Join("stories", cell), widgetWarn)
		if content == nil {
			p.missingContent(step, cell, layer, title, text, stepWarn)
			return
		}
	} else {
		content = p.content.Inline(cell, widgetWarn)
		if content == nil {
			return
		}
	}

	*title = content.Title
	*text = p.linker.Link(content.HTML, crossref.Context{Step: step.Step, Layer: layer}, glossaryWarn)
}

// missingContent fills a panel whose referenced file does not exist with a
// visible placeholder and records the panel warning.
func (p *StoryProcessor) missingContent(step *record.StoryStep, file, layer string,
	title, text *string, warn *warnings.List) {
	msg := p.strings.Format("errors.object_warnings.content_file_missing", map[string]any{"file_ref": file})
	*title = p.strings.Get("errors.object_warnings.content_missing_label")
	*text = fmt.Sprintf(`<p class="content-missing"><strong>%s</strong></p>`, msg)
	p.logger.Warn("panel content file not found",
		logfields.Step(step.Step), logfields.File(file), slog.String("layer", layer))
	warn.Add(warnings.Warning{Step: step.Step, Type: warnings.CategoryPanel, Layer: layer, Message: msg})
}

func applyCoordinateDefaults(step *record.StoryStep) {
	if strings.TrimSpace(step.X) == "" {
		step.X = defaultX
	}
	if strings.TrimSpace(step.Y) == "" {
		step.Y = defaultY
	}
	if strings.TrimSpace(step.Zoom) == "" {
		step.Zoom = defaultZoom
	}
}
