package demo

import (
	"log/slog"
	"sort"

	"github.com/veraarmas/telar/internal/config"
	"github.com/veraarmas/telar/internal/crossref"
	"github.com/veraarmas/telar/internal/markdown"
	"github.com/veraarmas/telar/internal/record"
	"github.com/veraarmas/telar/internal/util/sets"
	"github.com/veraarmas/telar/internal/warnings"
)

// Merger overlays a bundle onto site records. Demo story panels run through
// the same widget, image, markdown, and cross-reference pipeline as author
// content, but links resolve only against the bundle's own glossary.
type Merger struct {
	bundle  *Bundle
	content *markdown.Processor
	linker  *crossref.Linker
	logger  *slog.Logger
}

func NewMerger(bundle *Bundle, content *markdown.Processor, strs *config.Strings, logger *slog.Logger) *Merger {
	index := crossref.Index{}
	for termID, term := range bundle.Glossary {
		title := term.Term
		if title == "" {
			title = termID
		}
		index[termID] = title
	}
	return &Merger{
		bundle:  bundle,
		content: content,
		linker:  crossref.NewLinker(index, strs),
		logger:  logger,
	}
}

// MergeProject prepends the bundle's stories to the project list, so demo
// stories appear first for new users.
func (m *Merger) MergeProject(project *record.Project) {
	if len(m.bundle.Project) == 0 {
		return
	}
	demoEntries := make([]record.ProjectEntry, 0, len(m.bundle.Project))
	for _, entry := range m.bundle.Project {
		demoEntries = append(demoEntries, record.ProjectEntry{
			Number:   stringify(entry.Order, ""),
			StoryID:  entry.StoryID,
			Title:    entry.Title,
			Subtitle: entry.Subtitle,
			Byline:   entry.Byline,
			Demo:     true,
		})
	}
	project.Stories = append(demoEntries, project.Stories...)
	m.logger.Info("merged demo stories into project", slog.Int("count", len(demoEntries)))
}

// MergeObjects appends demo objects that do not collide with an author
// object ID. Author objects always win.
func (m *Merger) MergeObjects(objects []*record.Object) []*record.Object {
	if len(m.bundle.Objects) == 0 {
		return objects
	}
	existing := sets.New[string]()
	for _, obj := range objects {
		existing.Add(obj.ObjectID)
	}

	ids := make([]string, 0, len(m.bundle.Objects))
	for id := range m.bundle.Objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	added := 0
	for _, id := range ids {
		if existing.Has(id) {
			continue
		}
		src := m.bundle.Objects[id]
		objects = append(objects, &record.Object{
			ObjectID:     id,
			Title:        src.Title,
			Description:  src.Description,
			SourceURL:    src.SourceURL,
			IIIFManifest: src.SourceURL,
			Creator:      src.Creator,
			Period:       src.Period,
			Medium:       src.Medium,
			Dimensions:   src.Dimensions,
			Source:       src.Location,
			Credit:       src.Credit,
			Thumbnail:    src.Thumbnail,
			Demo:         true,
		})
		added++
	}
	m.logger.Info("merged demo objects", slog.Int("count", added))
	return objects
}

// BuildStories synthesizes step records for every demo story, keyed by
// story ID. Panel content renders through the full content pipeline.
func (m *Merger) BuildStories() map[string][]*record.StoryStep {
	stories := make(map[string][]*record.StoryStep, len(m.bundle.Stories))
	for storyID, story := range m.bundle.Stories {
		steps := make([]*record.StoryStep, 0, len(story.Steps))
		for _, src := range story.Steps {
			step := &record.StoryStep{
				Step:     stringify(src.Step, ""),
				Object:   src.Object,
				X:        stringify(src.X, "0.5"),
				Y:        stringify(src.Y, "0.5"),
				Zoom:     stringify(src.Zoom, "1"),
				Question: src.Question,
				Answer:   src.Answer,
				Demo:     true,
			}
			m.fillLayer(src.Layers["layer1"], step.Step,
				&step.Layer1Button, &step.Layer1Title, &step.Layer1Text, &step.Layer1Demo)
			m.fillLayer(src.Layers["layer2"], step.Step,
				&step.Layer2Button, &step.Layer2Title, &step.Layer2Text, &step.Layer2Demo)
			steps = append(steps, step)
		}
		stories[storyID] = steps
		m.logger.Info("created demo story", slog.String("story_id", storyID), slog.Int("steps", len(steps)))
	}
	return stories
}

func (m *Merger) fillLayer(layer Layer, stepNum string, button, title, text *string, demoFlag *bool) {
	if layer == (Layer{}) {
		return
	}
	*button = layer.Button
	*title = layer.Title
	if *title == "" {
		*title = layer.Button
	}
	*demoFlag = true

	if layer.Content == "" {
		return
	}
	// Widget warnings from demo content are discarded: demo authors fix the
	// bundle upstream, site authors cannot.
	discard := &warnings.List{}
	content := m.content.Inline(layer.Content, discard)
	if content == nil {
		return
	}
	*text = m.linker.Link(content.HTML, crossref.Context{Step: stepNum}, discard)
}

// GlossaryRecords converts the bundle glossary into term records for the
// demo glossary data file.
func (m *Merger) GlossaryRecords() []record.GlossaryTerm {
	if len(m.bundle.Glossary) == 0 {
		return nil
	}
	ids := make([]string, 0, len(m.bundle.Glossary))
	for id := range m.bundle.Glossary {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	terms := make([]record.GlossaryTerm, 0, len(ids))
	for _, id := range ids {
		src := m.bundle.Glossary[id]
		title := src.Term
		if title == "" {
			title = id
		}
		terms = append(terms, record.GlossaryTerm{
			TermID:  id,
			Title:   title,
			Content: src.Content,
			Demo:    true,
		})
	}
	return terms
}
