// Package search prepares object metadata for the gallery's client-side
// browse-and-search interface: a slimmed object list for text indexing in
// the browser plus pre-computed facet counts for the filter sidebar.
package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/veraarmas/telar/internal/record"
)

// Entry is one searchable object: the indexed text fields plus what the
// result card needs for display.
type Entry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Creator     string `json:"creator"`
	Period      string `json:"period"`
	Description string `json:"description"`
	ObjectType  string `json:"object_type"`
	Subjects    string `json:"subjects"`
	Year        string `json:"year"`
	Thumbnail   string `json:"thumbnail"`
	SourceURL   string `json:"source_url"`
	Demo        bool   `json:"demo"`
}

// FacetValue is one filterable value with its object count.
type FacetValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facets holds the pre-computed filter counts. Values are ordered by count
// descending, then alphabetically, so the most common appear first in the
// filter UI.
type Facets struct {
	ObjectType []FacetValue `json:"object_type"`
	Creator    []FacetValue `json:"creator"`
	Subjects   []FacetValue `json:"subjects"`
	Period     []FacetValue `json:"period"`
}

// Data is the serialized search dataset.
type Data struct {
	Objects []Entry `json:"objects"`
	Facets  Facets  `json:"facets"`
	Total   int     `json:"total"`
}

// Build assembles the search dataset from object records. Returns nil when
// there are no objects; the caller then skips writing the file.
func Build(objects []*record.Object, logger *slog.Logger) *Data {
	if len(objects) == 0 {
		logger.Info("no objects found, skipping search data generation")
		return nil
	}

	entries := make([]Entry, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, Entry{
			ID:          obj.ObjectID,
			Title:       obj.Title,
			Creator:     obj.Creator,
			Period:      obj.Period,
			Description: obj.Description,
			ObjectType:  obj.ObjectType,
			Subjects:    obj.Subjects,
			Year:        obj.Year,
			Thumbnail:   obj.Thumbnail,
			SourceURL:   obj.SourceURL,
			Demo:        obj.Demo,
		})
	}

	data := &Data{
		Objects: entries,
		Facets:  buildFacets(objects),
		Total:   len(entries),
	}
	logger.Info("generated search data",
		slog.Int("objects", len(entries)),
		slog.Int("facet_values", data.Facets.valueCount()))
	return data
}

// buildFacets tallies filterable values. Subjects are pipe-separated tags;
// each tag counts individually.
func buildFacets(objects []*record.Object) Facets {
	objectType := map[string]int{}
	creator := map[string]int{}
	subjects := map[string]int{}
	period := map[string]int{}

	for _, obj := range objects {
		tally(objectType, obj.ObjectType)
		tally(creator, obj.Creator)
		tally(period, obj.Period)
		for _, tag := range strings.Split(obj.Subjects, "|") {
			tally(subjects, tag)
		}
	}

	return Facets{
		ObjectType: sortFacet(objectType),
		Creator:    sortFacet(creator),
		Subjects:   sortFacet(subjects),
		Period:     sortFacet(period),
	}
}

func tally(counts map[string]int, value string) {
	if v := strings.TrimSpace(value); v != "" {
		counts[v]++
	}
}

func sortFacet(counts map[string]int) []FacetValue {
	values := make([]FacetValue, 0, len(counts))
	for name, count := range counts {
		values = append(values, FacetValue{Name: name, Count: count})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return strings.ToLower(values[i].Name) < strings.ToLower(values[j].Name)
	})
	return values
}

func (f Facets) valueCount() int {
	return len(f.ObjectType) + len(f.Creator) + len(f.Subjects) + len(f.Period)
}
