package process

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/veraarmas/telar/internal/config"
	"github.com/veraarmas/telar/internal/logfields"
	"github.com/veraarmas/telar/internal/metaext"
	"github.com/veraarmas/telar/internal/metrics"
	"github.com/veraarmas/telar/internal/paths"
	"github.com/veraarmas/telar/internal/record"
	"github.com/veraarmas/telar/internal/schema"
	"github.com/veraarmas/telar/internal/warnings"
)

// objectIDExtensions are file extensions authors accidentally paste into the
// object_id column; they are stripped so IDs stay extensionless.
var objectIDExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".tif", ".tiff", ".bmp", ".svg"}

// localImageExtensions are the file types accepted as an object's local
// image source.
var localImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".tif", ".tiff"}

// thumbnailExtensions are the file types accepted in the thumbnail column.
var thumbnailExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".tif", ".tiff"}

// thumbnailPlaceholders are junk values authors type to mean "no thumbnail".
var thumbnailPlaceholders = []string{"n/a", "null", "none", "placeholder", "na", "thumbnail"}

// ObjectProcessor validates and enriches the objects table: ID cleanup,
// thumbnail checks, manifest fetch and metadata merge, local-image fallback,
// and featured selection.
type ObjectProcessor struct {
	cfg     *config.Config
	strings *config.Strings
	logger  *slog.Logger
	metrics metrics.Recorder
	client  *metaext.Client
	cache   *metaext.Cache
	root    string
}

func NewObjectProcessor(cfg *config.Config, strs *config.Strings, logger *slog.Logger, rec metrics.Recorder, root string) *ObjectProcessor {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &ObjectProcessor{
		cfg:     cfg,
		strings: strs,
		logger:  logger,
		metrics: rec,
		client:  metaext.NewClient(),
		cache:   metaext.LoadCache(filepath.Join(root, cfg.Paths.DataDir, "objects.json"), logger),
		root:    root,
	}
}

// Process converts the objects table into validated records. Rows without an
// object_id are dropped; everything else survives with warnings recorded on
// the object itself so the renderer can badge it.
func (p *ObjectProcessor) Process(ctx context.Context, table *schema.Table, christmasTree bool) ([]*record.Object, *warnings.List) {
	warn := &warnings.List{}

	objects := p.buildRecords(table)
	if christmasTree {
		objects = append(objects, testObjects()...)
		p.logger.Info("christmas tree mode: injected test objects with deliberate errors")
	}

	for _, obj := range objects {
		p.cleanObjectID(obj, warn)
		p.validateThumbnail(obj, warn)
	}
	for _, obj := range objects {
		p.validateManifest(ctx, obj, warn)
	}
	for _, obj := range objects {
		p.checkLocalSource(obj, warn)
	}
	p.selectFeatured(objects)

	if warn.Len() > 0 {
		p.logger.Info("objects validation summary", logfields.Warnings(warn.Len()))
	}
	return objects, warn
}

// buildRecords maps table rows to object records, skipping rows with no
// object_id and aliasing source_url and iiif_manifest onto each other so
// both survive the naming transition.
func (p *ObjectProcessor) buildRecords(table *schema.Table) []*record.Object {
	var objects []*record.Object
	for row := range table.Rows {
		if table.Cell(row, "object_id") == "" {
			continue
		}
		obj := &record.Object{
			ObjectID:     table.Cell(row, "object_id"),
			Title:        table.Cell(row, "title"),
			Description:  table.Cell(row, "description"),
			SourceURL:    table.Cell(row, "source_url"),
			IIIFManifest: table.Cell(row, "iiif_manifest"),
			Creator:      table.Cell(row, "creator"),
			Period:       table.Cell(row, "period"),
			Medium:       table.Cell(row, "medium"),
			Dimensions:   table.Cell(row, "dimensions"),
			Source:       table.Cell(row, "source"),
			Credit:       table.Cell(row, "credit"),
			Thumbnail:    table.Cell(row, "thumbnail"),
			Year:         table.Cell(row, "year"),
			ObjectType:   table.Cell(row, "object_type"),
			Subjects:     table.Cell(row, "subjects"),
			Featured:     table.Cell(row, "featured"),
		}
		if obj.SourceURL == "" {
			obj.SourceURL = obj.IIIFManifest
		}
		if obj.IIIFManifest == "" {
			obj.IIIFManifest = obj.SourceURL
		}
		objects = append(objects, obj)
	}
	return objects
}

// cleanObjectID strips pasted file extensions and warns about spaces.
func (p *ObjectProcessor) cleanObjectID(obj *record.Object, warn *warnings.List) {
	id := obj.ObjectID
	for _, ext := range objectIDExtensions {
		if strings.HasSuffix(strings.ToLower(id), ext) {
			stripped := id[:len(id)-len(ext)]
			p.logger.Info("stripped file extension from object_id",
				slog.String("from", id), slog.String("to", stripped))
			obj.ObjectID = stripped
			id = stripped
			break
		}
	}
	if strings.Contains(id, " ") {
		msg := "Object ID '" + id + "' contains spaces - this may cause issues with file paths"
		p.logger.Warn(msg, logfields.ObjectID(id))
		warn.Addf(warnings.CategoryObject, msg)
	}
}

// validateThumbnail clears placeholder and non-image values, collapses
// duplicate slashes, and checks existence. A missing file only warns; the
// value stays because the file may exist in the deployed environment.
func (p *ObjectProcessor) validateThumbnail(obj *record.Object, warn *warnings.List) {
	thumb := strings.TrimSpace(obj.Thumbnail)
	if thumb == "" {
		return
	}

	lower := strings.ToLower(thumb)
	for _, placeholder := range thumbnailPlaceholders {
		if lower == placeholder {
			obj.Thumbnail = ""
			msg := "Cleared invalid thumbnail placeholder '" + thumb + "' for object " + obj.ObjectID
			p.logger.Warn(msg, logfields.ObjectID(obj.ObjectID))
			warn.Addf(warnings.CategoryObject, msg)
			return
		}
	}

	if !hasAnySuffix(lower, thumbnailExtensions) {
		obj.Thumbnail = ""
		msg := "Cleared invalid thumbnail '" + thumb + "' for object " + obj.ObjectID + " (not an image file)"
		p.logger.Warn(msg, logfields.ObjectID(obj.ObjectID))
		warn.Addf(warnings.CategoryObject, msg)
		return
	}

	if strings.HasPrefix(thumb, "/") {
		normalized := "/" + strings.Join(splitNonEmpty(thumb, "/"), "/")
		if normalized != thumb {
			obj.Thumbnail = normalized
			thumb = normalized
			p.logger.Info("normalized thumbnail path",
				logfields.ObjectID(obj.ObjectID), logfields.File(normalized))
		}
	}

	onDisk := filepath.Join(p.root, strings.TrimPrefix(thumb, "/"))
	if _, err := os.Stat(onDisk); err != nil {
		msg := "Thumbnail file not found for object " + obj.ObjectID + ": " + thumb
		p.logger.Warn(msg, logfields.ObjectID(obj.ObjectID))
		warn.Addf(warnings.CategoryObject, msg)
	}
}

// validateManifest fetches the object's external manifest, validates its
// shape, and merges extracted metadata under the author-wins hierarchy.
// HTTP errors become warning badges on the object; timeouts are logged only,
// since slow institutional servers are usually transient.
func (p *ObjectProcessor) validateManifest(ctx context.Context, obj *record.Object, warn *warnings.List) {
	manifestURL := obj.ManifestURL()
	if manifestURL == "" {
		return
	}

	parsed, err := url.Parse(manifestURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		obj.SourceURL = ""
		obj.IIIFManifest = ""
		obj.Warning = p.strings.Get("errors.object_warnings.iiif_invalid_url")
		msg := "Cleared invalid source URL for object " + obj.ObjectID + ": not a valid URL"
		p.logger.Warn(msg, logfields.ObjectID(obj.ObjectID))
		warn.Addf(warnings.CategoryObject, msg)
		p.metrics.IncManifestFetch(metrics.FetchInvalid)
		return
	}

	manifest, err := p.client.Fetch(ctx, manifestURL)
	if err != nil {
		p.handleFetchError(obj, manifestURL, err, warn)
		return
	}
	p.metrics.IncManifestFetch(metrics.FetchSuccess)
	p.logger.Info("validated manifest", logfields.ObjectID(obj.ObjectID), logfields.Manifest(manifestURL))

	populated := metaext.ApplyFallback(obj, metaext.Extract(manifest, p.cfg.SiteLanguage()))
	if len(populated) > 0 {
		p.logger.Info("auto-populated fields from manifest",
			logfields.ObjectID(obj.ObjectID), slog.String("fields", strings.Join(populated, ", ")))
	}
}

func (p *ObjectProcessor) handleFetchError(obj *record.Object, manifestURL string, err error, warn *warnings.List) {
	var fetchErr *metaext.FetchError
	switch {
	case errors.As(err, &fetchErr):
		p.metrics.IncManifestFetch(metrics.FetchHTTPError)
		if fetchErr.StatusCode == 429 && p.cache.ShouldSkipRateLimit(obj.ObjectID, manifestURL) {
			p.metrics.IncManifestFetch(metrics.FetchSkipped)
			p.logger.Info("skipping rate-limit error for unchanged manifest",
				logfields.ObjectID(obj.ObjectID), logfields.Manifest(manifestURL))
			return
		}
		fullKey, shortKey := fetchErr.WarningKeys()
		vars := map[string]any{"code": fetchErr.StatusCode}
		obj.Warning = p.strings.Format(fullKey, vars)
		obj.WarningShort = p.strings.Format(shortKey, vars)
		msg := "Manifest for object " + obj.ObjectID + " returned " + fetchErr.Error()
		p.logger.Warn(msg, logfields.ObjectID(obj.ObjectID), logfields.Manifest(manifestURL))
		warn.Addf(warnings.CategoryObject, msg)

	case errors.Is(err, metaext.ErrNotJSON):
		p.metrics.IncManifestFetch(metrics.FetchInvalid)
		obj.Warning = p.strings.Get("errors.object_warnings.iiif_not_manifest")
		msg := "Manifest for object " + obj.ObjectID + " is not valid JSON"
		p.logger.Warn(msg, logfields.ObjectID(obj.ObjectID))
		warn.Addf(warnings.CategoryObject, msg)

	case errors.Is(err, metaext.ErrMalformed):
		p.metrics.IncManifestFetch(metrics.FetchInvalid)
		obj.Warning = p.strings.Get("errors.object_warnings.iiif_malformed")
		msg := "Manifest for object " + obj.ObjectID + " missing required fields (@context or type)"
		p.logger.Warn(msg, logfields.ObjectID(obj.ObjectID))
		warn.Addf(warnings.CategoryObject, msg)

	default:
		// Transport failure. No author-facing warning: these are transient
		// and clear up on the next build.
		p.metrics.IncManifestFetch(metrics.FetchTimeout)
		p.logger.Warn("manifest slow to respond",
			logfields.ObjectID(obj.ObjectID), logfields.Manifest(manifestURL), logfields.Error(err))
	}
}

// checkLocalSource handles objects without an external manifest: they need a
// local image named after the object ID. When none exists, near-match
// filenames produce a did-you-mean warning.
func (p *ObjectProcessor) checkLocalSource(obj *record.Object, warn *warnings.List) {
	if obj.ManifestURL() != "" {
		return
	}

	imagesDir := filepath.Join(p.root, p.cfg.Paths.ImagesDir)
	for _, ext := range localImageExtensions {
		path := filepath.Join(imagesDir, obj.ObjectID+ext)
		if _, err := os.Stat(path); err == nil {
			p.logger.Info("object uses local image", logfields.ObjectID(obj.ObjectID), logfields.File(path))
			return
		}
	}

	similar := paths.SimilarFiles(imagesDir, obj.ObjectID)
	switch {
	case len(similar) == 1:
		obj.Warning = p.strings.Format("errors.object_warnings.image_similar_single", map[string]any{
			"object_id":    obj.ObjectID,
			"similar_file": similar[0],
			"file_ext":     filepath.Ext(similar[0]),
		})
		obj.WarningShort = p.strings.Get("errors.object_warnings.short_filename_mismatch")
	case len(similar) > 1:
		obj.Warning = p.strings.Format("errors.object_warnings.image_similar_multiple", map[string]any{
			"object_id": obj.ObjectID,
			"file_list": strings.Join(similar, "', '"),
		})
		obj.WarningShort = p.strings.Get("errors.object_warnings.short_ambiguous_match")
	default:
		obj.Warning = p.strings.Format("errors.object_warnings.image_missing",
			map[string]any{"object_id": obj.ObjectID})
		obj.WarningShort = p.strings.Get("errors.object_warnings.short_missing_source")
	}

	msg := "Object " + obj.ObjectID + " has no external manifest or local image file"
	p.logger.Warn(msg, logfields.ObjectID(obj.ObjectID))
	warn.Addf(warnings.CategoryObject, msg)
}

// selectFeatured marks the homepage sample. Explicitly featured objects win;
// otherwise a random sample of warning-free objects is drawn.
func (p *ObjectProcessor) selectFeatured(objects []*record.Object) {
	if !p.cfg.Collection.ShowSampleOnHomepage {
		return
	}

	var explicit []*record.Object
	for _, obj := range objects {
		if isAffirmative(obj.Featured) {
			explicit = append(explicit, obj)
		}
	}
	if len(explicit) > 0 {
		for _, obj := range explicit {
			obj.IsFeaturedSample = true
		}
		p.logger.Info("selected explicitly featured objects for homepage", slog.Int("count", len(explicit)))
		return
	}

	var valid []*record.Object
	for _, obj := range objects {
		if strings.TrimSpace(obj.Warning) == "" {
			valid = append(valid, obj)
		}
	}
	if len(valid) == 0 {
		p.logger.Info("no valid objects available for homepage sample")
		return
	}

	count := p.cfg.Collection.FeaturedCount
	if count > len(valid) {
		count = len(valid)
	}
	for _, i := range rand.Perm(len(valid))[:count] {
		valid[i].IsFeaturedSample = true
	}
	p.logger.Info("randomly selected objects for homepage sample", slog.Int("count", count))
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
