package schema

import "github.com/veraarmas/telar/internal/util/sets"

// aliasTable maps every recognized column spelling (Spanish and legacy
// English names) to its canonical field name. Lookups are done on the
// lowercased, trimmed header. The mapping is idempotent: canonical names are
// never keys, so applying it twice is the same as applying it once.
var aliasTable = map[string]string{
	// Story step columns (Spanish -> English)
	"paso":            "step",
	"objeto":          "object",
	"pregunta":        "question",
	"respuesta":       "answer",
	"boton_capa1":     "layer1_button",
	"contenido_capa1": "layer1_content",
	"archivo_capa1":   "layer1_content",
	"boton_capa2":     "layer2_button",
	"contenido_capa2": "layer2_content",
	"archivo_capa2":   "layer2_content",
	// x, y, zoom are the same in both languages

	// Legacy English story columns
	"layer1_file": "layer1_content",
	"layer2_file": "layer2_content",

	// Objects columns (Spanish -> English)
	"id_objeto":   "object_id",
	"titulo":      "title",
	"descripcion": "description",
	"url_fuente":  "source_url",
	"creador":     "creator",
	"periodo":     "period",
	"medio":       "medium",
	"dimensiones": "dimensions",
	"ubicacion":   "source",
	"credito":     "credit",
	"miniatura":   "thumbnail",
	"año":         "year",
	"ano":         "year",
	"tipo_objeto": "object_type",
	"temas":       "subjects",
	"materias":    "subjects",
	"materia":     "subjects",
	"destacado":   "featured",
	"fuente":      "source",
	// Schema change: location renamed to source
	"location": "source",

	// Project columns (Spanish -> English)
	"orden":       "order",
	"id_historia": "story_id",
	"subtitulo":   "subtitle",
	"firma":       "byline",
	"private":     "protected",
	"privada":     "protected",
	"protegida":   "protected",

	// Glossary columns (Spanish -> English)
	"id_termino":            "term_id",
	"id_término":            "term_id",
	"título":                "title",
	"definición":            "definition",
	"definicion":            "definition",
	"términos_relacionados": "related_terms",
	"terminos_relacionados": "related_terms",
}

// knownColumnNames is every name (alias or canonical) that identifies a
// column header, used by the duplicate-header-row detector.
var knownColumnNames = buildKnownNames()

func buildKnownNames() sets.Set[string] {
	s := sets.New[string](
		// Common columns that never appear in the alias table.
		"x", "y", "zoom", "order", "story_id", "title", "subtitle",
		"byline", "object_id", "description", "source_url", "creator",
		"period", "medium", "dimensions", "location", "source", "credit",
		"thumbnail", "year", "object_type", "subjects", "featured",
		"protected",
	)
	for alias, canonical := range aliasTable {
		s.Add(alias)
		s.Add(canonical)
	}
	return s
}

// CanonicalName returns the canonical field name for a column header and
// whether a rename applies. Unrecognized headers pass through unchanged.
func CanonicalName(header string) (string, bool) {
	canonical, ok := aliasTable[normalizeKey(header)]
	return canonical, ok
}
