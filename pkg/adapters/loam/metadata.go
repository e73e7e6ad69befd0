package loam

// AnalyzerMetadata is the frontmatter of an analyzer document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
//
//	---
//	name: crk
//	path: ../fst/crk-relaxed-analyzer.hfstol
//	language: crk
//	---
//	Plains Cree, relaxed orthography.
type AnalyzerMetadata struct {
	// Name defaults to the document file name without extension.
	Name string `json:"name" mapstructure:"name"`

	// Path is resolved against the catalog directory when relative.
	Path string `json:"path" mapstructure:"path"`

	Language string `json:"language" mapstructure:"language"`

	// Description defaults to the document body.
	Description string `json:"description" mapstructure:"description"`
}
