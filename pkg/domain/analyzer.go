package domain

// AnalyzerSpec names a transducer file a deployment serves.
type AnalyzerSpec struct {
	Name        string `json:"name" mapstructure:"name"`
	Path        string `json:"path" mapstructure:"path"`
	Language    string `json:"language,omitempty" mapstructure:"language"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}
