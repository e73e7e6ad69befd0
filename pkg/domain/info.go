package domain

// Info summarises a loaded transducer.
type Info struct {
	Name             string `json:"name"`
	Path             string `json:"path,omitempty"`
	Checksum         string `json:"checksum"`
	Type             string `json:"type"`
	Weighted         bool   `json:"weighted"`
	InputSymbolCount int    `json:"input_symbol_count"`
	SymbolCount      int    `json:"symbol_count"`
	IndexTableSize   int    `json:"index_table_size"`
	TransitionCount  int    `json:"transition_table_size"`
	StateCount       int    `json:"states"`
	FlagDiacritics   int    `json:"flag_diacritics"`
	// Properties holds the boolean header properties (deterministic, cyclic, ...)
	// and the key/value pairs of the HFST3 container header, if present.
	Properties map[string]string `json:"properties,omitempty"`
}
