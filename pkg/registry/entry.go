package registry

// Entry is a raw enforcement registry entry before classification.
type Entry struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description"`
	Status      string   `yaml:"status"`
	Mechanism   string   `yaml:"mechanism"`
	ADRs        []string `yaml:"adrs"`
	CodeRefs    refList  `yaml:"code_refs"`
}

// Method records which extraction path produced a parse result.
type Method string

// Extraction methods.
const (
	MethodStrict Method = "yaml"
	MethodRegex  Method = "regex"
)

// Result is the outcome of parsing a registry document.
type Result struct {
	Entries []Entry
	Method  Method
	// StrictErr is the decoder error that triggered the regex fallback, if any.
	StrictErr error
}
