package analyzer

// Level is a three-step ordinal used for complexity.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Rank orders levels: low < medium < high.
func (l Level) Rank() int {
	switch l {
	case LevelMedium:
		return 1
	case LevelHigh:
		return 2
	default:
		return 0
	}
}

// Thresholds are the score cut points for Classify: a score below Medium is
// low, below High is medium, anything else is high.
type Thresholds struct {
	Medium float64 `yaml:"medium"`
	High   float64 `yaml:"high"`
}

// Classify maps a score onto a Level. It is monotonic in score.
func Classify(score float64, t Thresholds) Level {
	switch {
	case score < t.Medium:
		return LevelLow
	case score < t.High:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Weights scale structural counts into a complexity score. Negative weights
// are treated as zero so more structure never lowers the score.
type Weights struct {
	Heading   float64 `yaml:"heading"`
	CodeBlock float64 `yaml:"code_block"`
	Link      float64 `yaml:"link"`
}

// Options tunes the heuristics. Zero values fall back to DefaultOptions.
type Options struct {
	DescriptionMaxLength int
	MinDescriptionLength int
	WordsPerMinute       int
	MaxTags              int
	// LinkDensityThreshold is the number of links per 100 words at which a
	// document is tagged as reference material.
	LinkDensityThreshold float64
	// DeepHeadingLevel is the heading depth at which a document is tagged in-depth.
	DeepHeadingLevel int
	Weights          Weights
	Thresholds       Thresholds
	// LanguageAliases normalizes declared code languages. An empty target drops the language.
	LanguageAliases map[string]string
}

// DefaultOptions returns the stock heuristic configuration.
func DefaultOptions() Options {
	return Options{
		DescriptionMaxLength: 150,
		MinDescriptionLength: 20,
		WordsPerMinute:       200,
		MaxTags:              8,
		LinkDensityThreshold: 3,
		DeepHeadingLevel:     3,
		Weights:              Weights{Heading: 1, CodeBlock: 3, Link: 0.5},
		Thresholds:           Thresholds{Medium: 10, High: 30},
		LanguageAliases: map[string]string{
			"js":        "javascript",
			"jsx":       "javascript",
			"ts":        "typescript",
			"tsx":       "typescript",
			"sh":        "bash",
			"shell":     "bash",
			"zsh":       "bash",
			"console":   "bash",
			"py":        "python",
			"yml":       "yaml",
			"golang":    "go",
			"rb":        "ruby",
			"md":        "markdown",
			"text":      "",
			"txt":       "",
			"plain":     "",
			"plaintext": "",
		},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DescriptionMaxLength <= 0 {
		o.DescriptionMaxLength = d.DescriptionMaxLength
	}
	if o.MinDescriptionLength <= 0 {
		o.MinDescriptionLength = d.MinDescriptionLength
	}
	if o.WordsPerMinute <= 0 {
		o.WordsPerMinute = d.WordsPerMinute
	}
	if o.MaxTags <= 0 {
		o.MaxTags = d.MaxTags
	}
	if o.LinkDensityThreshold <= 0 {
		o.LinkDensityThreshold = d.LinkDensityThreshold
	}
	if o.DeepHeadingLevel <= 0 {
		o.DeepHeadingLevel = d.DeepHeadingLevel
	}
	if o.Weights == (Weights{}) {
		o.Weights = d.Weights
	}
	o.Weights.Heading = max(o.Weights.Heading, 0)
	o.Weights.CodeBlock = max(o.Weights.CodeBlock, 0)
	o.Weights.Link = max(o.Weights.Link, 0)
	if o.Thresholds == (Thresholds{}) {
		o.Thresholds = d.Thresholds
	}
	if o.LanguageAliases == nil {
		o.LanguageAliases = d.LanguageAliases
	}
	return o
}
