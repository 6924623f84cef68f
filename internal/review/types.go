package review

// Tool identification stamped on every result.
const (
	ToolName = "critic"
	Version  = "1.0"
)

// Timing contains performance metrics.
type Timing struct {
	CollectMs  int64 `json:"collectMs" yaml:"collectMs"`
	AssembleMs int64 `json:"assembleMs" yaml:"assembleMs"`
	LLMMs      int64 `json:"llmMs" yaml:"llmMs"`
	TotalMs    int64 `json:"totalMs" yaml:"totalMs"`
}

// Result is the outcome of one review run.
type Result struct {
	Tool       string   `json:"tool" yaml:"tool"`
	Version    string   `json:"version" yaml:"version"`
	RunID      string   `json:"runId" yaml:"runId"`
	Target     string   `json:"target" yaml:"target"`
	Root       string   `json:"root" yaml:"root"`
	Provider   string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model      string   `json:"model,omitempty" yaml:"model,omitempty"`
	Files      []string `json:"files" yaml:"files"`
	Omitted    []string `json:"omitted,omitempty" yaml:"omitted,omitempty"`
	Layout     string   `json:"layout" yaml:"layout"`
	Reply      string   `json:"reply" yaml:"reply"`
	TokensUsed int      `json:"tokensUsed,omitempty" yaml:"tokensUsed,omitempty"`
	Cached     bool     `json:"cached" yaml:"cached"`
	// Empty is set when no file was selected and nothing was sent.
	Empty    bool     `json:"empty" yaml:"empty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Timing   Timing   `json:"timing" yaml:"timing"`
}
