package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/critic/internal/cache"
	"github.com/dshills/critic/internal/collect"
	"github.com/dshills/critic/internal/document"
	"github.com/dshills/critic/internal/layout"
	"github.com/dshills/critic/internal/providers"
	"github.com/google/uuid"
)

// ErrNoReviewer is returned by Send when the engine was built without a
// review service.
var ErrNoReviewer = errors.New("no review service configured")

// Logger receives progress and warnings.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}

// Request describes what to review.
type Request struct {
	// Target is a file or directory path.
	Target     string
	Recursive  bool
	Language   string
	IgnoreFile string
	// Workers bounds concurrent file reads; zero keeps the default.
	Workers   int
	Transform document.TransformFunc
}

// Prepared is a collected and assembled request, ready to send.
type Prepared struct {
	Request   Request
	Selection *collect.Selection
	// Document is nil when the selection is empty.
	Document *document.Document
	Warnings []string
	Timing   Timing
}

// Empty reports whether no file was selected.
func (p *Prepared) Empty() bool {
	return p.Selection == nil || p.Selection.Empty()
}

// Engine runs the collect, assemble and review pipeline.
type Engine struct {
	reviewer     providers.Reviewer
	cache        *cache.Cache
	log          Logger
	systemPrompt string
	timeout      time.Duration
	maxTokens    int
	temperature  float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache reuses replies for identical requests.
func WithCache(c *cache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithSystemPrompt sets the reviewer instructions. Blank keeps the default.
func WithSystemPrompt(text string) Option {
	return func(e *Engine) { e.systemPrompt = SystemPrompt(text) }
}

// WithTimeout bounds the review call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithSampling sets the token limit and temperature sent to the service.
func WithSampling(maxTokens int, temperature float64) Option {
	return func(e *Engine) {
		e.maxTokens = maxTokens
		e.temperature = temperature
	}
}

// NewEngine returns an Engine. reviewer may be nil when only Prepare is used.
func NewEngine(reviewer providers.Reviewer, log Logger, opts ...Option) *Engine {
	if log == nil {
		log = nopLogger{}
	}
	e := &Engine{
		reviewer:     reviewer,
		log:          log,
		systemPrompt: DefaultSystemPrompt,
		timeout:      60 * time.Second,
		maxTokens:    4000,
		temperature:  0.1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SystemPromptText returns the instructions sent with every review.
func (e *Engine) SystemPromptText() string {
	return e.systemPrompt
}

// Prepare collects the target's files and assembles the document. A missing
// or unreadable ignore file is a warning. An unknown language is a warning
// and leaves the selection unfiltered.
func (e *Engine) Prepare(ctx context.Context, req Request) (*Prepared, error) {
	p := &Prepared{Request: req}

	patterns, err := collect.LoadIgnoreFile(req.IgnoreFile)
	if err != nil {
		e.warn(p, "%v; continuing without ignore patterns", err)
		patterns = nil
	}
	if req.Language != "" && !collect.KnownLanguage(req.Language) {
		e.warn(p, "unknown language %q, no language filter applied (known: %s)",
			req.Language, strings.Join(collect.Languages(), ", "))
	}

	start := time.Now()
	sel, err := collect.NewCollector(e.log).Collect(ctx, req.Target, collect.Options{
		Recursive: req.Recursive,
		Patterns:  patterns,
		Language:  req.Language,
	})
	if err != nil {
		return nil, err
	}
	p.Selection = sel
	p.Timing.CollectMs = time.Since(start).Milliseconds()
	for _, w := range sel.Warnings {
		p.Warnings = append(p.Warnings, w.Error())
	}

	if sel.Empty() {
		e.log.Infof("No files found to review")
		return p, nil
	}
	e.log.Infof("Found %d files to review", len(sel.Files))

	var opts []document.Option
	if req.Workers > 0 {
		opts = append(opts, document.WithWorkers(req.Workers))
	}
	if req.Transform != nil {
		opts = append(opts, document.WithTransform(req.Transform))
	}

	start = time.Now()
	doc, err := document.NewAssembler(e.log, opts...).Assemble(ctx, sel.Root, sel.Files)
	if err != nil {
		return nil, err
	}
	p.Document = doc
	p.Timing.AssembleMs = time.Since(start).Milliseconds()
	for _, rel := range doc.Omitted {
		p.Warnings = append(p.Warnings, "omitted unreadable file "+rel)
	}
	e.log.Debugf("assembled %d bytes from %d files", len(doc.Text), len(doc.Included))
	return p, nil
}

// Send delivers a prepared document to the review service. An empty
// selection returns a Result with Empty set and makes no call. A cancelled
// context is reported before any request is issued.
func (e *Engine) Send(ctx context.Context, p *Prepared) (*Result, error) {
	res := e.newResult(p)
	if p.Empty() {
		res.Empty = true
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.reviewer == nil {
		return nil, ErrNoReviewer
	}
	res.Provider = e.reviewer.Name()
	res.Model = e.reviewer.Model()

	key := cache.BuildKey(cache.KeyFields{
		Provider:     res.Provider,
		Model:        res.Model,
		SystemPrompt: e.systemPrompt,
		Document:     p.Document.Text,
		MaxTokens:    e.maxTokens,
		Temperature:  e.temperature,
	})
	if e.cache != nil {
		if entry, ok := e.cache.Get(key); ok {
			e.log.Infof("Using cached review (%s)", key[:12])
			res.Reply = entry.Reply
			res.TokensUsed = entry.TokensUsed
			res.Cached = true
			return res, nil
		}
	}

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.log.Infof("Calling %s API (%s)...", res.Provider, res.Model)
	start := time.Now()
	resp, err := e.reviewer.Review(callCtx, providers.ReviewRequest{
		SystemPrompt: e.systemPrompt,
		Document:     p.Document.Text,
		MaxTokens:    e.maxTokens,
		Temperature:  e.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("review request: %w", err)
	}
	res.Timing.LLMMs = time.Since(start).Milliseconds()
	res.Timing.TotalMs += res.Timing.LLMMs
	res.Reply = resp.Content
	res.TokensUsed = resp.TokensUsed

	if e.cache != nil {
		if err := e.cache.Put(key, cache.Entry{
			Provider:   res.Provider,
			Model:      res.Model,
			Reply:      resp.Content,
			TokensUsed: resp.TokensUsed,
		}); err != nil {
			e.log.Warnf("could not cache review: %v", err)
		}
	}
	return res, nil
}

// Run prepares and sends in one step.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	p, err := e.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return e.Send(ctx, p)
}

func (e *Engine) newResult(p *Prepared) *Result {
	res := &Result{
		Tool:     ToolName,
		Version:  Version,
		RunID:    uuid.NewString(),
		Target:   p.Request.Target,
		Warnings: p.Warnings,
		Timing:   p.Timing,
		Files:    []string{},
	}
	res.Timing.TotalMs = p.Timing.CollectMs + p.Timing.AssembleMs
	if p.Selection != nil {
		res.Root = p.Selection.Root
	}
	if p.Document != nil {
		res.Files = p.Document.Files
		res.Omitted = p.Document.Omitted
		res.Layout = p.Document.Layout
	} else {
		res.Layout = layout.EmptyLayout
	}
	return res
}

func (e *Engine) warn(p *Prepared, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.Warnings = append(p.Warnings, msg)
	e.log.Warnf("%s", msg)
}
