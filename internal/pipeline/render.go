// Package pipeline is the single entry point collaborators use to turn a
// document into PDF bytes: template lookup, validation, section building,
// layout and a renderer backend, bounded by a timeout.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/cv-builder/internal/fontmetrics"
	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/templates"
	"github.com/jonathan/cv-builder/internal/types"
)

// DefaultTimeout bounds one render when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Renderer runs documents through the pipeline. It holds no per-request state
// and is safe for concurrent use.
type Renderer struct {
	Registry       *templates.Registry
	Measurer       layout.Measurer
	Backends       map[string]rendering.Backend
	DefaultBackend string
	Timeout        time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRegistry replaces the built-in template registry.
func WithRegistry(reg *templates.Registry) Option {
	return func(r *Renderer) {
		r.Registry = reg
	}
}

// WithBackend registers b under its name, replacing any backend of that name.
func WithBackend(b rendering.Backend) Option {
	return func(r *Renderer) {
		r.Backends[b.Name()] = b
	}
}

// WithDefaultBackend selects the backend used when a job names none.
func WithDefaultBackend(name string) Option {
	return func(r *Renderer) {
		r.DefaultBackend = name
	}
}

// WithTimeout bounds every render. Zero or less disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.Timeout = d
	}
}

// New creates a Renderer with the built-in templates, core font metrics and
// both backends; the raster backend paints with the native rasterizer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		Registry: templates.DefaultRegistry(),
		Measurer: fontmetrics.NewCore(),
		Backends: map[string]rendering.Backend{
			rendering.PrimitiveName: rendering.NewPrimitiveBackend(),
			rendering.RasterName:    rendering.NewRasterBackend(rendering.NativeRasterizer{}),
		},
		DefaultBackend: rendering.PrimitiveName,
		Timeout:        DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Job is one render request. Exactly one of Document and Letter is set.
// An empty TemplateID falls back to the template stored in the document.
type Job struct {
	ID         string
	Document   *types.Document
	Letter     *types.Letter
	TemplateID string
	Backend    string
	// OnLayout, when set, receives the geometry once pagination is done and
	// before the backend runs. It is called on the goroutine that called Run.
	OnLayout func(*layout.Document)
}

// Result is a finished render.
type Result struct {
	PDF      []byte
	Pages    int
	Layout   *layout.Document
	Backend  string
	Duration time.Duration
}

// Render lays out doc with the template templateID and renders it with the
// default backend. On error no bytes are returned.
func (r *Renderer) Render(ctx context.Context, doc types.Document, templateID string) (*Result, error) {
	return r.Run(ctx, Job{Document: &doc, TemplateID: templateID})
}

// RenderLetter is Render for cover letters.
func (r *Renderer) RenderLetter(ctx context.Context, letter types.Letter, templateID string) (*Result, error) {
	return r.Run(ctx, Job{Letter: &letter, TemplateID: templateID})
}

// Layout returns the page geometry of doc without rendering it.
func (r *Renderer) Layout(ctx context.Context, doc types.Document, templateID string) (*layout.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.layout(Job{Document: &doc, TemplateID: templateID})
}

// LayoutLetter returns the page geometry of a cover letter.
func (r *Renderer) LayoutLetter(ctx context.Context, letter types.Letter, templateID string) (*layout.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.layout(Job{Letter: &letter, TemplateID: templateID})
}

// Run executes one job. Failures are logged with their kind and, for layout
// failures, the offending block.
func (r *Renderer) Run(ctx context.Context, job Job) (*Result, error) {
	res, err := r.run(ctx, job)
	if err != nil {
		logFailure(job, err)
		return nil, err
	}
	return res, nil
}

func (r *Renderer) run(ctx context.Context, job Job) (*Result, error) {
	start := time.Now()

	backend, err := r.backend(job.Backend)
	if err != nil {
		return nil, err
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	type outcome struct {
		geometry *layout.Document
		out      *rendering.Output
		err      error
	}
	done := make(chan outcome, 1)
	laidOut := make(chan *layout.Document, 1)
	go func() {
		geometry, err := r.layout(job)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		laidOut <- geometry
		if err := ctx.Err(); err != nil {
			done <- outcome{err: err}
			return
		}
		out, err := backend.Render(ctx, geometry)
		done <- outcome{geometry: geometry, out: out, err: err}
	}()

	reported := false
	report := func(geometry *layout.Document) {
		if !reported && job.OnLayout != nil {
			job.OnLayout(geometry)
		}
		reported = true
	}

	for {
		select {
		case geometry := <-laidOut:
			report(geometry)
		case o := <-done:
			if o.err != nil {
				if errors.Is(o.err, context.DeadlineExceeded) || errors.Is(o.err, context.Canceled) {
					return nil, &TimeoutError{Cause: o.err}
				}
				return nil, o.err
			}
			report(o.geometry)
			return &Result{
				PDF:      o.out.PDF,
				Pages:    o.out.Pages,
				Layout:   o.geometry,
				Backend:  backend.Name(),
				Duration: time.Since(start),
			}, nil
		case <-ctx.Done():
			// The worker's result is dropped; both channels are buffered so it never blocks.
			return nil, &TimeoutError{Cause: ctx.Err()}
		}
	}
}

func (r *Renderer) backend(name string) (rendering.Backend, error) {
	if name == "" {
		name = r.DefaultBackend
	}
	b, ok := r.Backends[name]
	if !ok {
		return nil, &rendering.BackendError{Backend: name, Message: "no such backend"}
	}
	return b, nil
}

// layout performs lookup, validation, section building and pagination, in
// that order. An unknown template costs no further work.
func (r *Renderer) layout(job Job) (*layout.Document, error) {
	switch {
	case job.Letter != nil:
		letter := job.Letter.Clone()
		def, err := r.Registry.LookupKind(templateFor(job.TemplateID, letter.TemplateID), types.KindLetter)
		if err != nil {
			return nil, err
		}
		if err := letter.Validate(); err != nil {
			return nil, err
		}
		return def.Engine(r.Measurer).Layout(templates.BuildLetter(def, letter))

	case job.Document != nil:
		doc := job.Document.Clone()
		def, err := r.Registry.LookupKind(templateFor(job.TemplateID, doc.TemplateID), types.KindCV)
		if err != nil {
			return nil, err
		}
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		return def.Engine(r.Measurer).Layout(templates.BuildCV(def, doc))

	default:
		return nil, fmt.Errorf("job %q carries no document", job.ID)
	}
}

func templateFor(requested, stored string) string {
	if requested != "" {
		return requested
	}
	return stored
}

func logFailure(job Job, err error) {
	var le *layout.LayoutError
	if errors.As(err, &le) {
		log.Printf("[render] %s failed: kind=%s template=%s block=%d section=%s: %v",
			jobName(job), Kind(err), job.TemplateID, le.BlockIndex, le.SectionKind, err)
		return
	}
	log.Printf("[render] %s failed: kind=%s template=%s: %v", jobName(job), Kind(err), job.TemplateID, err)
}

func jobName(job Job) string {
	if job.ID != "" {
		return job.ID
	}
	if job.Letter != nil {
		return "letter"
	}
	return "document"
}
