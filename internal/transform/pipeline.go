package transform

import (
	"log/slog"
	"time"

	"github.com/chriserin/mfnf/internal/ast"
	"github.com/chriserin/mfnf/internal/settings"
)

// Pass is one tree rewrite of the pipeline.
type Pass func(root ast.Element, s *settings.Settings) (ast.Element, error)

type NamedPass struct {
	Name  string
	Apply Pass
}

// Pipeline runs its passes in order, handing each the tree returned by the
// previous one.
type Pipeline struct {
	Passes []NamedPass
	log    *slog.Logger
}

// NewPipeline returns the standard pass sequence. A nil includer skips
// section inclusion.
func NewPipeline(in *Includer, opts ...func(*Pipeline)) *Pipeline {
	p := &Pipeline{log: slog.Default()}
	p.Passes = append(p.Passes, NamedPass{"normalize_template_names", NormalizeTemplateNames})
	if in != nil {
		p.Passes = append(p.Passes, NamedPass{"include_sections", in.IncludeSections})
	}
	p.Passes = append(p.Passes,
		NamedPass{"normalize_heading_depths", NormalizeHeadingDepths},
		NamedPass{"remove_exclusions", RemoveExclusions},
		NamedPass{"resolve_interwiki_links", ResolveInterwikiLinks},
	)
	for _, o := range opts {
		o(p)
	}
	return p
}

func WithLogger(l *slog.Logger) func(*Pipeline) {
	return func(p *Pipeline) { p.log = l }
}

// Run applies every pass to root and returns the final tree or the first
// structural error.
func (p *Pipeline) Run(root ast.Element, s *settings.Settings) (ast.Element, error) {
	for _, pass := range p.Passes {
		start := time.Now()
		next, err := pass.Apply(root, s)
		if err != nil {
			p.log.Error("pass failed", "pass", pass.Name, "error", err)
			return nil, err
		}
		p.log.Debug("pass complete", "pass", pass.Name, "duration", time.Since(start))
		root = next
	}
	return root, nil
}
