package prerender

import (
	"fmt"

	"github.com/rs/zerolog"

	"storesite/internal/model"
	"storesite/internal/schema"
	"storesite/internal/seo"
)

// Renderer stitches one route into the SPA shell.
type Renderer struct {
	template []byte
	company  *model.CompanyProfile
	log      zerolog.Logger
}

// NewRenderer keeps its own copy of template so the shell on disk can be
// overwritten while rendering.
func NewRenderer(template []byte, c *model.CompanyProfile, log zerolog.Logger) *Renderer {
	tpl := make([]byte, len(template))
	copy(tpl, template)
	return &Renderer{template: tpl, company: c, log: log}
}

// Render returns the full HTML document for rt.
func (r *Renderer) Render(rt Route) ([]byte, error) {
	fallback, err := seo.Fallback(rt.Page)
	if err != nil {
		return nil, err
	}
	jsonLD := schema.Marshal(r.log.With().Str("route", rt.Path).Logger(), rt.Blocks...)
	doc, err := seo.Inject(r.template, rt.Meta.Resolve(r.company), jsonLD, fallback)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", rt.Path, err)
	}
	return doc, nil
}
