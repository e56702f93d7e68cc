package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orgforge-labs/orgforge/internal/resputil"
	"github.com/orgforge-labs/orgforge/internal/util"
	"github.com/orgforge-labs/orgforge/pkg/catalog"
	"github.com/orgforge-labs/orgforge/pkg/engine"
	"github.com/orgforge-labs/orgforge/pkg/sessions"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewTemplateMgr)
}

type TemplateMgr struct {
	name    string
	store   *sessions.Store
	catalog *catalog.Catalog
}

func NewTemplateMgr(conf *RegisterConfig) Manager {
	return &TemplateMgr{
		name:    "templates",
		store:   conf.Store,
		catalog: conf.Catalog,
	}
}

func (mgr *TemplateMgr) GetName() string { return mgr.name }

func (mgr *TemplateMgr) RegisterPublic(g *gin.RouterGroup) {
	g.GET("", mgr.ListTemplates)
	g.GET("/:id", mgr.GetTemplate)
}

func (mgr *TemplateMgr) RegisterProtected(g *gin.RouterGroup) {
	g.POST("/:id/apply", mgr.ApplyTemplate)
	g.POST("/:id/variations/match", mgr.MatchVariation)
	g.POST("/:id/variations/:key/apply", mgr.ApplyVariation)
}

func (mgr *TemplateMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type TemplateSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	Tagline    string `json:"tagline"`
	Philosophy string `json:"philosophy"`
}

func (mgr *TemplateMgr) ListTemplates(c *gin.Context) {
	templates := mgr.catalog.Templates()
	out := make([]TemplateSummary, 0, len(templates))
	for _, t := range templates {
		out = append(out, TemplateSummary{
			ID:         t.ID,
			Name:       t.Name,
			Icon:       t.Icon,
			Tagline:    t.Tagline,
			Philosophy: string(t.Defaults.GovernancePhilosophy),
		})
	}
	resputil.Success(c, out)
}

func (mgr *TemplateMgr) GetTemplate(c *gin.Context) {
	t, err := mgr.catalog.Get(c.Param("id"))
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.TemplateNotFound)
		return
	}
	resputil.Success(c, t)
}

// ApplyTemplate resolves the template defaults and dispatches the
// apply action against the caller's draft.
func (mgr *TemplateMgr) ApplyTemplate(c *gin.Context) {
	id := c.Param("id")
	defaults, err := mgr.catalog.Defaults(id)
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.TemplateNotFound)
		return
	}
	state, _, err := mgr.store.Dispatch(util.GetSessionID(c), engine.ApplyTemplate{
		TemplateID: id,
		Defaults:   defaults,
	})
	if err != nil {
		mgr.dispatchError(c, err)
		return
	}
	resputil.Success(c, state)
}

type MatchVariationRequest struct {
	Answers map[string]any `json:"answers" binding:"required"`
}

type MatchVariationResponse struct {
	Variation string `json:"variation"`
	Score     int    `json:"score"`
}

// MatchVariation scores the template's variations against the caller's
// discovery answers. The declared default is the floor, so a variation
// is always returned.
func (mgr *TemplateMgr) MatchVariation(c *gin.Context) {
	req := &MatchVariationRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}
	t, err := mgr.catalog.Get(c.Param("id"))
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.TemplateNotFound)
		return
	}
	key, score := catalog.BestVariation(t, req.Answers)
	resputil.Success(c, MatchVariationResponse{Variation: key, Score: score})
}

// ApplyVariation overlays one variation's settings onto the draft. The
// draft must already carry the template.
func (mgr *TemplateMgr) ApplyVariation(c *gin.Context) {
	t, err := mgr.catalog.Get(c.Param("id"))
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.TemplateNotFound)
		return
	}
	v, err := t.Variation(c.Param("key"))
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.VariationNotFound)
		return
	}
	state, _, err := mgr.store.Dispatch(util.GetSessionID(c), engine.ApplyVariation{
		Variation: v.Key,
		Settings:  &v.Settings,
	})
	if err != nil {
		mgr.dispatchError(c, err)
		return
	}
	resputil.Success(c, state)
}

func (mgr *TemplateMgr) dispatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.SessionNotFound)
	case errors.Is(err, engine.ErrTemplateNotApplied):
		resputil.HTTPError(c, http.StatusConflict, err.Error(), resputil.ActionRejected)
	default:
		resputil.Error(c, err.Error(), resputil.ActionRejected)
	}
}
