package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/orgforge-labs/orgforge/internal/resputil"
	"github.com/orgforge-labs/orgforge/internal/util"
	"github.com/orgforge-labs/orgforge/pkg/deploy"
	"github.com/orgforge-labs/orgforge/pkg/engine"
	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/sessions"
	"github.com/orgforge-labs/orgforge/pkg/validation"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewDraftMgr)
}

type DraftMgr struct {
	name     string
	store    *sessions.Store
	metadata deploy.MetadataStore
}

func NewDraftMgr(conf *RegisterConfig) Manager {
	return &DraftMgr{
		name:     "draft",
		store:    conf.Store,
		metadata: conf.Metadata,
	}
}

func (mgr *DraftMgr) GetName() string { return mgr.name }

func (mgr *DraftMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *DraftMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.GetState)
	g.POST("/actions", mgr.DispatchActions)
	g.GET("/validity", mgr.GetValidity)
	g.GET("/permissions/:index", mgr.GetRolePermissions)
	g.POST("/logo", mgr.UploadLogo)
	g.POST("/metadata", mgr.PinMetadata)
	g.GET("/metadata", mgr.GetMetadata)
}

func (mgr *DraftMgr) RegisterAdmin(_ *gin.RouterGroup) {}

func (mgr *DraftMgr) GetState(c *gin.Context) {
	state, err := mgr.store.State(util.GetSessionID(c))
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.SessionNotFound)
		return
	}
	resputil.Success(c, state)
}

type DispatchRequest struct {
	Actions []engine.Envelope `json:"actions" binding:"required,min=1"`
}

type DispatchResponse struct {
	State    *model.Draft `json:"state"`
	Changed  bool         `json:"changed"`
	Rejected []string     `json:"rejected,omitempty"`
}

// DispatchActions applies a batch of actions in order. A rejected edit
// keeps the prior draft and is reported; later actions still run.
func (mgr *DraftMgr) DispatchActions(c *gin.Context) {
	req := &DispatchRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}
	id := util.GetSessionID(c)

	var (
		state    *model.Draft
		changed  bool
		rejected []string
	)
	for _, env := range req.Actions {
		action, err := engine.DecodeAction(env)
		if err != nil {
			resputil.BadRequest(c, err.Error())
			return
		}
		next, didChange, err := mgr.store.Dispatch(id, action)
		if err != nil {
			if errors.Is(err, sessions.ErrSessionNotFound) {
				resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.SessionNotFound)
				return
			}
			klog.V(3).Infof("session %s action %s rejected: %v", id, env.Type, err)
			rejected = append(rejected, env.Type+": "+err.Error())
			ActionsTotal.WithLabelValues(env.Type, "rejected").Inc()
		} else {
			ActionsTotal.WithLabelValues(env.Type, "applied").Inc()
		}
		state = next
		changed = changed || didChange
	}

	resputil.Success(c, DispatchResponse{
		State:    state,
		Changed:  changed,
		Rejected: rejected,
	})
}

type ValidityResponse struct {
	Steps         map[string]bool     `json:"steps"`
	CurrentStep   string              `json:"currentStep"`
	CurrentValid  bool                `json:"currentValid"`
	ReadyToDeploy bool                `json:"readyToDeploy"`
	HasCycles     bool                `json:"hasCycles"`
	SliceTotal    int                 `json:"sliceTotal"`
	CurrentErrors map[string][]string `json:"currentErrors"`
}

func (mgr *DraftMgr) GetValidity(c *gin.Context) {
	state, err := mgr.store.State(util.GetSessionID(c))
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.SessionNotFound)
		return
	}
	res := validation.ForStep(state, state.CurrentStep)
	resputil.Success(c, ValidityResponse{
		Steps:         engine.StepValidationStatus(state),
		CurrentStep:   state.CurrentStep.String(),
		CurrentValid:  res.IsValid,
		ReadyToDeploy: engine.IsReadyToDeploy(state),
		HasCycles:     engine.HasCycles(state),
		SliceTotal:    engine.TotalSlicePercentage(state),
		CurrentErrors: res.Errors,
	})
}

func (mgr *DraftMgr) GetRolePermissions(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		resputil.BadRequest(c, "index must be an integer")
		return
	}
	state, err := mgr.store.State(util.GetSessionID(c))
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.SessionNotFound)
		return
	}
	if index < 0 || index >= len(state.Roles) {
		resputil.BadRequest(c, "role index out of range")
		return
	}
	resputil.Success(c, gin.H{
		"role":        state.Roles[index].Name,
		"permissions": engine.PermissionsForRole(state, index),
	})
}

// UploadLogo pins the raw request body and stores the returned handle
// on the draft.
func (mgr *DraftMgr) UploadLogo(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil || len(data) == 0 {
		resputil.BadRequest(c, "empty logo upload")
		return
	}
	handle, err := mgr.metadata.Put(c, data)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	state, _, err := mgr.store.Dispatch(util.GetSessionID(c), engine.SetLogo{Handle: handle})
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.SessionNotFound)
		return
	}
	resputil.Success(c, gin.H{"handle": handle, "state": state})
}

type orgMetadata struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	LogoHandle  string       `json:"logoHandle"`
	Links       []model.Link `json:"links"`
}

// PinMetadata pins the draft's identity block and records the handle
// the deployment payload will carry.
func (mgr *DraftMgr) PinMetadata(c *gin.Context) {
	id := util.GetSessionID(c)
	state, err := mgr.store.State(id)
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.SessionNotFound)
		return
	}
	blob, err := json.Marshal(orgMetadata{
		Name:        state.Organization.Name,
		Description: state.Organization.Description,
		LogoHandle:  state.Organization.LogoHandle,
		Links:       state.Organization.Links,
	})
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	handle, err := mgr.metadata.Put(c, blob)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	state, _, err = mgr.store.Dispatch(id, engine.SetMetadataHandle{Handle: handle})
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.SessionNotFound)
		return
	}
	resputil.Success(c, gin.H{"handle": handle, "state": state})
}

// GetMetadata reads back the pinned identity blob.
func (mgr *DraftMgr) GetMetadata(c *gin.Context) {
	state, err := mgr.store.State(util.GetSessionID(c))
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.SessionNotFound)
		return
	}
	if state.Organization.MetadataHandle == "" {
		resputil.HTTPError(c, http.StatusNotFound, "no metadata pinned", resputil.NotSpecified)
		return
	}
	data, err := mgr.metadata.Get(c, state.Organization.MetadataHandle)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}
