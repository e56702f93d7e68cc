package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/orgforge-labs/orgforge/internal/resputil"
	"github.com/orgforge-labs/orgforge/internal/util"
	"github.com/orgforge-labs/orgforge/pkg/deploy"
	"github.com/orgforge-labs/orgforge/pkg/engine"
	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/sessions"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewDeploymentMgr)
}

type DeploymentMgr struct {
	name      string
	store     *sessions.Store
	directory deploy.UsernameDirectory
	infra     deploy.InfrastructureCatalog
	deployer  deploy.Deployer
}

func NewDeploymentMgr(conf *RegisterConfig) Manager {
	return &DeploymentMgr{
		name:      "deploy",
		store:     conf.Store,
		directory: conf.Directory,
		infra:     conf.Infra,
		deployer:  conf.Deployer,
	}
}

func (mgr *DeploymentMgr) GetName() string { return mgr.name }

func (mgr *DeploymentMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *DeploymentMgr) RegisterProtected(g *gin.RouterGroup) {
	g.POST("/preview", mgr.Preview)
	g.POST("", mgr.Submit)
}

func (mgr *DeploymentMgr) RegisterAdmin(_ *gin.RouterGroup) {}

// assemble gathers the infrastructure record and username resolution,
// then maps the draft to the wire payload. The draft is not mutated.
func (mgr *DeploymentMgr) assemble(c *gin.Context) (*deploy.Payload, error) {
	state, err := mgr.store.State(util.GetSessionID(c))
	if err != nil {
		return nil, err
	}
	infra, err := mgr.infra.Read(c)
	if err != nil {
		return nil, err
	}
	resolution, err := mgr.directory.Resolve(c, deploy.PendingUsernames(state))
	if err != nil {
		return nil, err
	}
	return deploy.Build(state, infra, resolution)
}

func (mgr *DeploymentMgr) Preview(c *gin.Context) {
	payload, err := mgr.assemble(c)
	if err != nil {
		mgr.assembleError(c, err)
		return
	}
	resputil.Success(c, payload)
}

// Submit assembles the payload, hands it to the relay and records the
// outcome on the draft.
func (mgr *DeploymentMgr) Submit(c *gin.Context) {
	id := util.GetSessionID(c)

	payload, err := mgr.assemble(c)
	if err != nil {
		mgr.assembleError(c, err)
		return
	}

	if _, _, err = mgr.store.Dispatch(id, engine.SetDeploymentStatus{Status: model.DeploymentDeploying}); err != nil {
		mgr.assembleError(c, err)
		return
	}

	receipt, err := mgr.deployer.Submit(c, payload)
	if err != nil {
		klog.Errorf("session %s deployment failed: %v", id, err)
		msg := err.Error()
		_, _, _ = mgr.store.Dispatch(id, engine.SetDeploymentStatus{
			Status: model.DeploymentError,
			Error:  &msg,
		})
		DeploymentsTotal.WithLabelValues("error").Inc()
		resputil.Error(c, msg, resputil.DeploymentFailed)
		return
	}
	DeploymentsTotal.WithLabelValues("success").Inc()

	state, _, err := mgr.store.Dispatch(id, engine.SetDeploymentStatus{
		Status: model.DeploymentSuccess,
		Result: receipt,
	})
	if err != nil {
		mgr.assembleError(c, err)
		return
	}
	resputil.Success(c, gin.H{
		"receipt": receipt,
		"state":   state,
	})
}

func (mgr *DeploymentMgr) assembleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		resputil.HTTPError(c, http.StatusNotFound, err.Error(), resputil.SessionNotFound)
	case errors.Is(err, deploy.ErrUsernameUnresolved):
		resputil.HTTPError(c, http.StatusUnprocessableEntity, err.Error(), resputil.UsernameUnresolved)
	case errors.Is(err, deploy.ErrInfrastructureMissing):
		resputil.HTTPError(c, http.StatusUnprocessableEntity, err.Error(), resputil.InfrastructureMissing)
	case errors.Is(err, deploy.ErrDraftInvalid):
		resputil.HTTPError(c, http.StatusUnprocessableEntity, err.Error(), resputil.ValidationFailed)
	default:
		resputil.Error(c, err.Error(), resputil.NotSpecified)
	}
}
