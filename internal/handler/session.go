package handler

import (
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/orgforge-labs/orgforge/internal/resputil"
	"github.com/orgforge-labs/orgforge/internal/util"
	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/sessions"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewSessionMgr)
}

type SessionMgr struct {
	name  string
	store *sessions.Store
}

func NewSessionMgr(conf *RegisterConfig) Manager {
	return &SessionMgr{
		name:  "sessions",
		store: conf.Store,
	}
}

func (mgr *SessionMgr) GetName() string { return mgr.name }

func (mgr *SessionMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("", mgr.CreateSession)
}

func (mgr *SessionMgr) RegisterProtected(g *gin.RouterGroup) {
	g.DELETE("", mgr.CloseSession)
}

func (mgr *SessionMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type CreateSessionResponse struct {
	SessionID string       `json:"sessionId"`
	Token     string       `json:"token"`
	State     *model.Draft `json:"state"`
}

// CreateSession opens an anonymous draft session and returns the
// bearer token that scopes all further calls to it.
func (mgr *SessionMgr) CreateSession(c *gin.Context) {
	sess := mgr.store.Create()
	token, err := util.GetTokenMgr().CreateToken(&util.JWTMessage{SessionID: sess.ID})
	if err != nil {
		mgr.store.Delete(sess.ID)
		resputil.Error(c, "issue session token", resputil.NotSpecified)
		return
	}
	state, err := mgr.store.State(sess.ID)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.SessionNotFound)
		return
	}
	klog.V(2).Infof("session %s created", sess.ID)
	resputil.Success(c, CreateSessionResponse{
		SessionID: sess.ID,
		Token:     token,
		State:     state,
	})
}

func (mgr *SessionMgr) CloseSession(c *gin.Context) {
	id := util.GetSessionID(c)
	mgr.store.Delete(id)
	klog.V(2).Infof("session %s closed", id)
	resputil.Success(c, gin.H{"closed": id})
}
