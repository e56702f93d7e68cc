package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orgforge-labs/orgforge/pkg/sessions"
)

type MetricsMgr struct {
	name  string
	store *sessions.Store
}

func NewMetricsMgr(conf *RegisterConfig) Manager {
	return &MetricsMgr{
		name:  "metrics",
		store: conf.Store,
	}
}

func (mgr *MetricsMgr) GetName() string { return mgr.name }

func (mgr *MetricsMgr) RegisterPublic(metrics *gin.RouterGroup) {
	metrics.GET("", mgr.GetMetrics)
}

func (mgr *MetricsMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *MetricsMgr) RegisterAdmin(_ *gin.RouterGroup) {}

var registry *prometheus.Registry

var promHTTPHandler http.Handler

var activeSessionsGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "active_draft_sessions",
		Help: "Number of live draft sessions",
	},
)

// ActionsTotal counts dispatched actions by wire type and outcome.
var ActionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "draft_actions_total",
		Help: "Total number of dispatched draft actions",
	},
	[]string{"type", "outcome"},
)

// DeploymentsTotal counts deployment submissions by outcome.
var DeploymentsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "deployments_total",
		Help: "Total number of deployment submissions",
	},
	[]string{"outcome"},
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewMetricsMgr)
	registry = prometheus.NewRegistry()
	promHTTPHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	registry.MustRegister(activeSessionsGauge)
	registry.MustRegister(ActionsTotal)
	registry.MustRegister(DeploymentsTotal)
}

func (mgr *MetricsMgr) GetMetrics(c *gin.Context) {
	activeSessionsGauge.Set(float64(mgr.store.Len()))
	promHTTPHandler.ServeHTTP(c.Writer, c.Request)
}
