package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raids-lab/taskflow/internal/resputil"
	"github.com/raids-lab/taskflow/pkg/board"
	"github.com/raids-lab/taskflow/pkg/logutils"
	"github.com/raids-lab/taskflow/pkg/metrics"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewMetricsMgr)
}

type MetricsMgr struct {
	name        string
	board       *board.Service
	promHandler http.Handler
}

func NewMetricsMgr(conf *RegisterConfig) Manager {
	return &MetricsMgr{
		name:        "metrics",
		board:       conf.Board,
		promHandler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{Registry: metrics.Registry}),
	}
}

func (mgr *MetricsMgr) GetName() string { return mgr.name }

func (mgr *MetricsMgr) RegisterPublic(g *gin.RouterGroup) {
	g.GET("", mgr.GetMetrics)
}

func (mgr *MetricsMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *MetricsMgr) RegisterAdmin(_ *gin.RouterGroup) {}

// GetMetrics godoc
// @Summary Prometheus metrics
// @Description Task counts by status, task moves and reminder deliveries
// @Tags Metrics
// @Produce plain
// @Success 200 {string} string "prometheus text format"
// @Failure 500 {object} resputil.Response[any] "other errors"
// @Router /v1/metrics [get]
func (mgr *MetricsMgr) GetMetrics(c *gin.Context) {
	counts, err := mgr.board.CountTasksByStatus(c)
	if err != nil {
		logutils.Log.Errorf("count tasks by status: %v", err)
		resputil.Error(c, "internal server error", resputil.NotSpecified)
		return
	}
	for status, n := range counts {
		metrics.TasksByStatus.WithLabelValues(status).Set(float64(n))
	}
	mgr.promHandler.ServeHTTP(c.Writer, c.Request)
}
