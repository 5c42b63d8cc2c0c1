package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fittrack/backend/pkg/httpcontext"
	metricsUC "github.com/fittrack/backend/usecase/metrics"
)

type MetricsHandler struct {
	baseHandler
	uc *metricsUC.UseCase
}

func NewMetricsHandler(uc *metricsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Dashboard metrics
// @Tags metrics
// @Router /api/v1/metrics [get]
func (h *MetricsHandler) GetMetrics(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report, err := h.uc.Report(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}
