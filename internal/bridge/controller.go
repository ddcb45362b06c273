package bridge

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"modelbridge/internal/metrics"
)

type Controller struct {
	service   *Service
	collector *metrics.Collector
}

func NewController(service *Service, collector *metrics.Collector) *Controller {
	return &Controller{service: service, collector: collector}
}

func (bc *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/", bc.Alive)
	router.POST("/api/complete", bc.Complete)
}

// Alive is the liveness probe. It never touches the upstream.
func (bc *Controller) Alive(ctx *gin.Context) {
	ctx.String(http.StatusOK, "completion bridge is running")
}

func (bc *Controller) Complete(ctx *gin.Context) {
	start := time.Now()

	var req CompleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bc.collector.RecordRequest(metrics.OutcomeInvalid, time.Since(start))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		bc.collector.RecordRequest(metrics.OutcomeInvalid, time.Since(start))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	resp, err := bc.service.Complete(ctx.Request.Context(), req)
	if err != nil {
		bc.handleUpstreamError(ctx, err, start)
		return
	}

	bc.collector.RecordRequest(metrics.OutcomeOK, time.Since(start))
	ctx.JSON(http.StatusOK, resp)
}

func (bc *Controller) handleUpstreamError(ctx *gin.Context, err error, start time.Time) {
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		// Shouldn't happen; keep the failure local to this request.
		log.Printf("unexpected service error: %v", err)
		bc.collector.RecordRequest(metrics.OutcomeUpstreamError, time.Since(start))
		ctx.JSON(http.StatusBadGateway, ErrorResponse{Error: "upstream request failed"})
		return
	}

	log.Printf("upstream failure: %s", upstreamErr.Detail)
	switch upstreamErr.Kind {
	case KindTimeout:
		bc.collector.RecordRequest(metrics.OutcomeUpstreamTimeout, time.Since(start))
		ctx.JSON(http.StatusGatewayTimeout, ErrorResponse{
			Error:  "upstream request timed out",
			Detail: upstreamErr.Detail,
		})
	case KindUnavailable:
		bc.collector.RecordRequest(metrics.OutcomeUpstreamUnavailable, time.Since(start))
		ctx.JSON(http.StatusBadGateway, ErrorResponse{
			Error:  "could not reach upstream server",
			Detail: upstreamErr.Detail,
		})
	default:
		bc.collector.RecordRequest(metrics.OutcomeUpstreamError, time.Since(start))
		ctx.JSON(http.StatusBadGateway, ErrorResponse{
			Error:  "upstream request failed",
			Detail: upstreamErr.Detail,
		})
	}
}
