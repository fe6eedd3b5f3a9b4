package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/railzwaylabs/subview/internal/calendar"
	overviewdomain "github.com/railzwaylabs/subview/internal/overview/domain"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	timelinedomain "github.com/railzwaylabs/subview/internal/timeline/domain"
)

type sourceInfo struct {
	Origin    subscriptiondomain.Origin `json:"origin"`
	FetchedAt time.Time                 `json:"fetched_at"`
	Version   int                       `json:"version,omitempty"`
}

func newSourceInfo(r subscriptiondomain.Resolved) sourceInfo {
	info := sourceInfo{Origin: r.Origin, FetchedAt: r.FetchedAt}
	if r.Snapshot != nil {
		info.Version = r.Snapshot.Version
	}
	return info
}

type timelineResponse struct {
	Timeline *timelinedomain.Timeline `json:"timeline"`
	Source   sourceInfo               `json:"source"`
}

type overviewResponse struct {
	Overview *overviewdomain.Overview `json:"overview"`
	Source   sourceInfo               `json:"source"`
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.cfg.App.Version})
}

// @Summary      Subscription timeline
// @Description  Day-by-day billing state of every charge across the display window
// @Tags         subscriptions
// @Produce      json
// @Param        key    path   string  true   "Subscription id or number"
// @Param        as_of  query  string  false  "Evaluate as of YYYY-MM-DD"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /subscriptions/{key}/timeline [get]
func (s *Server) GetTimeline(c *gin.Context) {
	ctx := c.Request.Context()

	sub, resolved, err := s.subscriptionSvc.Subscription(ctx, c.Param("key"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	tl, err := s.timelineSvc.Build(ctx, sub, timelinedomain.BuildOptions{})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, timelineResponse{Timeline: tl, Source: newSourceInfo(resolved)})
}

// @Summary      Subscription overview
// @Description  Heading, current term and details panels
// @Tags         subscriptions
// @Produce      json
// @Param        key    path   string  true   "Subscription id or number"
// @Param        as_of  query  string  false  "Evaluate as of YYYY-MM-DD"
// @Success      200  {object}  DataResponse
// @Router       /subscriptions/{key}/overview [get]
func (s *Server) GetOverview(c *gin.Context) {
	ctx := c.Request.Context()

	sub, resolved, err := s.subscriptionSvc.Subscription(ctx, c.Param("key"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ov, err := s.overviewSvc.Overview(ctx, sub, resolved.Snapshot, overviewdomain.Options{})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, overviewResponse{Overview: ov, Source: newSourceInfo(resolved)})
}

// @Summary      Snapshot versions
// @Description  Versions fetched from the billing API, newest first
// @Tags         subscriptions
// @Produce      json
// @Param        key  path  string  true  "Subscription id or number"
// @Success      200  {object}  DataResponse
// @Router       /subscriptions/{key}/versions [get]
func (s *Server) ListVersions(c *gin.Context) {
	versions, err := s.subscriptionSvc.Versions(c.Request.Context(), c.Param("key"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, versions)
}

// @Summary      Explain one cell
// @Description  The state of one charge on one day and the rule that decided it
// @Tags         subscriptions
// @Produce      json
// @Param        key        path   string  true   "Subscription id or number"
// @Param        charge_id  query  string  true   "Charge id"
// @Param        plan_id    query  string  false  "Rate plan id"
// @Param        date       query  string  true   "Day to explain, YYYY-MM-DD"
// @Success      200  {object}  DataResponse
// @Router       /subscriptions/{key}/explain [get]
func (s *Server) ExplainDay(c *gin.Context) {
	chargeID := strings.TrimSpace(c.Query("charge_id"))
	if chargeID == "" {
		AbortWithError(c, newValidationError("charge_id", "required", "charge_id is required"))
		return
	}
	day, err := calendar.Parse(c.Query("date"))
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD"))
		return
	}

	ctx := c.Request.Context()
	sub, _, err := s.subscriptionSvc.Subscription(ctx, c.Param("key"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	explanation, err := s.timelineSvc.Explain(ctx, sub, timelinedomain.ExplainRequest{
		PlanID:   strings.TrimSpace(c.Query("plan_id")),
		ChargeID: chargeID,
		Day:      day,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, explanation)
}

// @Summary      Build a timeline from a snapshot
// @Description  Accepts a raw billing-system subscription and returns its timeline
// @Tags         timeline
// @Accept       json
// @Produce      json
// @Param        as_of    query  string                         false  "Evaluate as of YYYY-MM-DD"
// @Param        request  body   subscriptiondomain.Snapshot  true   "Subscription snapshot"
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /timeline [post]
func (s *Server) BuildTimeline(c *gin.Context) {
	var snap subscriptiondomain.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	sub, err := s.subscriptionSvc.Normalize(&snap)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	tl, err := s.timelineSvc.Build(c.Request.Context(), sub, timelinedomain.BuildOptions{})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, timelineResponse{Timeline: tl, Source: sourceInfo{Origin: subscriptiondomain.OriginRequest}})
}
