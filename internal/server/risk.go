package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"riskconsole/internal/risk"
	"riskconsole/pkg/models"
)

func incidentID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid incident id"})
		return 0, false
	}
	return id, true
}

// listRisk re-emits every open incident's score with structured factors.
func (s *Server) listRisk(c *gin.Context) {
	scores, err := s.deps.Scorer.ScoreAll(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]models.RiskScorePayload, len(scores))
	for i, rs := range scores {
		out[i] = risk.Payload(rs)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getRisk(c *gin.Context) {
	id, ok := incidentID(c)
	if !ok {
		return
	}
	rs, err := s.deps.Scorer.Score(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, risk.Payload(rs))
}

func (s *Server) getRiskSummary(c *gin.Context) {
	view, ok := s.view(c)
	if !ok {
		return
	}
	view.Breakdown = nil
	c.JSON(http.StatusOK, view)
}

func (s *Server) getRiskBreakdown(c *gin.Context) {
	view, ok := s.view(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

// view decodes the incident's payload; malformed payloads become a
// placeholder view rather than an error.
func (s *Server) view(c *gin.Context) (risk.View, bool) {
	id, ok := incidentID(c)
	if !ok {
		return risk.View{}, false
	}
	p, err := s.deps.Scorer.Payload(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return risk.View{}, false
	}
	view := risk.Render(p)
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveDecode(string(view.Encoding))
	}
	return view, true
}

func (s *Server) listSummaries(c *gin.Context) {
	scores, err := s.deps.Scorer.ScoreAll(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]risk.Summary, len(scores))
	for i, rs := range scores {
		out[i] = risk.Compact(rs)
	}
	c.JSON(http.StatusOK, out)
}
