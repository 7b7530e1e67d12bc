package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"riskconsole/internal/console"
	"riskconsole/pkg/models"
)

// linkRoutes manages the incident links the risk engine scores from.
func (s *Server) linkRoutes(g *gin.RouterGroup) {
	g.POST("/incident-assets", s.linkAsset)
	g.PUT("/incident-assets/:incident/:asset", s.updateAssetLink)
	g.DELETE("/incident-assets/:incident/:asset", s.unlinkAsset)
	g.POST("/incident-threats", s.linkThreat)
	g.DELETE("/incident-threats/:incident/:threat", s.unlinkThreat)
	g.POST("/alert-incident/:alert/:incident", s.assignAlert)
	g.DELETE("/alert-incident/:alert", s.unassignAlert)
}

func (s *Server) linkAsset(c *gin.Context) {
	var link models.IncidentAsset
	if !bindRecord(c, &link) {
		return
	}
	saved, err := s.deps.Backend.LinkAsset(c.Request.Context(), link)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *Server) updateAssetLink(c *gin.Context) {
	ids, ok := intParams(c, "incident", "asset")
	if !ok {
		return
	}
	var link models.IncidentAsset
	if !bindRecord(c, &link) {
		return
	}
	saved, err := s.deps.Backend.UpdateAssetLink(c.Request.Context(), ids[0], ids[1], link)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) unlinkAsset(c *gin.Context) {
	ids, ok := intParams(c, "incident", "asset")
	if !ok {
		return
	}
	if err := s.deps.Backend.UnlinkAsset(c.Request.Context(), ids[0], ids[1]); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) linkThreat(c *gin.Context) {
	var link models.IncidentThreat
	if !bindRecord(c, &link) {
		return
	}
	saved, err := s.deps.Backend.LinkThreat(c.Request.Context(), link)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (s *Server) unlinkThreat(c *gin.Context) {
	ids, ok := intParams(c, "incident", "threat")
	if !ok {
		return
	}
	if err := s.deps.Backend.UnlinkThreat(c.Request.Context(), ids[0], ids[1]); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) assignAlert(c *gin.Context) {
	ids, ok := intParams(c, "alert", "incident")
	if !ok {
		return
	}
	alert, err := s.deps.Backend.AssignAlert(c.Request.Context(), ids[0], ids[1])
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (s *Server) unassignAlert(c *gin.Context) {
	ids, ok := intParams(c, "alert")
	if !ok {
		return
	}
	alert, err := s.deps.Backend.UnassignAlert(c.Request.Context(), ids[0])
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// bindRecord decodes and validates a JSON body, aborting on failure.
func bindRecord(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if err := console.ValidateRecord(v); err != nil {
		abortWithError(c, err)
		return false
	}
	return true
}

func intParams(c *gin.Context, names ...string) ([]int, bool) {
	out := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(c.Param(name))
		if err != nil || v <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " id"})
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
