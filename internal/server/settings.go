package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listActions(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Settings.Actions())
}

func (s *Server) runAction(c *gin.Context) {
	res, err := s.deps.Settings.Run(c.Request.Context(), c.Param("action"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadGateway
	}
	c.JSON(status, res)
}
