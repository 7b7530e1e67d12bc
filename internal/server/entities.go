package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"riskconsole/internal/backend"
	"riskconsole/internal/console"
)

type entityHandlers struct {
	list, create, update, remove gin.HandlerFunc
}

func (s *Server) entityRoutes(g *gin.RouterGroup) {
	b := s.deps.Backend
	handlers := map[string]entityHandlers{
		"users":               crud(b.Users()),
		"assets":              crud(b.Assets()),
		"vulnerabilities":     crud(b.Vulnerabilities()),
		"alerts":              crud(b.Alerts()),
		"incidents":           crud(b.Incidents()),
		"threat_intelligence": crud(b.Threats()),
	}
	pick := func(sel func(entityHandlers) gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			h, ok := handlers[c.Param("entity")]
			if !ok {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown entity"})
				return
			}
			sel(h)(c)
		}
	}

	g.GET("/:entity", pick(func(h entityHandlers) gin.HandlerFunc { return h.list }))
	g.POST("/:entity", pick(func(h entityHandlers) gin.HandlerFunc { return h.create }))
	g.PUT("/:entity/:id", pick(func(h entityHandlers) gin.HandlerFunc { return h.update }))
	g.DELETE("/:entity/:id", pick(func(h entityHandlers) gin.HandlerFunc { return h.remove }))
}

// crud binds the generic list view state to one backend collection.
func crud[T console.Entity](col *backend.Collection[T]) entityHandlers {
	return entityHandlers{
		list: func(c *gin.Context) {
			l := console.NewList[T](col)
			l.SetQuery(c.Request.URL.Query())
			if err := l.Refresh(c.Request.Context()); err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, l.Items())
		},
		create: func(c *gin.Context) {
			var item T
			if err := c.ShouldBindJSON(&item); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			l := console.NewList[T](col)
			l.NewDraft()
			l.SetDraft(item)
			saved, err := l.Submit(c.Request.Context())
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusCreated, saved)
		},
		update: func(c *gin.Context) {
			id, err := strconv.Atoi(c.Param("id"))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
				return
			}
			var item T
			if err := c.ShouldBindJSON(&item); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			l := console.NewList[T](col)
			l.EditItem(id, item)
			saved, err := l.Submit(c.Request.Context())
			if err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, saved)
		},
		remove: func(c *gin.Context) {
			id, err := strconv.Atoi(c.Param("id"))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
				return
			}
			l := console.NewList[T](col)
			if err := l.Delete(c.Request.Context(), id); err != nil {
				abortWithError(c, err)
				return
			}
			c.Status(http.StatusNoContent)
		},
	}
}

func (s *Server) listEntityConfigs(c *gin.Context) {
	c.JSON(http.StatusOK, console.Entities())
}

func (s *Server) getEntityConfig(c *gin.Context) {
	cfg, ok := console.LookupEntity(c.Param("entity"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown entity"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}
