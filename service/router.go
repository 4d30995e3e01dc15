package service

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/katalvlaran/mipmh/model"
	"github.com/katalvlaran/mipmh/solver"
)

// Handler carries the request dependencies. The store may be nil; runs are
// then served but not archived.
type Handler struct {
	store *Store
	hub   *Hub
}

// SetupRouter wires the gin engine. ALLOWED_ORIGINS configures CORS
// (comma-separated; empty or "*" allows everything).
func SetupRouter(store *Store, hub *Hub) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	h := &Handler{store: store, hub: hub}

	api := r.Group("/api/v1")
	{
		api.POST("/solve", h.handleSolve)
		api.GET("/stream", hub.Subscribe)
		api.GET("/health", h.handleHealth)
	}
	return r
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": h.store != nil})
}

// handleSolve builds the model from the request, runs the solver
// synchronously (each request owns its model), streams per-loop progress to
// the hub and archives the result when a store is configured.
func (h *Handler) handleSolve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, opt, err := req.BuildModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loop := 0
	m.SetCallback(func() error {
		loop++
		h.hub.Publish(ProgressEvent{
			Model:          m.Name(),
			Loop:           loop,
			Objective:      m.ObjectiveValue(),
			TotalViolation: m.TotalViolation(),
		})
		// Honor client disconnects as a cooperative stop.
		if c.Request.Context().Err() != nil {
			return solver.ErrStopRequested
		}
		return nil
	})

	result, err := solver.Solve(m, opt)
	switch {
	case err == nil:
	case errors.Is(err, solver.ErrUserCallback):
		// The incumbent survived; the error rides along in the result.
	case errors.Is(err, model.ErrInvalidModel),
		errors.Is(err, model.ErrInvalidOption),
		errors.Is(err, model.ErrInvalidInitialValue),
		errors.Is(err, model.ErrInvalidName),
		errors.Is(err, model.ErrTooManyProxies):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.hub.Publish(ProgressEvent{
		RunID:          result.RunID,
		Model:          m.Name(),
		Loop:           loop,
		Objective:      result.Solution.Objective,
		TotalViolation: result.Solution.TotalViolation,
	})

	if h.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.store.SaveResult(ctx, result); err != nil {
			log.Printf("failed to archive run %s: %v", result.RunID, err)
		}
	}

	c.JSON(http.StatusOK, result)
}
