package handlers

import (
	"context"
	"net/http"

	"grading-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	Service *service.AssignmentService
}

func NewAssignmentHandler(s *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{Service: s}
}

// BulkAssign runs the peer-validation distributor for a module. A first run
// answers 201 with the new batch; a rerun is a 200 no-op with the stored one.
func (h *AssignmentHandler) BulkAssign(c *gin.Context) {
	result, err := h.Service.Distribute(context.Background(), c.Param("moduleId"))
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"batch":        result.Batch,
		"assignments":  result.Assignments,
		"point_grants": result.PointGrants,
		"summary":      result.PerQuestion,
		"created":      result.Created,
	})
}

func (h *AssignmentHandler) ListForUser(c *gin.Context) {
	result, err := h.Service.ListForUser(context.Background(), c.Param("moduleId"), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteModule cascades a module deletion into its assignment batches.
func (h *AssignmentHandler) DeleteModule(c *gin.Context) {
	if err := h.Service.DeleteModule(context.Background(), c.Param("moduleId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Module assignments deleted"})
}
