package handlers

import (
	"context"
	"net/http"

	"grading-service/internal/models"
	"grading-service/internal/service"

	"github.com/gin-gonic/gin"
)

type PointHandler struct {
	Service *service.PointService
}

func NewPointHandler(s *service.PointService) *PointHandler {
	return &PointHandler{Service: s}
}

// AwardCustom is the manual grant path for teachers: forum participation,
// project work, ad-hoc credit.
func (h *PointHandler) AwardCustom(c *gin.Context) {
	var req struct {
		StudentID     string                `json:"student_id" binding:"required"`
		Points        int                   `json:"points" binding:"required"`
		Reason        string                `json:"reason" binding:"required"`
		Category      string                `json:"category" binding:"required"`
		RelatedEntity *models.RelatedEntity `json:"related_entity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	point, err := h.Service.Grant(context.Background(), &models.Point{
		StudentID:     req.StudentID,
		AwardedBy:     c.GetHeader("X-User-ID"),
		Reason:        req.Reason,
		Points:        req.Points,
		Category:      req.Category,
		RelatedEntity: req.RelatedEntity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, point)
}

func (h *PointHandler) ListForUser(c *gin.Context) {
	points, err := h.Service.ListByStudent(context.Background(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *PointHandler) SummaryForUser(c *gin.Context) {
	summary, err := h.Service.Summarize(context.Background(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":     summary.ByCategory,
		"totalPoints": summary.Total,
	})
}

// BulkSummary aggregates a cohort in one call, for teacher dashboards.
func (h *PointHandler) BulkSummary(c *gin.Context) {
	var req struct {
		StudentIDs []string `json:"student_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summaries, err := h.Service.SummarizeMany(context.Background(), req.StudentIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}

// EditPoint updates a grant's points and reason. Student and category can
// never change.
func (h *PointHandler) EditPoint(c *gin.Context) {
	var req struct {
		Points int    `json:"points" binding:"required"`
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	point, err := h.Service.Edit(context.Background(), c.Param("id"), req.Points, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, point)
}

func (h *PointHandler) DeletePoint(c *gin.Context) {
	if err := h.Service.Delete(context.Background(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Point deleted"})
}
