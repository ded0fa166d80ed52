package handlers

import (
	"context"
	"net/http"

	"grading-service/internal/models"
	"grading-service/internal/service"

	"github.com/gin-gonic/gin"
)

type TestHandler struct {
	Service *service.TestService
}

func NewTestHandler(s *service.TestService) *TestHandler {
	return &TestHandler{Service: s}
}

func (h *TestHandler) CreateTest(c *gin.Context) {
	var test models.Test
	if err := c.ShouldBindJSON(&test); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if test.CreatedBy == "" {
		test.CreatedBy = c.GetHeader("X-User-ID")
	}
	if err := h.Service.CreateTest(context.Background(), &test); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, test)
}

func (h *TestHandler) GetTest(c *gin.Context) {
	test, err := h.Service.GetTest(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

func (h *TestHandler) PublishTest(c *gin.Context) {
	test, err := h.Service.PublishTest(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

func (h *TestHandler) AddQuestionToPool(c *gin.Context) {
	err := h.Service.AddQuestionToPool(context.Background(), c.Param("id"), c.Param("questionId"), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Question added to pool"})
}

func (h *TestHandler) RemoveQuestionFromPool(c *gin.Context) {
	err := h.Service.RemoveQuestionFromPool(context.Background(), c.Param("id"), c.Param("questionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question removed from pool"})
}

// StartAttempt begins or resumes the caller's attempt: 201 for a fresh
// attempt, 200 when an in-progress one is returned unchanged.
func (h *TestHandler) StartAttempt(c *gin.Context) {
	attempt, resumed, err := h.Service.StartAttempt(context.Background(), c.Param("id"), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if resumed {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"attempt": attempt, "resumed": resumed})
}

func (h *TestHandler) SubmitAttempt(c *gin.Context) {
	var req struct {
		Answers []service.SubmittedAnswer `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.SubmitAttempt(context.Background(), c.Param("attemptId"), c.GetHeader("X-User-ID"), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *TestHandler) Statistics(c *gin.Context) {
	stats, err := h.Service.Statistics(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
