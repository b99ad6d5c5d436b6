package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certwise/coiguard/internal/analysis"
	"github.com/certwise/coiguard/internal/common"
	"github.com/certwise/coiguard/internal/model"
)

// validateRequest is the payload the persistence collaborator posts.
type validateRequest struct {
	Coverage model.CoverageRecord `json:"coverage" binding:"required"`
	Project  model.ProjectContext `json:"project"  binding:"required"`
	Persist  bool                 `json:"persist"`
}

func (s *Server) handleValidate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := s.engine.Validate(req.Coverage, req.Project)

	// Active findings reflect any existing overrides for this COI.
	if req.Coverage.COIID != "" {
		active, err := s.ledger.ActiveFindings(c.Request.Context(), req.Coverage.COIID, result.Issues)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		result.Issues = active
		result.Compliant = len(result.Issues) == 0 && len(result.ExcludedTrades) == 0
	}

	result = analysis.Merge(c.Request.Context(), result, s.analyzer, analysis.Request{
		Coverage: req.Coverage,
		Project:  req.Project,
		Findings: result.Issues,
	}, s.analysisTimeout)

	if req.Persist {
		if err := s.store.SaveResult(c.Request.Context(), &result); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleLatestResult(c *gin.Context) {
	result, err := s.store.GetLatestResult(c.Request.Context(), c.Param("id"))
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// overrideRequest records or revokes an override.
type overrideRequest struct {
	DeficiencyKey string `json:"deficiency_key" binding:"required"`
	Actor         string `json:"actor"          binding:"required"`
	Reason        string `json:"reason"`
}

func (s *Server) handleRecordOverride(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := s.ledger.Override(c.Request.Context(), c.Param("id"), req.DeficiencyKey, req.Actor, req.Reason)
	if errors.Is(err, common.ErrEmptyJustification) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) handleRevokeOverride(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := s.ledger.Revoke(c.Request.Context(), c.Param("id"), req.DeficiencyKey, req.Actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) handleListOverrides(c *gin.Context) {
	events, err := s.ledger.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if events == nil {
		events = []model.OverrideRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
