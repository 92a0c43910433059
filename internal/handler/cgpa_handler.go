package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unitechhub/examhub/internal/model"
	"github.com/unitechhub/examhub/internal/response"
	"github.com/unitechhub/examhub/internal/service"
	"github.com/unitechhub/examhub/internal/validator"
)

// CGPAHandler serves the CGPA calculator.
type CGPAHandler struct {
	cgpaService *service.CGPAService
}

// NewCGPAHandler creates a new CGPAHandler.
func NewCGPAHandler(cgpaService *service.CGPAService) *CGPAHandler {
	return &CGPAHandler{cgpaService: cgpaService}
}

// Compute godoc
// POST /api/v1/cgpa
// Computes semester GPAs and the cumulative average on the 5-point scale.
func (h *CGPAHandler) Compute(c *gin.Context) {
	var req model.CGPARequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	response.Success(c, http.StatusOK, h.cgpaService.Compute(&req))
}
