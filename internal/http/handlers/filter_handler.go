// Filter HTTP handlers.
//
// This file exposes the REST endpoints for managing stored mail filters:
//   - GET    /filters        (list, in evaluation order)
//   - POST   /filters        (create; the store assigns the id)
//   - PUT    /filters/{id}   (partial edit)
//   - DELETE /filters/{id}   (delete; ids are never reused)
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hklam/go-ticket-backend/internal/domain"
	"github.com/hklam/go-ticket-backend/internal/services"
	"github.com/hklam/go-ticket-backend/internal/store"
)

// CreateFilterRequest is the JSON payload for creating a filter.
//
// Only the name is required; every predicate left empty always passes, so
// a filter with no predicates matches every email and always emits its
// action.
type CreateFilterRequest struct {
	Name          string `json:"name" binding:"required" example:"mx alerts"`
	FromEmail     string `json:"from_email" example:"system.mx@example.com"`
	SubjectFilter string `json:"subject_filter" example:"contains(subject, \"MX Alert\")"`
	BodyFilter    string `json:"body_filter"`
	ToEmail       string `json:"to_email"`
	Action        string `json:"action" example:"send_mx_alert"`
	Description   string `json:"description"`
}

// ListFilters godoc
// @ID          listFilters
// @Summary     List filters
// @Description Returns all stored filters in evaluation order.
// @Tags        Filters
// @Produce     json
// @Success     200 {array}  domain.Filter
// @Router      /filters [get]
func (h *Handlers) ListFilters(c *gin.Context) {
	ok(c, http.StatusOK, h.filterSvc.List())
}

// CreateFilter godoc
// @ID          createFilter
// @Summary     Create a filter
// @Description Stores a new filter; the id is assigned by the store and never reused.
// @Tags        Filters
// @Accept      json
// @Produce     json
// @Param       body body handlers.CreateFilterRequest true "Filter payload"
// @Success     201 {object} domain.Filter
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /filters [post]
func (h *Handlers) CreateFilter(c *gin.Context) {
	var req CreateFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name is required")
		return
	}

	created, err := h.filterSvc.Create(domain.Filter{
		Name:          req.Name,
		FromEmail:     req.FromEmail,
		SubjectFilter: req.SubjectFilter,
		BodyFilter:    req.BodyFilter,
		ToEmail:       req.ToEmail,
		Action:        req.Action,
		Description:   req.Description,
	})
	if err != nil {
		if errors.Is(err, services.ErrFilterNameRequired) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name is required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, created)
}

// EditFilter godoc
// @ID          editFilter
// @Summary     Edit a filter
// @Description Applies a partial update; absent fields are left untouched.
// @Tags        Filters
// @Accept      json
// @Produce     json
// @Param       id   path int                true "Filter ID"
// @Param       body body store.FilterPatch true "Fields to update"
// @Success     204 {string} string "No Content"
// @Failure     400 {object} handlers.ErrorResponse "Invalid id or payload"
// @Failure     404 {object} handlers.ErrorResponse "Filter not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /filters/{id} [put]
func (h *Handlers) EditFilter(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
		return
	}
	var patch store.FilterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	if err := h.filterSvc.Edit(id, patch); err != nil {
		if errors.Is(err, services.ErrFilterNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "filter not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// DeleteFilter godoc
// @ID          deleteFilter
// @Summary     Delete a filter
// @Description Removes a filter by id. The id is never reassigned.
// @Tags        Filters
// @Produce     json
// @Param       id path int true "Filter ID"
// @Success     204 {string} string "No Content"
// @Failure     400 {object} handlers.ErrorResponse "Invalid id"
// @Failure     404 {object} handlers.ErrorResponse "Filter not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /filters/{id} [delete]
func (h *Handlers) DeleteFilter(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
		return
	}

	if err := h.filterSvc.Delete(id); err != nil {
		if errors.Is(err, services.ErrFilterNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "filter not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
