// Ticket HTTP handlers.
//
// This file exposes the dashboard's REST endpoints over the persisted
// ticket collection:
//   - GET    /tickets           (list; optional date range and paging)
//   - POST   /tickets           (manual add)
//   - PUT    /tickets/{number}  (edit user-owned fields)
//   - DELETE /tickets           (clear the collection)
//
// Machine-derived fields (shop, description, date) are owned by the scan
// pipeline and cannot be edited here; the update payload only carries the
// user-owned field group.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hklam/go-ticket-backend/internal/domain"
	"github.com/hklam/go-ticket-backend/internal/services"
	"github.com/hklam/go-ticket-backend/internal/store"
	"github.com/hklam/go-ticket-backend/internal/utils"
)

// TicketListResponse is the paged envelope for ticket listings.
type TicketListResponse struct {
	Items    []domain.Ticket `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// AddTicketRequest is the JSON payload for creating a ticket by hand.
// A missing date defaults to the current time in the normalized layout.
type AddTicketRequest struct {
	TicketNumber string `json:"ticket_number" binding:"required" example:"HK540639"`
	Shop         string `json:"shop"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Problem      string `json:"problem"`
	ResolveTime  string `json:"resolve_time"`
	PhRmOs       string `json:"ph_rm_os"`
	Solution     string `json:"solution"`
	FuAction     string `json:"fu_action"`
	HandledBy    string `json:"handled_by"`
	Status       string `json:"status"`
}

// ListTickets godoc
// @ID          listTickets
// @Summary     List tickets
// @Description Lists tickets newest first, optionally restricted to a date range and paged.
// @Tags        Tickets
// @Produce     json
// @Param       from      query string false "Range start (YYYY-MM-DD or DD-MM-YYYY)"
// @Param       to        query string false "Range end, inclusive"
// @Param       page      query int    false "Page (1-based)"
// @Param       page_size query int    false "Page size (0: no paging)"
// @Success     200 {object} handlers.TicketListResponse
// @Failure     400 {object} handlers.ErrorResponse "Invalid date range"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /tickets [get]
func (h *Handlers) ListTickets(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	page := utils.AtoiDefault(c.Query("page"), 1)
	pageSize := utils.AtoiDefault(c.Query("page_size"), 0)

	items, total, err := h.ticketSvc.List(from, to, page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDateRange) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid date range")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if items == nil {
		items = []domain.Ticket{}
	}
	ok(c, http.StatusOK, TicketListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// AddTicket godoc
// @ID          addTicket
// @Summary     Add a ticket manually
// @Description Creates a ticket from the dashboard; ticket numbers must be unique.
// @Tags        Tickets
// @Accept      json
// @Produce     json
// @Param       body body handlers.AddTicketRequest true "Ticket payload"
// @Success     201 {object} domain.Ticket
// @Failure     400 {object} handlers.ErrorResponse "Missing ticket number"
// @Failure     409 {object} handlers.ErrorResponse "Ticket already exists"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /tickets [post]
func (h *Handlers) AddTicket(c *gin.Context) {
	var req AddTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ticket_number is required")
		return
	}

	created, err := h.ticketSvc.Add(domain.Ticket{
		TicketNumber: req.TicketNumber,
		Shop:         req.Shop,
		Description:  req.Description,
		Date:         req.Date,
		Problem:      req.Problem,
		ResolveTime:  req.ResolveTime,
		PhRmOs:       req.PhRmOs,
		Solution:     req.Solution,
		FuAction:     req.FuAction,
		HandledBy:    req.HandledBy,
		Status:       req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTicketNumberRequired):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ticket_number is required")
		case errors.Is(err, services.ErrDuplicateTicket):
			fail(c, http.StatusConflict, ErrCodeConflict, "ticket already exists")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, created)
}

// UpdateTicket godoc
// @ID          updateTicket
// @Summary     Update a ticket's user-owned fields
// @Description Patches problem/solution/status/etc.; machine-derived fields are untouchable here.
// @Tags        Tickets
// @Accept      json
// @Produce     json
// @Param       number path string            true "Ticket number"
// @Param       body   body store.TicketPatch true "Fields to update"
// @Success     204 {string} string "No Content"
// @Failure     400 {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404 {object} handlers.ErrorResponse "Ticket not found"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /tickets/{number} [put]
func (h *Handlers) UpdateTicket(c *gin.Context) {
	number := c.Param("number")
	var patch store.TicketPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}

	if err := h.ticketSvc.Update(number, patch); err != nil {
		if errors.Is(err, services.ErrTicketNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "ticket not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// ClearTickets godoc
// @ID          clearTickets
// @Summary     Clear all tickets
// @Description Removes every stored ticket. This is the only delete path.
// @Tags        Tickets
// @Produce     json
// @Success     204 {string} string "No Content"
// @Failure     500 {object} handlers.ErrorResponse "Internal server error"
// @Router      /tickets [delete]
func (h *Handlers) ClearTickets(c *gin.Context) {
	if err := h.ticketSvc.Clear(); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
