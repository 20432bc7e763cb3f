package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hklam/go-ticket-backend/internal/domain"
	"github.com/hklam/go-ticket-backend/internal/services"
	"github.com/hklam/go-ticket-backend/internal/store"
)

// stubTicketService records calls and returns canned results.
type stubTicketService struct {
	items     []domain.Ticket
	total     int
	listErr   error
	addErr    error
	updateErr error
	clearErr  error

	listedFrom, listedTo string
	listedPage, listedPS int
	updatedNumber        string
	updatedWith          store.TicketPatch
	cleared              bool
}

func (s *stubTicketService) List(from, to string, page, pageSize int) ([]domain.Ticket, int, error) {
	s.listedFrom, s.listedTo = from, to
	s.listedPage, s.listedPS = page, pageSize
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return s.items, s.total, nil
}
func (s *stubTicketService) Add(tk domain.Ticket) (domain.Ticket, error) {
	if s.addErr != nil {
		return domain.Ticket{}, s.addErr
	}
	if tk.Status == "" {
		tk.Status = domain.TicketStatusInProgress
	}
	return tk, nil
}
func (s *stubTicketService) Update(number string, patch store.TicketPatch) error {
	s.updatedNumber, s.updatedWith = number, patch
	return s.updateErr
}
func (s *stubTicketService) Clear() error {
	s.cleared = true
	return s.clearErr
}

func ticketRouter(svc TicketService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(nil, svc, nil, 0)
	r := gin.New()
	r.GET("/tickets", h.ListTickets)
	r.POST("/tickets", h.AddTicket)
	r.PUT("/tickets/:number", h.UpdateTicket)
	r.DELETE("/tickets", h.ClearTickets)
	return r
}

func TestListTickets(t *testing.T) {
	svc := &stubTicketService{
		items: []domain.Ticket{{TicketNumber: "HK540639", Shop: "cdc601"}},
		total: 41,
	}
	r := ticketRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/tickets?from=2026-08-01&to=2026-08-31&page=2&page_size=20", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if svc.listedFrom != "2026-08-01" || svc.listedTo != "2026-08-31" {
		t.Fatalf("range passed: %q..%q", svc.listedFrom, svc.listedTo)
	}
	if svc.listedPage != 2 || svc.listedPS != 20 {
		t.Fatalf("paging passed: page=%d size=%d", svc.listedPage, svc.listedPS)
	}

	var got TicketListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 41 || got.Page != 2 || got.PageSize != 20 || len(got.Items) != 1 {
		t.Fatalf("response = %+v", got)
	}
}

func TestListTickets_DefaultsAndEmptyItems(t *testing.T) {
	svc := &stubTicketService{items: nil, total: 0}
	r := ticketRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tickets", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.listedPage != 1 || svc.listedPS != 0 {
		t.Fatalf("defaults: page=%d size=%d", svc.listedPage, svc.listedPS)
	}
	// items must serialize as [], not null.
	if !strings.Contains(w.Body.String(), `"items":[]`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestListTickets_InvalidRange(t *testing.T) {
	r := ticketRouter(&stubTicketService{listErr: services.ErrInvalidDateRange})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tickets?from=nope", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAddTicket(t *testing.T) {
	r := ticketRouter(&stubTicketService{})
	body := `{"ticket_number":"HK540639","shop":"cdc601","problem":"update stuck"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got domain.Ticket
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TicketNumber != "HK540639" || got.Problem != "update stuck" {
		t.Fatalf("created = %+v", got)
	}
}

func TestAddTicket_MissingNumber(t *testing.T) {
	r := ticketRouter(&stubTicketService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(`{"shop":"cdc601"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAddTicket_Duplicate(t *testing.T) {
	r := ticketRouter(&stubTicketService{addErr: services.ErrDuplicateTicket})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(`{"ticket_number":"DUP"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if er.Code != ErrCodeConflict {
		t.Fatalf("code = %q", er.Code)
	}
}

func TestUpdateTicket(t *testing.T) {
	svc := &stubTicketService{}
	r := ticketRouter(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/tickets/HK540639",
		strings.NewReader(`{"status":"resolved","solution":"reimaged"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if svc.updatedNumber != "HK540639" {
		t.Fatalf("number = %q", svc.updatedNumber)
	}
	if svc.updatedWith.Status == nil || *svc.updatedWith.Status != "resolved" {
		t.Fatalf("patch = %+v", svc.updatedWith)
	}
	if svc.updatedWith.Solution == nil || *svc.updatedWith.Solution != "reimaged" {
		t.Fatalf("patch = %+v", svc.updatedWith)
	}
}

func TestUpdateTicket_NotFound(t *testing.T) {
	r := ticketRouter(&stubTicketService{updateErr: services.ErrTicketNotFound})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/tickets/NOPE", strings.NewReader(`{"status":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestClearTickets(t *testing.T) {
	svc := &stubTicketService{}
	r := ticketRouter(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/tickets", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if !svc.cleared {
		t.Fatal("clear not invoked")
	}
}
