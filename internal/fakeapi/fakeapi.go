// Package fakeapi serves an in-memory ticketing API for tests and local
// development. It follows the REST contract the sdk consumes, including 401
// for missing or rejected bearer tokens and 403 for missing roles.
//
// Tokens are decoded without signature checks, exactly like the client does.
// Do not expose this server to anything but localhost.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/devtiro/tickets/pkg/sdk"
)

// BasePath is where the API is mounted on the handler.
const BasePath = "/api/v1"

const defaultPageSize = 20

// signingKey signs minted tokens so they have a realistic shape. Nothing
// verifies it.
var signingKey = []byte("fakeapi-not-a-secret")

// TokenClaims are the payload fields a minted token carries.
type TokenClaims struct {
	Subject string
	Name    string
	Email   string
	Roles   []string
}

// Token mints a well-formed, unverifiable bearer token for claims.
func Token(claims TokenClaims) string {
	mc := jwt.MapClaims{"sub": claims.Subject}
	if claims.Name != "" {
		mc["name"] = claims.Name
	}
	if claims.Email != "" {
		mc["email"] = claims.Email
	}
	if claims.Roles != nil {
		mc["realm_access"] = map[string]any{"roles": claims.Roles}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(signingKey)
	if err != nil {
		panic("fakeapi: sign token: " + err.Error())
	}
	return signed
}

// RecordedRequest is a request the server received.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
}

type eventRecord struct {
	owner string
	event sdk.Event
}

type ticketRecord struct {
	owner     string
	eventID   uuid.UUID
	ticket    sdk.Ticket
	validated bool
}

// Server is the in-memory API.
type Server struct {
	mu       sync.Mutex
	events   map[uuid.UUID]*eventRecord
	tickets  map[uuid.UUID]*ticketRecord
	revoked  map[string]bool
	requests []RecordedRequest
	qrImage  []byte

	router chi.Router
}

// New creates an empty server.
func New() *Server {
	s := &Server{
		events:  make(map[uuid.UUID]*eventRecord),
		tickets: make(map[uuid.UUID]*ticketRecord),
		revoked: make(map[string]bool),
		qrImage: placeholderPNG,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler with the API mounted at BasePath.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route(BasePath, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.optionalAuth)
			r.Get("/published-events", s.listPublishedEvents)
			r.Get("/published-events/{eventID}", s.getPublishedEvent)
			r.Get("/published-events/{eventID}/ticket-types", s.listPublishedTicketTypes)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/events/{eventID}/ticket-types/{ticketTypeID}/tickets", s.purchaseTicket)
			r.Get("/tickets", s.listTickets)
			r.Get("/tickets/{ticketID}", s.getTicket)
			r.Get("/tickets/{ticketID}/qr-codes", s.getTicketQR)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(sdk.RoleOrganizer))
				r.Get("/events", s.listEvents)
				r.Post("/events", s.createEvent)
				r.Get("/events/{eventID}", s.getEvent)
				r.Put("/events/{eventID}", s.updateEvent)
				r.Delete("/events/{eventID}", s.deleteEvent)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireRole(sdk.RoleStaff))
				r.Post("/ticket-validations", s.validateTicket)
			})
		})
	})
	return r
}

// AddEvent stores event as owned by the organizer with subject owner.
// A missing ID, or missing ticket type IDs, are generated.
func (s *Server) AddEvent(owner string, event sdk.Event) sdk.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = sdk.EventStatusDraft
	}
	for i := range event.TicketTypes {
		if event.TicketTypes[i].ID == uuid.Nil {
			event.TicketTypes[i].ID = uuid.New()
		}
	}
	s.events[event.ID] = &eventRecord{owner: owner, event: event}
	return event
}

// Revoke makes the server answer 401 to token from now on.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

// SetQRImage replaces the bytes served for every ticket QR code.
func (s *Server) SetQRImage(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qrImage = append([]byte(nil), data...)
}

// Requests returns the requests received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// Tickets returns all tickets held by owner.
func (s *Server) Tickets(owner string) []sdk.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sdk.Ticket
	for _, rec := range s.tickets {
		if rec.owner == owner {
			out = append(out, rec.ticket)
		}
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listPublishedEvents(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	s.mu.Lock()
	var matches []sdk.Event
	for _, rec := range s.events {
		if rec.event.Status != sdk.EventStatusPublished {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(rec.event.Name), query) &&
			!strings.Contains(strings.ToLower(rec.event.Venue), query) {
			continue
		}
		matches = append(matches, rec.event)
	}
	s.mu.Unlock()

	sortEvents(matches)
	page, ok := paginate(w, r, matches)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getPublishedEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := s.publishedEvent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) listPublishedTicketTypes(w http.ResponseWriter, r *http.Request) {
	event, ok := s.publishedEvent(w, r)
	if !ok {
		return
	}
	types := event.TicketTypes
	if types == nil {
		types = []sdk.TicketType{}
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) publishedEvent(w http.ResponseWriter, r *http.Request) (sdk.Event, bool) {
	id, ok := pathID(w, r, "eventID")
	if !ok {
		return sdk.Event{}, false
	}
	s.mu.Lock()
	rec, found := s.events[id]
	s.mu.Unlock()
	if !found || rec.event.Status != sdk.EventStatusPublished {
		writeError(w, http.StatusNotFound, "Event not found")
		return sdk.Event{}, false
	}
	return rec.event, true
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	owner := principalFrom(r.Context()).SubjectID

	s.mu.Lock()
	var owned []sdk.Event
	for _, rec := range s.events {
		if rec.owner == owner {
			owned = append(owned, rec.event)
		}
	}
	s.mu.Unlock()

	sortEvents(owned)
	page, ok := paginate(w, r, owned)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var in sdk.CreateEventInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	principal := principalFrom(r.Context())
	event := s.AddEvent(principal.SubjectID, sdk.Event{
		Name:        in.Name,
		Venue:       in.Venue,
		Start:       in.Start,
		End:         in.End,
		SalesStart:  in.SalesStart,
		SalesEnd:    in.SalesEnd,
		Status:      in.Status,
		TicketTypes: ticketTypesFromInput(in.TicketTypes),
		Organizer:   userFrom(principal),
	})
	writeJSON(w, http.StatusCreated, event)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedEvent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec.event)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedEvent(w, r)
	if !ok {
		return
	}
	var in sdk.UpdateEventInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.ID != rec.event.ID {
		writeError(w, http.StatusBadRequest, "Event ID in body does not match path")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	rec.event.Name = in.Name
	rec.event.Venue = in.Venue
	rec.event.Start = in.Start
	rec.event.End = in.End
	rec.event.SalesStart = in.SalesStart
	rec.event.SalesEnd = in.SalesEnd
	if in.Status != "" {
		rec.event.Status = in.Status
	}
	if in.TicketTypes != nil {
		rec.event.TicketTypes = ticketTypesFromInput(in.TicketTypes)
	}
	event := rec.event
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, event)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedEvent(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.events, rec.event.ID)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ownedEvent(w http.ResponseWriter, r *http.Request) (*eventRecord, bool) {
	id, ok := pathID(w, r, "eventID")
	if !ok {
		return nil, false
	}
	owner := principalFrom(r.Context()).SubjectID
	s.mu.Lock()
	rec, found := s.events[id]
	s.mu.Unlock()
	if !found || rec.owner != owner {
		writeError(w, http.StatusNotFound, "Event not found")
		return nil, false
	}
	return rec, true
}

func (s *Server) purchaseTicket(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	ticketTypeID, ok := pathID(w, r, "ticketTypeID")
	if !ok {
		return
	}
	principal := principalFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, found := s.events[eventID]
	if !found || rec.event.Status != sdk.EventStatusPublished {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	var tt *sdk.TicketType
	for i := range rec.event.TicketTypes {
		if rec.event.TicketTypes[i].ID == ticketTypeID {
			tt = &rec.event.TicketTypes[i]
		}
	}
	if tt == nil {
		writeError(w, http.StatusNotFound, "Ticket type not found")
		return
	}
	if tt.TotalAvailable != nil {
		if *tt.TotalAvailable <= 0 {
			writeError(w, http.StatusBadRequest, "Tickets sold out for this ticket type")
			return
		}
		remaining := *tt.TotalAvailable - 1
		tt.TotalAvailable = &remaining
	}

	id := eventID
	ticket := sdk.Ticket{
		ID:         uuid.New(),
		Status:     sdk.TicketStatusPurchased,
		TicketType: *tt,
		Purchaser:  userFrom(principal),
		EventID:    &id,
	}
	s.tickets[ticket.ID] = &ticketRecord{owner: principal.SubjectID, eventID: eventID, ticket: ticket}
	writeJSON(w, http.StatusCreated, ticket)
}

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	owned := s.Tickets(principalFrom(r.Context()).SubjectID)
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID.String() < owned[j].ID.String() })
	page, ok := paginate(w, r, owned)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.ownedTicket(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec.ticket)
}

func (s *Server) getTicketQR(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.ownedTicket(w, r); !ok {
		return
	}
	s.mu.Lock()
	img := s.qrImage
	s.mu.Unlock()
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (s *Server) ownedTicket(w http.ResponseWriter, r *http.Request) (*ticketRecord, bool) {
	id, ok := pathID(w, r, "ticketID")
	if !ok {
		return nil, false
	}
	owner := principalFrom(r.Context()).SubjectID
	s.mu.Lock()
	rec, found := s.tickets[id]
	s.mu.Unlock()
	if !found || rec.owner != owner {
		writeError(w, http.StatusNotFound, "Ticket not found")
		return nil, false
	}
	return rec, true
}

func (s *Server) validateTicket(w http.ResponseWriter, r *http.Request) {
	var in sdk.ValidateTicketInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.TicketID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "Ticket ID is required")
		return
	}
	if in.Method == "" {
		in.Method = sdk.ValidationMethodQRScan
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := sdk.ValidationResult{
		ID:       uuid.New(),
		TicketID: in.TicketID,
		Method:   in.Method,
		Status:   sdk.ValidationStatusInvalid,
	}
	if rec, found := s.tickets[in.TicketID]; found {
		ticket := rec.ticket
		result.Ticket = &ticket
		event, eventFound := s.events[rec.eventID]
		switch {
		case rec.ticket.Status != sdk.TicketStatusPurchased || rec.validated:
			result.Status = sdk.ValidationStatusInvalid
		case eventFound && event.event.Status == sdk.EventStatusCompleted:
			result.Status = sdk.ValidationStatusExpired
		default:
			result.Status = sdk.ValidationStatusValid
			rec.validated = true
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func ticketTypesFromInput(in []sdk.TicketTypeInput) []sdk.TicketType {
	out := make([]sdk.TicketType, 0, len(in))
	for _, tt := range in {
		id := uuid.New()
		if tt.ID != nil {
			id = *tt.ID
		}
		out = append(out, sdk.TicketType{
			ID:             id,
			Name:           tt.Name,
			Description:    tt.Description,
			Price:          tt.Price,
			TotalAvailable: tt.TotalAvailable,
		})
	}
	return out
}

func userFrom(p sdk.Principal) *sdk.User {
	id, err := uuid.Parse(p.SubjectID)
	if err != nil {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(p.SubjectID))
	}
	return &sdk.User{ID: id, Name: p.DisplayName, Email: p.Email}
}

func sortEvents(events []sdk.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start.Time) {
			return events[i].Start.Before(events[j].Start.Time)
		}
		return events[i].Name < events[j].Name
	})
}

func paginate[T any](w http.ResponseWriter, r *http.Request, items []T) (sdk.Page[T], bool) {
	page, okPage := queryInt(r, "page", 0)
	size, okSize := queryInt(r, "size", defaultPageSize)
	if !okPage || !okSize || page < 0 || size <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid paging parameters")
		return sdk.Page[T]{}, false
	}

	total := len(items)
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	content := append([]T{}, items[start:end]...)
	totalPages := (total + size - 1) / size
	return sdk.Page[T]{
		Content:       content,
		TotalElements: int64(total),
		TotalPages:    totalPages,
		Number:        page,
		Size:          size,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}, true
}

func queryInt(r *http.Request, key string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	return v, err == nil
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": http.StatusText(status), "message": message})
}

// placeholderPNG is a 1x1 transparent PNG.
var placeholderPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
