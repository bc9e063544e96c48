package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/portersclub/members-api/internal/models"
	pkghttp "github.com/portersclub/members-api/pkg/http"
)

const dateLayout = "2006-01-02"

// MemberService defines the interface for member business logic
type MemberService interface {
	List(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error)
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	Create(ctx context.Context, member *models.Member) (*models.Member, error)
	Update(ctx context.Context, id int64, member *models.Member) (*models.Member, error)
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	PermanentDelete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.MemberStats, error)
}

// MemberHandler handles member-related HTTP requests
type MemberHandler struct {
	service MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(service MemberService) *MemberHandler {
	return &MemberHandler{
		service: service,
	}
}

// Request/Response DTOs

// MemberRequest represents the request body for creating or updating a member.
// Age accepts a JSON number, a numeric string, or null; dates are "YYYY-MM-DD".
type MemberRequest struct {
	FullName       string          `json:"fullName" validate:"required,min=1"`
	Age            json.RawMessage `json:"age"`
	DOB            string          `json:"dob" validate:"required"`
	Residence      string          `json:"residence" validate:"required,min=1"`
	GPSAddress     string          `json:"gpsAddress"`
	PhoneNumber    string          `json:"phoneNumber" validate:"required,min=1"`
	AltPhoneNumber string          `json:"altPhoneNumber"`
	Nationality    string          `json:"nationality"`
	MaritalStatus  string          `json:"maritalStatus"`
	JoiningDate    string          `json:"joiningDate" validate:"required"`
	Avatar         string          `json:"avatar"`
}

// MemberResponse represents a member in the HTTP response
type MemberResponse struct {
	ID             int64  `json:"id"`
	FullName       string `json:"fullName"`
	Age            *int   `json:"age"`
	DOB            string `json:"dob"`
	Residence      string `json:"residence"`
	GPSAddress     string `json:"gpsAddress,omitempty"`
	PhoneNumber    string `json:"phoneNumber"`
	AltPhoneNumber string `json:"altPhoneNumber,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	MaritalStatus  string `json:"maritalStatus,omitempty"`
	JoiningDate    string `json:"joiningDate"`
	Avatar         string `json:"avatar,omitempty"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
	DeletedAt      string `json:"deletedAt,omitempty"`
}

// DataResponse wraps a successful payload
type DataResponse struct {
	Data any `json:"data"`
}

// MessageResponse reports the outcome of a lifecycle operation
type MessageResponse struct {
	Message string `json:"message"`
}

// memberModelToResponse converts a member model to a response DTO
func memberModelToResponse(member *models.Member) *MemberResponse {
	resp := &MemberResponse{
		ID:             member.ID,
		FullName:       member.FullName,
		Age:            member.Age,
		DOB:            member.DOB.Format(dateLayout),
		Residence:      member.Residence,
		GPSAddress:     member.GPSAddress,
		PhoneNumber:    member.PhoneNumber,
		AltPhoneNumber: member.AltPhoneNumber,
		Nationality:    member.Nationality,
		MaritalStatus:  member.MaritalStatus,
		JoiningDate:    member.JoiningDate.Format(dateLayout),
		Avatar:         member.Avatar,
		CreatedAt:      member.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      member.UpdatedAt.Format(time.RFC3339),
	}
	if member.DeletedAt != nil {
		resp.DeletedAt = member.DeletedAt.Format(time.RFC3339)
	}
	return resp
}

// RegisterRoutes registers all member routes with the chi router.
// The stats route must be registered before the {id} routes so "stats"
// is not swallowed as a path parameter.
func (h *MemberHandler) RegisterRoutes(router chi.Router) {
	router.Route("/members", func(r chi.Router) {
		r.Get("/", h.ListMembers)                        // GET /members
		r.Post("/", h.CreateMember)                      // POST /members
		r.Get("/stats", h.GetStats)                      // GET /members/stats
		r.Get("/{id}", h.GetMember)                      // GET /members/{id}
		r.Put("/{id}", h.UpdateMember)                   // PUT /members/{id}
		r.Delete("/{id}", h.DeleteMember)                // DELETE /members/{id}
		r.Post("/{id}/restore", h.RestoreMember)         // POST /members/{id}/restore
		r.Delete("/{id}/permanent", h.PermanentlyDelete) // DELETE /members/{id}/permanent
	})
}

// ListMembers retrieves members from the active or trash table
//
// @Summary List members
// @Param search query string false "Substring match on name, phone or residence"
// @Param maritalStatus query string false "Exact marital status"
// @Param minAge query int false "Inclusive lower age bound"
// @Param maxAge query int false "Inclusive upper age bound"
// @Param trash query bool false "List the trash table instead"
// @Produce json
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /members [get]
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	filter, err := parseMemberFilter(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	members, err := h.service.List(r.Context(), filter)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	responses := make([]*MemberResponse, len(members))
	for i, member := range members {
		responses[i] = memberModelToResponse(member)
	}

	pkghttp.WriteJSON(w, http.StatusOK, DataResponse{Data: responses})
}

// GetMember retrieves a single active member
//
// @Summary Get member by ID
// @Param id path int true "Member ID"
// @Produce json
// @Success 200 {object} DataResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /members/{id} [get]
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(w, r)
	if !ok {
		return
	}

	member, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Member not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, DataResponse{Data: memberModelToResponse(member)})
}

// CreateMember creates a new active member
//
// @Summary Create a member
// @Accept json
// @Param request body MemberRequest true "Member fields"
// @Produce json
// @Success 201 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /members [post]
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	member, ok := decodeMemberRequest(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), member)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, DataResponse{Data: memberModelToResponse(created)})
}

// UpdateMember replaces the fields of an existing active member
//
// @Summary Update a member
// @Param id path int true "Member ID"
// @Accept json
// @Param request body MemberRequest true "Member fields"
// @Produce json
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /members/{id} [put]
func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(w, r)
	if !ok {
		return
	}

	member, ok := decodeMemberRequest(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), id, member)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Member not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, DataResponse{Data: memberModelToResponse(updated)})
}

// DeleteMember moves a member to the trash table
//
// @Summary Soft-delete a member
// @Param id path int true "Member ID"
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /members/{id} [delete]
func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(w, r)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Member not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Member moved to trash"})
}

// RestoreMember moves a member from the trash table back to the active table
//
// @Summary Restore a member from trash
// @Param id path int true "Member ID"
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /members/{id}/restore [post]
func (h *MemberHandler) RestoreMember(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(w, r)
	if !ok {
		return
	}

	if err := h.service.Restore(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Member not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Member restored successfully"})
}

// PermanentlyDelete removes a trash member outright
//
// @Summary Permanently delete a trash member
// @Param id path int true "Member ID"
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /members/{id}/permanent [delete]
func (h *MemberHandler) PermanentlyDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(w, r)
	if !ok {
		return
	}

	if err := h.service.PermanentDelete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Member not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Member permanently deleted"})
}

// GetStats returns aggregate counts over the active table
//
// @Summary Member statistics
// @Produce json
// @Success 200 {object} DataResponse
// @Failure 500 {object} ErrorResponse
// @Router /members/stats [get]
func (h *MemberHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, DataResponse{Data: stats})
}

// Helper functions

// memberID parses the id path parameter. A non-numeric id is reported as
// not-found rather than a validation error, matching lookup semantics.
func memberID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		pkghttp.WriteNotFound(w, "Member not found")
		return 0, false
	}
	return id, true
}

// decodeMemberRequest decodes, validates and converts a member request body.
// Writes the error response itself and returns ok=false on failure.
func decodeMemberRequest(w http.ResponseWriter, r *http.Request) (*models.Member, bool) {
	var req MemberRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return nil, false
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return nil, false
	}

	age, err := parseAge(req.Age)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Age must be a number")
		return nil, false
	}

	dob, err := time.Parse(dateLayout, req.DOB)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Date of birth must be in YYYY-MM-DD format")
		return nil, false
	}

	joiningDate, err := time.Parse(dateLayout, req.JoiningDate)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Joining date must be in YYYY-MM-DD format")
		return nil, false
	}

	maritalStatus := strings.TrimSpace(req.MaritalStatus)
	if maritalStatus != "" && !models.ValidMaritalStatus(maritalStatus) {
		pkghttp.WriteBadRequest(w, "Marital status must be one of: single, married, widowed, other")
		return nil, false
	}

	return &models.Member{
		FullName:       strings.TrimSpace(req.FullName),
		Age:            age,
		DOB:            dob,
		Residence:      strings.TrimSpace(req.Residence),
		GPSAddress:     strings.TrimSpace(req.GPSAddress),
		PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
		AltPhoneNumber: strings.TrimSpace(req.AltPhoneNumber),
		Nationality:    strings.TrimSpace(req.Nationality),
		MaritalStatus:  maritalStatus,
		JoiningDate:    joiningDate,
		Avatar:         strings.TrimSpace(req.Avatar),
	}, true
}

// parseAge normalizes the age field. Accepts a JSON number, a string holding
// a number, an empty string, or null; empty and null mean "unknown".
func parseAge(raw json.RawMessage) (*int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New("age must be a number")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.New("age must be a number")
	}

	return &n, nil
}

// parseMemberFilter reads list query parameters. Bad numeric bounds are a
// validation error; everything else defaults to "no constraint".
func parseMemberFilter(r *http.Request) (models.MemberFilter, error) {
	q := r.URL.Query()

	filter := models.MemberFilter{
		Search:        strings.TrimSpace(q.Get("search")),
		MaritalStatus: strings.TrimSpace(q.Get("maritalStatus")),
	}

	if v := q.Get("minAge"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("minAge must be a number")
		}
		filter.MinAge = &n
	}

	if v := q.Get("maxAge"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("maxAge must be a number")
		}
		filter.MaxAge = &n
	}

	if v := q.Get("trash"); v != "" {
		filter.Trash = v == "true" || v == "1"
	}

	return filter, nil
}
