package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"realestate/internal/common/logging"
	"realestate/internal/listings/application"
	"realestate/internal/listings/domain"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Handler handles HTTP requests for the listings context.
type Handler struct {
	service *application.ListingsService
}

// NewHandler creates a new Handler.
func NewHandler(service *application.ListingsService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the listings routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /owners", h.CreateOwner)
	mux.HandleFunc("GET /owners", h.ListOwners)
	mux.HandleFunc("GET /owners/{id}", h.GetOwner)

	mux.HandleFunc("POST /properties", h.CreateProperty)
	mux.HandleFunc("GET /properties", h.ListProperties)
	mux.HandleFunc("GET /properties/{id}", h.GetProperty)
	mux.HandleFunc("PUT /properties/{id}", h.UpdateProperty)
	mux.HandleFunc("PATCH /properties/{id}/price", h.ChangePropertyPrice)
	mux.HandleFunc("POST /properties/{id}/images", h.AddPropertyImage)

	mux.HandleFunc("POST /properties/{id}/reservations", h.CreateReservation)
	mux.HandleFunc("GET /properties/{id}/reservations", h.ListPropertyReservations)
	mux.HandleFunc("DELETE /properties/{id}/reservations/{reservationId}", h.CancelReservation)
}

// Error codes reported alongside HTTP statuses.
const (
	codeValidation    = "VALIDATION_ERROR"
	codeNotFound      = "NOT_FOUND"
	codeOwnerNotFound = "OWNER_NOT_FOUND"
	codeDuplicateCode = "DUPLICATE_CODE"
	codeDateConflict  = "DATE_CONFLICT"
	codeInternal      = "INTERNAL"
)

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CreateOwnerRequest is the JSON request body for registering an owner.
type CreateOwnerRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Photo    string `json:"photo"`
	Birthday string `json:"birthday"` // 2006-01-02, optional
}

// CreateOwner handles POST /owners.
func (h *Handler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	var req CreateOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	var birthday time.Time
	if req.Birthday != "" {
		var err error
		birthday, err = time.Parse(dateLayout, req.Birthday)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "invalid birthday, expected "+dateLayout)
			return
		}
	}

	resp, err := h.service.CreateOwner(r.Context(), application.CreateOwnerRequest{
		Name:     req.Name,
		Address:  req.Address,
		Photo:    req.Photo,
		Birthday: birthday,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// ListOwners handles GET /owners.
func (h *Handler) ListOwners(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListOwners(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetOwner handles GET /owners/{id}.
func (h *Handler) GetOwner(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseOwnerID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid owner id")
		return
	}

	resp, err := h.service.GetOwner(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreatePropertyRequest is the JSON request body for creating a property.
type CreatePropertyRequest struct {
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Price        decimal.Decimal `json:"price"`
	CodeInternal string          `json:"code_internal"`
	Year         int             `json:"year"`
	OwnerID      string          `json:"owner_id"`
}

// CreateProperty handles POST /properties.
func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	// A malformed owner id cannot match any owner; the blank zero value
	// falls through to payload validation.
	ownerID, _ := domain.ParseOwnerID(req.OwnerID)

	resp, err := h.service.CreateProperty(r.Context(), application.CreatePropertyRequest{
		Name:         req.Name,
		Address:      req.Address,
		Price:        req.Price,
		CodeInternal: req.CodeInternal,
		Year:         req.Year,
		OwnerID:      ownerID,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// ListProperties handles GET /properties.
func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePropertyFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	resp, err := h.service.ListProperties(r.Context(), filter)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// parsePropertyFilter reads the listing filters from the query string.
func parsePropertyFilter(r *http.Request) (domain.PropertyFilter, error) {
	q := r.URL.Query()
	filter := domain.PropertyFilter{
		Name:    q.Get("name"),
		Address: q.Get("address"),
	}

	if v := q.Get("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errors.New("invalid min_price")
		}
		filter.MinPrice = &d
	}
	if v := q.Get("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errors.New("invalid max_price")
		}
		filter.MaxPrice = &d
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("invalid year")
		}
		filter.Year = &year
	}
	if v := q.Get("owner_id"); v != "" {
		ownerID, err := domain.ParseOwnerID(v)
		if err != nil {
			return filter, errors.New("invalid owner_id")
		}
		filter.OwnerID = &ownerID
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("invalid page")
		}
		filter.Page = page
	}
	if v := q.Get("page_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("invalid page_size")
		}
		filter.PageSize = size
	}

	return filter, nil
}

// GetProperty handles GET /properties/{id}.
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePropertyID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid property id")
		return
	}

	resp, err := h.service.GetProperty(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdatePropertyRequest is the JSON request body for updating a property.
// Price is absent on purpose: it only moves through PATCH .../price.
type UpdatePropertyRequest struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	CodeInternal string `json:"code_internal"`
	Year         int    `json:"year"`
	OwnerID      string `json:"owner_id"`
}

// UpdateProperty handles PUT /properties/{id}.
func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePropertyID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid property id")
		return
	}

	var req UpdatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	ownerID, _ := domain.ParseOwnerID(req.OwnerID)

	resp, err := h.service.UpdateProperty(r.Context(), application.UpdatePropertyRequest{
		PropertyID:   id,
		Name:         req.Name,
		Address:      req.Address,
		CodeInternal: req.CodeInternal,
		Year:         req.Year,
		OwnerID:      ownerID,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ChangePriceRequest is the JSON request body for a price change.
type ChangePriceRequest struct {
	NewPrice decimal.Decimal `json:"new_price"`
}

// ChangePropertyPrice handles PATCH /properties/{id}/price.
func (h *Handler) ChangePropertyPrice(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePropertyID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid property id")
		return
	}

	var req ChangePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	resp, err := h.service.ChangePropertyPrice(r.Context(), application.ChangePropertyPriceRequest{
		PropertyID: id,
		NewPrice:   req.NewPrice,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddImageRequest is the JSON request body for attaching an image.
type AddImageRequest struct {
	File    string `json:"file"`
	Enabled *bool  `json:"enabled"` // defaults to true when omitted
}

// AddPropertyImage handles POST /properties/{id}/images.
func (h *Handler) AddPropertyImage(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePropertyID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid property id")
		return
	}

	var req AddImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	resp, err := h.service.AddPropertyImage(r.Context(), application.AddPropertyImageRequest{
		PropertyID: id,
		File:       req.File,
		Enabled:    enabled,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// CreateReservationRequest is the JSON request body for booking a property.
type CreateReservationRequest struct {
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	CheckIn    string `json:"check_in"`  // 2006-01-02
	CheckOut   string `json:"check_out"` // 2006-01-02
	Guests     int    `json:"guests"`
}

// CreateReservation handles POST /properties/{id}/reservations.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePropertyID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid property id")
		return
	}

	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid check_in, expected "+dateLayout)
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid check_out, expected "+dateLayout)
		return
	}

	resp, err := h.service.CreateReservation(r.Context(), application.CreateReservationRequest{
		PropertyID: id,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListPropertyReservations handles GET /properties/{id}/reservations.
func (h *Handler) ListPropertyReservations(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePropertyID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid property id")
		return
	}

	resp, err := h.service.ListPropertyReservations(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CancelReservation handles DELETE /properties/{id}/reservations/{reservationId}.
func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	propertyID, err := domain.ParsePropertyID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid property id")
		return
	}
	reservationID, err := domain.ParseReservationID(r.PathValue("reservationId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid reservation id")
		return
	}

	if err := h.service.CancelReservation(r.Context(), application.CancelReservationRequest{
		PropertyID:    propertyID,
		ReservationID: reservationID,
	}); err != nil {
		handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleDomainError maps domain errors onto HTTP statuses and error codes.
// Unrecognized errors are logged with full detail and reported generically.
func handleDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, codeValidation, validationErr.Error())
	case errors.Is(err, domain.ErrOwnerNotFound):
		writeError(w, http.StatusNotFound, codeOwnerNotFound, "owner not found")
	case errors.Is(err, domain.ErrPropertyNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "property not found")
	case errors.Is(err, domain.ErrReservationNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "reservation not found")
	case errors.Is(err, domain.ErrImageNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "property image not found")
	case errors.Is(err, domain.ErrDuplicateCode):
		writeError(w, http.StatusConflict, codeDuplicateCode, "internal code already exists")
	case errors.Is(err, domain.ErrDateConflict):
		writeError(w, http.StatusConflict, codeDateConflict, "property is not available for selected dates")
	default:
		logging.Error("Internal error", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
