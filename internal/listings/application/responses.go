package application

import (
	"time"

	"github.com/shopspring/decimal"

	"realestate/internal/listings/domain"
)

// dateLayout is the wire format for calendar dates (birthdays, stay dates).
const dateLayout = "2006-01-02"

// Page is one page of a filtered listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// totalPages computes ceil(totalCount / pageSize).
func totalPages(totalCount, pageSize int) int {
	return (totalCount + pageSize - 1) / pageSize
}

// OwnerResponse is the owner projection.
type OwnerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Photo     string `json:"photo,omitempty"`
	Birthday  string `json:"birthday,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func ownerResponse(o *domain.Owner) *OwnerResponse {
	resp := &OwnerResponse{
		ID:        o.ID().String(),
		Name:      o.Name(),
		Address:   o.Address(),
		Photo:     o.Photo(),
		CreatedAt: o.CreatedAt().Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt().Format(time.RFC3339),
	}
	if !o.Birthday().IsZero() {
		resp.Birthday = o.Birthday().Format(dateLayout)
	}
	return resp
}

// ImageResponse is the property image projection.
type ImageResponse struct {
	ID      string `json:"id"`
	File    string `json:"file"`
	Enabled bool   `json:"enabled"`
}

func imageResponse(img *domain.PropertyImage) ImageResponse {
	return ImageResponse{
		ID:      img.ID.String(),
		File:    img.File,
		Enabled: img.Enabled,
	}
}

// TraceResponse is the price-change audit projection.
type TraceResponse struct {
	ID       string          `json:"id"`
	DateSale string          `json:"date_sale"`
	Name     string          `json:"name"`
	Value    decimal.Decimal `json:"value"`
	Tax      decimal.Decimal `json:"tax"`
}

func traceResponse(tr *domain.PropertyTrace) TraceResponse {
	return TraceResponse{
		ID:       tr.ID.String(),
		DateSale: tr.DateSale.Format(dateLayout),
		Name:     tr.Name,
		Value:    tr.Value,
		Tax:      tr.Tax,
	}
}

// PropertyResponse is the property projection. Images and Traces are
// populated on detail reads; list pages omit them.
type PropertyResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Price        decimal.Decimal `json:"price"`
	CodeInternal string          `json:"code_internal"`
	Year         int             `json:"year"`
	OwnerID      string          `json:"owner_id"`
	OwnerName    string          `json:"owner_name,omitempty"`
	Images       []ImageResponse `json:"images,omitempty"`
	Traces       []TraceResponse `json:"traces,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

func propertyResponse(p *domain.Property) *PropertyResponse {
	return &PropertyResponse{
		ID:           p.ID().String(),
		Name:         p.Name(),
		Address:      p.Address(),
		Price:        p.Price(),
		CodeInternal: p.CodeInternal(),
		Year:         p.Year(),
		OwnerID:      p.OwnerID().String(),
		CreatedAt:    p.CreatedAt().Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt().Format(time.RFC3339),
	}
}

// ReservationResponse is the reservation projection.
type ReservationResponse struct {
	ID         string          `json:"id"`
	PropertyID string          `json:"property_id"`
	GuestName  string          `json:"guest_name"`
	GuestEmail string          `json:"guest_email"`
	CheckIn    string          `json:"check_in"`
	CheckOut   string          `json:"check_out"`
	Guests     int             `json:"guests"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
}

func reservationResponse(r *domain.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:         r.ID().String(),
		PropertyID: r.PropertyID().String(),
		GuestName:  r.GuestName(),
		GuestEmail: r.GuestEmail(),
		CheckIn:    r.CheckIn().Format(dateLayout),
		CheckOut:   r.CheckOut().Format(dateLayout),
		Guests:     r.Guests(),
		TotalPrice: r.TotalPrice(),
		Status:     string(r.Status()),
		CreatedAt:  r.CreatedAt().Format(time.RFC3339),
	}
}
