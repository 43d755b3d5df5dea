package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"realestate/internal/listings/application"
	"realestate/internal/listings/domain"
	"realestate/internal/listings/infrastructure/memory"
)

type bookingState struct {
	ctx             context.Context
	service         *application.ListingsService
	propertyID      domain.PropertyID
	lastReservation *application.ReservationResponse
	lastError       error
}

func InitializeBookingScenario(ctx *godog.ScenarioContext) {
	state := &bookingState{
		ctx: context.Background(),
	}

	ctx.Step(`^a property "([^"]*)" listed at (\d+) per month$`, state.aPropertyListedAt)
	ctx.Step(`^I book it from day (\d+) for (\d+) nights$`, state.iBookItFromDayForNights)
	ctx.Step(`^I book it for guest "([^"]*)" from day (\d+) for (\d+) nights$`, state.iBookItForGuestFromDayForNights)
	ctx.Step(`^the reservation should be confirmed with total price "([^"]*)"$`, state.theReservationShouldBeConfirmedWithTotalPrice)
	ctx.Step(`^the booking should be rejected with a date conflict$`, state.theBookingShouldBeRejectedWithADateConflict)
	ctx.Step(`^the booking should be rejected with message "([^"]*)"$`, state.theBookingShouldBeRejectedWithMessage)
	ctx.Step(`^I cancel the last reservation$`, state.iCancelTheLastReservation)
	ctx.Step(`^the property should have (\d+) active reservations?$`, state.thePropertyShouldHaveActiveReservations)
}

// dayOffset returns today's UTC date shifted by the given number of days.
// Scenarios speak in offsets so check-in dates are always in the future.
func dayOffset(days int) time.Time {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, days)
}

func (s *bookingState) aPropertyListedAt(name string, price int) error {
	dataStore := memory.NewDataStore()
	s.service = application.NewListingsService(dataStore)

	owner, err := s.service.CreateOwner(s.ctx, application.CreateOwnerRequest{
		Name: "María López",
	})
	if err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}
	ownerID, err := domain.ParseOwnerID(owner.ID)
	if err != nil {
		return err
	}

	property, err := s.service.CreateProperty(s.ctx, application.CreatePropertyRequest{
		Name:         name,
		Address:      "Provenza, Medellín",
		Price:        decimal.NewFromInt(int64(price)),
		CodeInternal: "AP-PRV-002",
		Year:         2021,
		OwnerID:      ownerID,
	})
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	s.propertyID, err = domain.ParsePropertyID(property.ID)
	return err
}

func (s *bookingState) iBookItFromDayForNights(day, nights int) error {
	return s.iBookItForGuestFromDayForNights("Laura Cardona", day, nights)
}

func (s *bookingState) iBookItForGuestFromDayForNights(guest string, day, nights int) error {
	resp, err := s.service.CreateReservation(s.ctx, application.CreateReservationRequest{
		PropertyID: s.propertyID,
		GuestName:  guest,
		GuestEmail: "laura@example.com",
		CheckIn:    dayOffset(day),
		CheckOut:   dayOffset(day + nights),
		Guests:     2,
	})

	s.lastError = err
	if err == nil {
		s.lastReservation = resp
	}

	return nil // Errors are captured in state for later assertions
}

func (s *bookingState) theReservationShouldBeConfirmedWithTotalPrice(total string) error {
	if s.lastError != nil {
		return fmt.Errorf("expected booking to succeed, got error: %v", s.lastError)
	}
	if s.lastReservation == nil {
		return errors.New("no reservation response")
	}
	if s.lastReservation.Status != string(domain.ReservationStatusConfirmed) {
		return fmt.Errorf("expected status %q, got %q", domain.ReservationStatusConfirmed, s.lastReservation.Status)
	}
	if s.lastReservation.TotalPrice.String() != total {
		return fmt.Errorf("expected total price %s, got %s", total, s.lastReservation.TotalPrice.String())
	}
	return nil
}

func (s *bookingState) theBookingShouldBeRejectedWithADateConflict() error {
	if s.lastError == nil {
		return errors.New("expected booking to be rejected, but it succeeded")
	}
	if !errors.Is(s.lastError, domain.ErrDateConflict) {
		return fmt.Errorf("expected a date conflict, got: %v", s.lastError)
	}
	return nil
}

func (s *bookingState) theBookingShouldBeRejectedWithMessage(message string) error {
	if s.lastError == nil {
		return errors.New("expected booking to be rejected, but it succeeded")
	}
	if !strings.Contains(s.lastError.Error(), message) {
		return fmt.Errorf("expected error containing %q, got: %v", message, s.lastError)
	}
	return nil
}

func (s *bookingState) iCancelTheLastReservation() error {
	if s.lastReservation == nil {
		return errors.New("no reservation to cancel")
	}
	reservationID, err := domain.ParseReservationID(s.lastReservation.ID)
	if err != nil {
		return err
	}
	return s.service.CancelReservation(s.ctx, application.CancelReservationRequest{
		PropertyID:    s.propertyID,
		ReservationID: reservationID,
	})
}

func (s *bookingState) thePropertyShouldHaveActiveReservations(count int) error {
	reservations, err := s.service.ListPropertyReservations(s.ctx, s.propertyID)
	if err != nil {
		return fmt.Errorf("failed to list reservations: %w", err)
	}
	if len(reservations) != count {
		return fmt.Errorf("expected %d active reservations, got %d", count, len(reservations))
	}
	return nil
}
