package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/concert-booking/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry POST /book-tickets safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// BookingHandler handles HTTP requests for ticket bookings.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Book handles POST /book-tickets. A first booking for the pair answers 201,
// tickets merged into an existing booking answer 200. A retry whose key is
// still held by a running request answers 409; a key reused with another
// body answers 422.
//
// @Summary      Book tickets for a concert
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Replay key for safe retries"
// @Param        body             body      bookTicketsRequest  true   "Booking request"
// @Success      200              {object}  bookTicketsResponse
// @Success      201              {object}  bookTicketsResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /book-tickets [post]
func (h *BookingHandler) Book(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req bookTicketsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.BookTickets(c.Request().Context(), ports.BookTicketsInput{
		Caller:         caller,
		UserID:         req.UserID,
		ConcertID:      req.ConcertID,
		Tickets:        req.Tickets,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if res.Replayed {
		c.Response().Header().Set("Idempotent-Replayed", "true")
	}
	if res.Created {
		return c.JSON(http.StatusCreated, bookTicketsResponse{
			Message: "Tickets booked successfully!",
			Booking: res.Booking,
		})
	}
	return c.JSON(http.StatusOK, bookTicketsResponse{
		Message: "Booking updated successfully!",
		Booking: res.Booking,
	})
}

// ListByUser handles GET /user-booking/:id.
//
// @Summary      List a user's bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {array}   domain.Booking
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /user-booking/{id} [get]
func (h *BookingHandler) ListByUser(c echo.Context) error {
	bookings, err := h.service.ListUserBookings(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		return c.JSON(http.StatusOK, messageResponse{Message: "No booking found for this user"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// Update handles PUT /update-booking/:id where id is the user id. The body
// carries the concert and the new absolute ticket count.
//
// @Summary      Change the ticket count of a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "User id"
// @Param        body  body      updateBookingRequest  true  "Concert and new ticket count"
// @Success      200   {object}  updateBookingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /update-booking/{id} [put]
func (h *BookingHandler) Update(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.UpdateBooking(c.Request().Context(), ports.UpdateBookingInput{
		Caller:    caller,
		UserID:    c.Param("id"),
		ConcertID: req.ConcertID,
		Tickets:   req.Tickets,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateBookingResponse{
		UpdatedTickets:  res.UpdatedTickets,
		OldCount:        res.OldCount,
		ExistingBooking: res.Booking,
		Concert:         res.Concert,
		Message:         "Ticket updated succesfully.",
	})
}

// Delete handles DELETE /delete-booking/:id.
//
// @Summary      Cancel a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /delete-booking/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteBooking(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Booking deleted successfully"})
}
