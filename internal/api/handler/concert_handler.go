package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/concert-booking/internal/core/ports"
)

// ConcertHandler handles HTTP requests for concert operations.
type ConcertHandler struct {
	service ports.ConcertService
}

func NewConcertHandler(service ports.ConcertService) *ConcertHandler {
	return &ConcertHandler{service: service}
}

// Create handles POST /concerts.
//
// @Summary      Create a concert
// @Tags         concerts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      concertRequest  true  "Concert details"
// @Success      201   {object}  domain.Concert
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /concerts [post]
func (h *ConcertHandler) Create(c echo.Context) error {
	var req concertRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	fields, err := req.toFields()
	if err != nil {
		return err
	}

	concert, err := h.service.CreateConcert(c.Request().Context(), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, concert)
}

// List handles GET /Allconcerts.
//
// @Summary      List concerts ordered by date
// @Tags         concerts
// @Produce      json
// @Success      200  {array}   domain.Concert
// @Failure      500  {object}  errorResponse
// @Router       /Allconcerts [get]
func (h *ConcertHandler) List(c echo.Context) error {
	concerts, err := h.service.ListConcerts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, concerts)
}

// Get handles GET /get-concert/:id.
//
// @Summary      Get a concert by id
// @Tags         concerts
// @Produce      json
// @Param        id   path      string  true  "Concert id"
// @Success      200  {object}  domain.Concert
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /get-concert/{id} [get]
func (h *ConcertHandler) Get(c echo.Context) error {
	concert, err := h.service.GetConcert(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, concert)
}

// Update handles PUT /update-concert/:id. All five fields are replaced.
//
// @Summary      Replace a concert
// @Tags         concerts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Concert id"
// @Param        body  body      concertRequest  true  "Concert details"
// @Success      200   {object}  domain.Concert
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /update-concert/{id} [put]
func (h *ConcertHandler) Update(c echo.Context) error {
	var req concertRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	fields, err := req.toFields()
	if err != nil {
		return err
	}

	concert, err := h.service.UpdateConcert(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, concert)
}

// Delete handles DELETE /delete-concert/:id.
//
// @Summary      Delete a concert
// @Tags         concerts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Concert id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /delete-concert/{id} [delete]
func (h *ConcertHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteConcert(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Concert deleted successfully"})
}
