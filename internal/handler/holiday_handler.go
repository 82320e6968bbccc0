package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "holidaytracker/internal/errors"
	"holidaytracker/internal/middleware"
	"holidaytracker/internal/model"
	"holidaytracker/internal/service"
)

// HolidayHandler handles holiday endpoints. All routes sit behind RequireAuth.
type HolidayHandler struct {
	holidayService service.HolidayService
}

// NewHolidayHandler creates a new holiday handler.
func NewHolidayHandler(holidayService service.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidayService: holidayService}
}

// List godoc
// @Summary List own holidays ordered by start date
// @Tags holidays
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Holiday
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /holidays [get]
func (h *HolidayHandler) List(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	holidays, err := h.holidayService.List(c.Request().Context(), owner)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, holidays)
}

// Get godoc
// @Summary Get one own holiday
// @Tags holidays
// @Produce json
// @Security BearerAuth
// @Param id path int true "Holiday ID"
// @Success 200 {object} model.Holiday
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /holidays/{id} [get]
func (h *HolidayHandler) Get(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := holidayID(c)
	if err != nil {
		return err
	}
	holiday, err := h.holidayService.Get(c.Request().Context(), owner, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, holiday)
}

// Create godoc
// @Summary Create a holiday
// @Tags holidays
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.HolidayInput true "Holiday"
// @Success 201 {object} model.Holiday
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /holidays [post]
func (h *HolidayHandler) Create(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req model.HolidayInput
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	holiday, err := h.holidayService.Create(c.Request().Context(), owner, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, holiday)
}

// Update godoc
// @Summary Partially update a holiday
// @Description Only fields present in the body change. "description": null clears the description.
// @Tags holidays
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Holiday ID"
// @Param request body model.HolidayPatch true "Fields to change"
// @Success 200 {object} model.Holiday
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /holidays/{id} [put]
func (h *HolidayHandler) Update(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := holidayID(c)
	if err != nil {
		return err
	}
	var patch model.HolidayPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(err)
	}
	// same length limits as create
	limits := model.HolidayInput{Name: patch.Name.Value, Description: patch.Description.Ptr()}
	if err := c.Validate(&limits); err != nil {
		return validationError(err)
	}

	holiday, err := h.holidayService.Update(c.Request().Context(), owner, id, patch)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, holiday)
}

// Delete godoc
// @Summary Delete a holiday
// @Tags holidays
// @Produce json
// @Security BearerAuth
// @Param id path int true "Holiday ID"
// @Success 200 {object} errors.MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /holidays/{id} [delete]
func (h *HolidayHandler) Delete(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	id, err := holidayID(c)
	if err != nil {
		return err
	}
	if err := h.holidayService.Delete(c.Request().Context(), owner, id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, apperrors.MessageResponse{Message: "Holiday deleted"})
}

func ownerID(c echo.Context) (uint, error) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return 0, toHTTPError(apperrors.ErrMissingToken)
	}
	return id.UserID, nil
}

// holidayID parses the path id. Anything that is not a positive integer cannot
// name an owned record and is reported as not found.
func holidayID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, toHTTPError(apperrors.ErrHolidayNotFound)
	}
	return uint(id), nil
}
