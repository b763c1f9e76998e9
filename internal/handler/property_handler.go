package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"househunt/internal/apiclient"
	apperrors "househunt/internal/errors"
	"househunt/internal/model"
	"househunt/internal/service"
)

// PropertyHandler handles owner listing endpoints.
type PropertyHandler struct {
	properties service.PropertyService
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(properties service.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// PropertyRequest represents the add-property form.
type PropertyRequest struct {
	Type           string          `json:"propertyType" form:"propertyType" validate:"required,oneof=house duplex flat House Duplex Flat"`
	ListingType    string          `json:"propertyAdType" form:"propertyAdType" validate:"required"`
	Address        string          `json:"propertyAddress" form:"propertyAddress" validate:"required"`
	OwnerContact   string          `json:"ownerContact" form:"ownerContact" validate:"required"`
	Price          decimal.Decimal `json:"propertyAmt" form:"propertyAmt"`
	AdditionalInfo string          `json:"additionalInfo" form:"additionalInfo"`
	BHKType        string          `json:"bhkType" form:"bhkType"`
}

// PropertyUpdateRequest represents the edit-property form.
type PropertyUpdateRequest struct {
	Availability   *string          `json:"isAvailable"`
	Price          *decimal.Decimal `json:"propertyAmt"`
	Address        *string          `json:"propertyAddress"`
	OwnerContact   *string          `json:"ownerContact"`
	AdditionalInfo *string          `json:"additionalInfo"`
}

// ListOwner godoc
// @Summary List the owner's properties
// @Tags owner
// @Produce json
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Router /owner/properties [get]
func (h *PropertyHandler) ListOwner(c echo.Context) error {
	properties, err := h.properties.OwnerProperties(c.Request().Context(), snapshotOf(c))
	if err != nil {
		return fail(c, err, "Failed to fetch properties")
	}
	return c.JSON(http.StatusOK, ActionResponse{Data: properties, Notifications: NoticesOf(c).Notices()})
}

// ListAvailable godoc
// @Summary List the properties a renter can request
// @Tags renter
// @Produce json
// @Success 200 {object} ActionResponse
// @Router /renter/properties [get]
func (h *PropertyHandler) ListAvailable(c echo.Context) error {
	properties, err := h.properties.Available(c.Request().Context(), snapshotOf(c).Token)
	if err != nil {
		return fail(c, err, "No properties available")
	}
	return c.JSON(http.StatusOK, ActionResponse{Data: properties, Notifications: NoticesOf(c).Notices()})
}

// Create godoc
// @Summary Add a property
// @Tags owner
// @Accept json
// @Produce json
// @Param request body PropertyRequest true "Property"
// @Success 201 {object} ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /owner/properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	var req PropertyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err, "Failed to add property")
	}

	msg, err := h.properties.Add(c.Request().Context(), snapshotOf(c), service.PropertyInput{
		Type:           req.Type,
		ListingType:    req.ListingType,
		Address:        req.Address,
		OwnerContact:   req.OwnerContact,
		Price:          req.Price,
		AdditionalInfo: req.AdditionalInfo,
		BHKType:        req.BHKType,
	})
	if err != nil {
		return fail(c, err, "Failed to add property")
	}
	return respond(c, http.StatusCreated, msg, nil, "")
}

// Update godoc
// @Summary Edit a property
// @Tags owner
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body PropertyUpdateRequest true "Changed fields"
// @Success 200 {object} ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /owner/properties/{id} [patch]
func (h *PropertyHandler) Update(c echo.Context) error {
	var req PropertyUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, apperrors.Validation("invalid request body"), "Failed to update property")
	}

	update := apiclient.PropertyUpdate{
		Price:          req.Price,
		Address:        req.Address,
		OwnerContact:   req.OwnerContact,
		AdditionalInfo: req.AdditionalInfo,
	}
	if req.Availability != nil {
		a, ok := parseAvailability(*req.Availability)
		if !ok {
			return fail(c, apperrors.Validation("Availability must be Available or Unavailable"), "Failed to update property")
		}
		update.Availability = &a
	}

	msg, err := h.properties.Update(c.Request().Context(), snapshotOf(c), c.Param("id"), update)
	if err != nil {
		return fail(c, err, "Failed to update property")
	}
	return respond(c, http.StatusOK, msg, nil, "")
}

// Delete godoc
// @Summary Delete a property
// @Tags owner
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} ActionResponse
// @Failure 401 {object} ErrorResponse
// @Router /owner/properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	msg, err := h.properties.Delete(c.Request().Context(), snapshotOf(c), c.Param("id"))
	if err != nil {
		return fail(c, err, "Failed to delete property")
	}
	return respond(c, http.StatusOK, msg, nil, "")
}

func parseAvailability(s string) (model.Availability, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(model.Available)):
		return model.Available, true
	case strings.EqualFold(s, string(model.Unavailable)):
		return model.Unavailable, true
	}
	return "", false
}
