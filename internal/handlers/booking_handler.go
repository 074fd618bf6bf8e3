package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/listenline/session-booking/internal/httperr"
	"github.com/listenline/session-booking/internal/httpresp"
	ucBooking "github.com/listenline/session-booking/internal/usecase/booking"
)

type BookingHandler struct {
	create   *ucBooking.CreateBooking
	cancel   *ucBooking.CancelBooking
	complete *ucBooking.CompleteBooking
	listUser *ucBooking.ListUserBookings
}

func NewBookingHandler(
	create *ucBooking.CreateBooking,
	cancel *ucBooking.CancelBooking,
	complete *ucBooking.CompleteBooking,
	listUser *ucBooking.ListUserBookings,
) *BookingHandler {
	return &BookingHandler{
		create:   create,
		cancel:   cancel,
		complete: complete,
		listUser: listUser,
	}
}

type CreateBookingRequest struct {
	UserID string `json:"user_id" binding:"required"`
	SlotID string `json:"slot_id" binding:"required"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "invalid request body")
		return
	}

	out, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		UserID: req.UserID,
		SlotID: req.SlotID,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.Created(c, out)
}

func (h *BookingHandler) ListByUser(c *gin.Context) {
	bookings, err := h.listUser.Execute(c.Request.Context(), c.Param("userId"))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.List(c, bookings)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	b, err := h.cancel.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	b, err := h.complete.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, b)
}
