package handlers

import (
	"github.com/gin-gonic/gin"

	slotdomain "github.com/listenline/session-booking/internal/domain/slot"
	"github.com/listenline/session-booking/internal/httperr"
	"github.com/listenline/session-booking/internal/httpresp"
	ucSlot "github.com/listenline/session-booking/internal/usecase/slot"
)

// ======================================================
// HANDLER
// ======================================================

type SlotHandler struct {
	create     *ucSlot.CreateSlot
	bulkCreate *ucSlot.BulkCreateSlots
	list       *ucSlot.ListAvailableSlots
	get        *ucSlot.GetSlot
	transition *ucSlot.TransitionStatus
	del        *ucSlot.DeleteSlot
	delAll     *ucSlot.DeleteAllSlots
}

func NewSlotHandler(
	create *ucSlot.CreateSlot,
	bulkCreate *ucSlot.BulkCreateSlots,
	list *ucSlot.ListAvailableSlots,
	get *ucSlot.GetSlot,
	transition *ucSlot.TransitionStatus,
	del *ucSlot.DeleteSlot,
	delAll *ucSlot.DeleteAllSlots,
) *SlotHandler {
	return &SlotHandler{
		create:     create,
		bulkCreate: bulkCreate,
		list:       list,
		get:        get,
		transition: transition,
		del:        del,
		delAll:     delAll,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateSlotRequest struct {
	Date       string  `json:"date" binding:"required"`
	StartTime  string  `json:"start_time" binding:"required"`
	EndTime    string  `json:"end_time" binding:"required"`
	ListenerID *string `json:"listener_id"`
	Price      int     `json:"price"`
}

type BulkCreateSlotsRequest struct {
	Slots []CreateSlotRequest `json:"slots" binding:"required"`
}

func (r CreateSlotRequest) toInput() ucSlot.CreateSlotInput {
	return ucSlot.CreateSlotInput{
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		ListenerID: r.ListenerID,
		Price:      r.Price,
	}
}

// ======================================================
// PUBLIC
// ======================================================

func (h *SlotHandler) ListAvailable(c *gin.Context) {
	in := ucSlot.ListAvailableInput{
		Page:     atoiDefault(c.Query("page"), 1),
		Limit:    atoiDefault(c.Query("limit"), ucSlot.DefaultPageLimit),
		FromDate: c.Query("from"),
	}

	page, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.Page(c, page.Slots, httpresp.Pagination{
		Page:    in.Page,
		Limit:   in.Limit,
		Total:   page.Total,
		HasMore: page.HasMore,
	})
}

func (h *SlotHandler) Get(c *gin.Context) {
	s, err := h.get.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, s)
}

// ======================================================
// ADMIN
// ======================================================

func (h *SlotHandler) Create(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "invalid request body")
		return
	}

	s, err := h.create.Execute(c.Request.Context(), req.toInput())
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.Created(c, s)
}

func (h *SlotHandler) BulkCreate(c *gin.Context) {
	var req BulkCreateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "invalid request body")
		return
	}

	inputs := make([]ucSlot.CreateSlotInput, 0, len(req.Slots))
	for _, r := range req.Slots {
		inputs = append(inputs, r.toInput())
	}

	slots, err := h.bulkCreate.Execute(c.Request.Context(), inputs)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	c.JSON(201, gin.H{"data": slots, "total": len(slots)})
}

func (h *SlotHandler) Complete(c *gin.Context) {
	s, err := h.transition.Execute(c.Request.Context(), c.Param("id"), slotdomain.StatusCompleted)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, s)
}

func (h *SlotHandler) Cancel(c *gin.Context) {
	s, err := h.transition.Execute(c.Request.Context(), c.Param("id"), slotdomain.StatusCancelled)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, s)
}

func (h *SlotHandler) Delete(c *gin.Context) {
	if err := h.del.Execute(c.Request.Context(), c.Param("id")); err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"status": "deleted"})
}

func (h *SlotHandler) DeleteAll(c *gin.Context) {
	count, err := h.delAll.Execute(c.Request.Context())
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"count": count})
}
