package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/spa-scheduler/internal/dto"
	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/spa-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/spa-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create   *ucAppointment.CreateAppointment
	update   *ucAppointment.UpdateAppointment
	status   *ucAppointment.UpdateAppointmentStatus
	pay      *ucAppointment.ConfirmPayment
	remove   *ucAppointment.DeleteAppointment
	get      *ucAppointment.GetAppointment
	list     *ucAppointment.ListAppointments
	calendar *ucAppointment.ListCalendar
}

type AppointmentUseCases struct {
	Create   *ucAppointment.CreateAppointment
	Update   *ucAppointment.UpdateAppointment
	Status   *ucAppointment.UpdateAppointmentStatus
	Pay      *ucAppointment.ConfirmPayment
	Delete   *ucAppointment.DeleteAppointment
	Get      *ucAppointment.GetAppointment
	List     *ucAppointment.ListAppointments
	Calendar *ucAppointment.ListCalendar
}

func NewAppointmentHandler(uc AppointmentUseCases) *AppointmentHandler {
	return &AppointmentHandler{
		create:   uc.Create,
		update:   uc.Update,
		status:   uc.Status,
		pay:      uc.Pay,
		remove:   uc.Delete,
		get:      uc.Get,
		list:     uc.List,
		calendar: uc.Calendar,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Client    string `json:"client"`
	Service   string `json:"service"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Notes     string `json:"notes"`
}

// UpdateAppointmentRequest fields are optional; absent ones are not touched.
type UpdateAppointmentRequest struct {
	Client    *string `json:"client"`
	Service   *string `json:"service"`
	Date      *string `json:"date"`
	StartTime *string `json:"startTime"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	out, err := h.list.Execute(c.Request.Context(), ucAppointment.ListAppointmentsInput{
		Status: c.Query("status"),
		Date:   c.Query("date"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// CALENDAR
// ======================================================

func (h *AppointmentHandler) Calendar(c *gin.Context) {
	events, err := h.calendar.Execute(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// ======================================================
// GET
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentDTO(ap))
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Actor:     middleware.ActorFrom(c),
		ClientID:  req.Client,
		ServiceID: req.Service,
		Date:      req.Date,
		StartTime: req.StartTime,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAppointmentDTO(ap))
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		Actor:     middleware.ActorFrom(c),
		ID:        id,
		ClientID:  req.Client,
		ServiceID: req.Service,
		Date:      req.Date,
		StartTime: req.StartTime,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentDTO(ap))
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentDTO(ap))
}

// ======================================================
// PAYMENT
// ======================================================

func (h *AppointmentHandler) ConfirmPayment(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.pay.Execute(c.Request.Context(), middleware.ActorFrom(c), id, req.PaymentMethod)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentDTO(ap))
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "appointment deleted"})
}

// ======================================================
// HELPERS
// ======================================================

// appointmentID writes a 404 and returns false when :id is not a uuid, since
// no appointment can carry such an id.
func appointmentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.NotFound(c, "appointment_not_found", "appointment not found")
		return uuid.Nil, false
	}
	return id, true
}
