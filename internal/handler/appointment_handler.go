package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medicare/internal/clinic"
	"medicare/internal/middleware"
	"medicare/internal/model"
)

func (h *Handler) BookAppointment(c *gin.Context) {
	user := middleware.CurrentUser(c)

	a, err := h.svc.Book(c.Request.Context(), user,
		c.PostForm("doctor_id"),
		c.PostForm("appointment_date"),
		c.PostForm("appointment_time"),
		strings.TrimSpace(c.PostForm("reason")),
	)
	if err != nil {
		setFlash(c, "error", bookFlash(err))
		if !isClinicError(err) {
			log.Printf("book appointment: %v", err)
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	setFlash(c, "success",
		"Appointment booked successfully with Dr. "+a.DoctorName+" for "+a.Date+" at "+a.Time+"!")
	log.Printf("appointment booked: patient %s with doctor %s", a.PatientID, a.DoctorID)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	user := middleware.CurrentUser(c)

	a, err := h.svc.Cancel(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		setFlash(c, "error", cancelFlash(err, user))
		if !isClinicError(err) {
			log.Printf("cancel appointment: %v", err)
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	setFlash(c, "info", "Appointment cancelled successfully.")
	log.Printf("appointment %s cancelled by user %s", a.ID, user.ID)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	user := middleware.CurrentUser(c)

	a, err := h.svc.Complete(c.Request.Context(), user, c.Param("id"), c.PostForm("notes"))
	if err != nil {
		setFlash(c, "error", completeFlash(err))
		if !isClinicError(err) {
			log.Printf("complete appointment: %v", err)
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	setFlash(c, "success", "Appointment marked as completed.")
	log.Printf("appointment %s completed by doctor %s", a.ID, user.ID)
	c.Redirect(http.StatusFound, "/")
}

func bookFlash(err error) string {
	switch {
	case errors.Is(err, clinic.ErrPatientsOnly):
		return "Only patients can book appointments."
	case errors.Is(err, clinic.ErrMissingFields):
		return "Please fill in all appointment details."
	case errors.Is(err, clinic.ErrBadDateTime):
		return "Invalid date or time format."
	case errors.Is(err, clinic.ErrPastDate):
		return "Appointment date must be in the future."
	case errors.Is(err, clinic.ErrDoctorNotFound):
		return "Selected doctor not found."
	case errors.Is(err, clinic.ErrSlotTaken):
		return "This time slot is already booked. Please choose another time."
	}
	return "An error occurred while booking your appointment. Please try again."
}

func cancelFlash(err error, actor *model.User) string {
	switch {
	case errors.Is(err, clinic.ErrNotFound):
		return "Appointment not found."
	case errors.Is(err, clinic.ErrNotYours):
		if actor.IsDoctor() {
			return "You can only cancel appointments with your patients."
		}
		return "You can only cancel your own appointments."
	case errors.Is(err, clinic.ErrNotScheduled):
		return "This appointment is no longer scheduled."
	}
	return "An error occurred while cancelling the appointment."
}

func completeFlash(err error) string {
	switch {
	case errors.Is(err, clinic.ErrDoctorsOnly):
		return "Only doctors can mark appointments as completed."
	case errors.Is(err, clinic.ErrNotFound):
		return "Appointment not found."
	case errors.Is(err, clinic.ErrNotYours):
		return "You can only complete your own appointments."
	case errors.Is(err, clinic.ErrNotScheduled):
		return "This appointment is no longer scheduled."
	}
	return "An error occurred while updating the appointment."
}
