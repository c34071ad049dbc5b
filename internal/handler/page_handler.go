package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medicare/internal/middleware"
	"medicare/internal/model"
)

// Index renders the landing page: auth forms for anonymous visitors, the
// role-specific dashboard for logged-in users.
func (h *Handler) Index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK)
}

// Fallback re-renders the landing page for unknown routes.
func (h *Handler) Fallback(c *gin.Context) {
	h.renderIndex(c, http.StatusNotFound)
}

func (h *Handler) renderIndex(c *gin.Context, code int) {
	data := gin.H{
		"CurrentUser": middleware.CurrentUser(c),
		"Flash":       popFlash(c),
		"Today":       time.Now().Format(model.DateFormat),
	}

	user := middleware.CurrentUser(c)
	if user != nil {
		switch user.Role {
		case model.RolePatient:
			appts, doctors, err := h.svc.PatientDashboard(c.Request.Context(), user.ID)
			if err != nil {
				log.Printf("patient dashboard: %v", err)
				code = http.StatusInternalServerError
			}
			data["PatientAppointments"] = appts
			data["Doctors"] = doctors
		case model.RoleDoctor:
			appts, sched, err := h.svc.DoctorDashboard(c.Request.Context(), user.ID)
			if err != nil {
				log.Printf("doctor dashboard: %v", err)
				code = http.StatusInternalServerError
			}
			data["DoctorAppointments"] = appts
			data["Schedule"] = sched
		}
	}

	c.HTML(code, "index.html", data)
}

// DebugDB is the connectivity probe the original app shipped with.
func (h *Handler) DebugDB(c *gin.Context) {
	n, err := h.svc.CountUsers(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Database error: %v", err)
		return
	}
	c.String(http.StatusOK, "Database connected! Tables created. User count: %d", n)
}
