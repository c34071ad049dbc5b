package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medicare/internal/auth"
	"medicare/internal/clinic"
	"medicare/internal/middleware"
	"medicare/internal/model"
)

func (h *Handler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	role := c.DefaultPostForm("userType", model.RolePatient)

	if email == "" || password == "" {
		setFlash(c, "error", "Please enter both email and password.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	u, err := h.svc.Authenticate(c.Request.Context(), email, password, role)
	if errors.Is(err, clinic.ErrBadCredentials) {
		setFlash(c, "error", "Invalid email or password.")
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err != nil {
		log.Printf("login: %v", err)
		setFlash(c, "error", "Something went wrong. Please try again.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	h.startSession(c, u)
	setFlash(c, "success", "Welcome back, "+u.Name+"!")
	log.Printf("user %s logged in", email)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Signup(c *gin.Context) {
	in := clinic.RegisterInput{
		Name:            strings.TrimSpace(c.PostForm("name")),
		Email:           strings.TrimSpace(c.PostForm("email")),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirm_password"),
		Role:            c.DefaultPostForm("signupUserType", model.RolePatient),
		Specialization:  strings.TrimSpace(c.PostForm("specialization")),
		LicenseNumber:   strings.TrimSpace(c.PostForm("licenseNumber")),
	}

	u, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		setFlash(c, "error", signupFlash(err))
		if !isClinicError(err) {
			log.Printf("signup: %v", err)
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	// auto login after signup
	h.startSession(c, u)
	setFlash(c, "success", "Account created successfully! Welcome to MediCare, "+u.Name+"!")
	log.Printf("new user %s as %s", u.Email, u.Role)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	setFlash(c, "info", "You have been logged out successfully.")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) startSession(c *gin.Context, u *model.User) {
	tok, err := auth.MakeSessionToken(u.ID, u.Role, h.secret)
	if err != nil {
		log.Printf("session token: %v", err)
		return
	}
	c.SetCookie(middleware.SessionCookie, tok, int(auth.SessionTTL.Seconds()), "/", "", false, true)
}

func signupFlash(err error) string {
	switch {
	case errors.Is(err, clinic.ErrMissingFields):
		return "Please fill in all required fields."
	case errors.Is(err, clinic.ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, clinic.ErrPasswordTooShort):
		return "Password must be at least 6 characters long."
	case errors.Is(err, clinic.ErrEmailTaken):
		return "An account with this email already exists."
	case errors.Is(err, clinic.ErrInvalidRole):
		return "Please select a valid account type."
	case errors.Is(err, clinic.ErrDoctorFieldsRequired):
		return "Specialization and license number are required for doctors."
	}
	return "An error occurred while creating your account. Please try again."
}

// isClinicError reports whether err is one of the ledger's typed
// failures, as opposed to an infrastructure error worth logging.
func isClinicError(err error) bool {
	for _, e := range []error{
		clinic.ErrBadCredentials,
		clinic.ErrMissingFields, clinic.ErrPasswordMismatch, clinic.ErrPasswordTooShort,
		clinic.ErrEmailTaken, clinic.ErrInvalidRole, clinic.ErrDoctorFieldsRequired,
		clinic.ErrPatientsOnly, clinic.ErrDoctorsOnly, clinic.ErrBadDateTime,
		clinic.ErrPastDate, clinic.ErrDoctorNotFound, clinic.ErrSlotTaken,
		clinic.ErrNotFound, clinic.ErrNotYours, clinic.ErrNotScheduled,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
