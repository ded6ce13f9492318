package handlers

import (
	"fmt"
	"net/http"

	"spacify/internal/domain"
	"spacify/internal/http/middleware"
	"spacify/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) bookingService(c *gin.Context) services.BookingService {
	svc := h.Bookings
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func caller(c *gin.Context) (domain.RequestContext, bool) {
	rc, found := middleware.AuthUser(c)
	if !found || rc.Email == "" {
		respondError(c, http.StatusUnauthorized, "auth_rejected", "Invalid token", nil)
		return domain.RequestContext{}, false
	}
	return rc, true
}

// GET /api/bookings
func (h *Handler) ListBookings(c *gin.Context) {
	rc, found := caller(c)
	if !found {
		return
	}
	list, err := h.bookingService(c).List(rc.Email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

// POST /api/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	rc, found := caller(c)
	if !found {
		return
	}
	var req services.CreateBookingInput
	if !BindJSONOrError(c, &req) {
		return
	}
	rec, created, err := h.bookingService(c).Create(c.Request.Context(), rc.Email, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	ok(c, status, gin.H{"message": "Booking confirmed", "booking": rec})
}

// GET /api/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	rc, found := caller(c)
	if !found {
		return
	}
	rec, err := h.bookingService(c).Get(rc.Email, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"booking": rec})
}

// DELETE /api/bookings/:id
func (h *Handler) CancelBooking(c *gin.Context) {
	rc, found := caller(c)
	if !found {
		return
	}
	rec, err := h.bookingService(c).Cancel(c.Request.Context(), rc.Email, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Booking cancelled", "booking": rec})
}

// GET /api/bookings/:id/ticket
func (h *Handler) BookingTicket(c *gin.Context) {
	rc, found := caller(c)
	if !found {
		return
	}
	rec, err := h.bookingService(c).Get(rc.Email, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	spot, err := h.Spots.Get(rec.SpotID)
	if err != nil && !domain.IsNotFound(err) {
		RespondDomainError(c, err)
		return
	}
	docs := h.Docs
	docs.RequestID = middleware.GetRequestID(c)
	pdf, filename, err := docs.GenerateETicket(rec, spot)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
