package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devevents-app/devevents/internal/service"
	"github.com/devevents-app/devevents/internal/transport/middleware"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

type registerRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Register books a spot on an event. Anonymous callers supply their email
// in the body; signed-in callers fall back to the identity headers.
func (h *BookingHandler) Register(c *gin.Context) {
	caller := middleware.GetIdentity(c)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		if req.Email != "" {
			caller.Email = req.Email
		}
		if req.Name != "" {
			caller.Name = req.Name
		}
	}

	booking, err := h.bookingService.Register(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	if err := h.bookingService.Cancel(c.Request.Context(), c.Param("id"), middleware.GetIdentity(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

func (h *BookingHandler) GetEventBookings(c *gin.Context) {
	bookings, err := h.bookingService.GetEventBookings(c.Request.Context(), c.Param("id"), middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	scope := service.BookingScope(c.DefaultQuery("scope", string(service.BookingScopeAll)))

	bookings, err := h.bookingService.GetUserBookings(c.Request.Context(), middleware.GetIdentity(c), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
