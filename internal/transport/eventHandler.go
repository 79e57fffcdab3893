package transport

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devevents-app/devevents/internal/entity"
	"github.com/devevents-app/devevents/internal/service"
	"github.com/devevents-app/devevents/internal/transport/middleware"
	"github.com/devevents-app/devevents/pkg/media"
)

type EventHandler struct {
	eventService service.EventService
	uploader     media.Uploader
}

func NewEventHandler(eventService service.EventService, uploader media.Uploader) *EventHandler {
	return &EventHandler{eventService: eventService, uploader: uploader}
}

// CreateEvent accepts either a JSON body or a multipart form. The multipart
// path additionally takes an image file which is stored through the media
// uploader before the event is created.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := h.bindMultipart(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), middleware.GetIdentity(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) bindMultipart(c *gin.Context, req *service.CreateEventRequest) error {
	req.Title = c.PostForm("title")
	req.Description = c.PostForm("description")
	req.Overview = c.PostForm("overview")
	req.Venue = c.PostForm("venue")
	req.Location = c.PostForm("location")
	req.Date = c.PostForm("date")
	req.Time = c.PostForm("time")
	req.Mode = c.PostForm("mode")
	req.Audience = c.PostForm("audience")
	req.Organizer = c.PostForm("organizer")
	req.Agenda = c.PostFormArray("agenda")
	req.Tags = c.PostFormArray("tags")

	header, err := c.FormFile("image")
	if err == http.ErrMissingFile {
		// Required-field validation in the service rejects the event
		// when no image URL ends up set.
		return nil
	}
	if err != nil {
		return err
	}
	if h.uploader == nil {
		return fmt.Errorf("image uploads are not available")
	}

	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		return err
	}
	req.Image = url
	return nil
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) GetAllEvents(c *gin.Context) {
	var filter entity.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.eventService.List(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EventHandler) GetRegistrationCount(c *gin.Context) {
	count, err := h.eventService.GetRegistrationCount(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrations": count})
}

func (h *EventHandler) GetSimilarEvents(c *gin.Context) {
	events, err := h.eventService.GetSimilar(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), middleware.GetIdentity(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventService.Delete(c.Request.Context(), middleware.GetIdentity(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}
