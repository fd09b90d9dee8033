package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/joshua-takyi/evently/internal/helpers"
	"github.com/joshua-takyi/evently/internal/models"
	"github.com/joshua-takyi/evently/internal/services"
)

// EventForm lists the multipart fields an event submission may carry. Tags
// and agenda arrive as JSON text.
type EventForm struct {
	Title       string `form:"title"`
	Slug        string `form:"slug"`
	Description string `form:"description"`
	Overview    string `form:"overview"`
	Venue       string `form:"venue"`
	Location    string `form:"location"`
	Date        string `form:"date"`
	Time        string `form:"time"`
	Mode        string `form:"mode"`
	Audience    string `form:"audience"`
	Organizer   string `form:"organizer"`
	Tags        string `form:"tags"`
	Agenda      string `form:"agenda"`
}

func CreateEvent(e *services.EventService, maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxUploadBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
		}

		var form EventForm
		if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, models.MessageResponse("Request body too large"))
				return
			}
			c.JSON(http.StatusBadRequest, models.MessageResponse("Invalid form data"))
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.MessageResponse("Image file is required"))
			return
		}

		tags, err := helpers.ParseTags(form.Tags)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.MessageResponse("Invalid tags format"))
			return
		}
		agenda, err := helpers.ParseAgenda(form.Agenda)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.MessageResponse("Invalid agenda format"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.MessageResponse("Image file could not be read"))
			return
		}
		defer file.Close()

		creator, role := bearerIdentity(c)
		created, err := e.CreateEvent(c.Request.Context(), services.NewEventInput{
			Title:       form.Title,
			Slug:        form.Slug,
			Description: form.Description,
			Overview:    form.Overview,
			Venue:       form.Venue,
			Location:    form.Location,
			Date:        form.Date,
			Time:        form.Time,
			Mode:        form.Mode,
			Audience:    form.Audience,
			Organizer:   form.Organizer,
			Tags:        tags,
			Agenda:      agenda,
			Creator:     creator,
			CreatorRole: role,
		}, file, fileHeader.Filename)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidEvent):
				c.JSON(http.StatusBadRequest, models.MessageResponse("Invalid event data"))
			case errors.Is(err, services.ErrImageUpload):
				c.JSON(http.StatusInternalServerError, models.ErrorResponse("Image upload failed", err.Error()))
			case errors.Is(err, models.ErrDuplicateSlug):
				c.JSON(http.StatusConflict, models.MessageResponse("An event with this slug already exists"))
			default:
				c.JSON(http.StatusInternalServerError, models.ErrorResponse("Event Creation Failed", err.Error()))
			}
			return
		}

		c.JSON(http.StatusCreated, models.EventResponse(created, "Event Created Successfully"))
	}
}

// bearerIdentity reads the claims RequireBearer stored, if any.
func bearerIdentity(c *gin.Context) (subject, role string) {
	value, ok := c.Get("user")
	if !ok {
		return "", ""
	}
	claims, ok := value.(*helpers.CustomClaims)
	if !ok || claims == nil {
		return "", ""
	}
	return claims.Subject, claims.GetSafeRole()
}

func ListEvents(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := e.ListEvents(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("Failed to fetch events", err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.EventsResponse(events, "Events fetched successfully"))
	}
}

func GetEventBySlug(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := e.GetEventBySlug(c.Request.Context(), c.Param("slug"))
		if errors.Is(err, models.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, models.MessageResponse("Event not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("Failed to fetch event", err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.EventResponse(event, "Event fetched successfully"))
	}
}

func ListSimilarEvents(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := e.FindSimilarEvents(c.Request.Context(), c.Param("slug"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("Failed to fetch similar events", err.Error()))
			return
		}
		if res.Status == models.SimilarReferenceNotFound {
			c.JSON(http.StatusNotFound, models.MessageResponse("Event not found"))
			return
		}
		c.JSON(http.StatusOK, models.SimilarResponse(res, "Similar events fetched successfully"))
	}
}
