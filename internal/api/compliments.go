package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"compliment-bot/internal/common"
	"compliment-bot/internal/features/compliments"
)

// Compliments обслуживает маршруты /api/compliments/*.
type Compliments struct {
	service *compliments.Service
}

func NewCompliments(service *compliments.Service) Compliments {
	return Compliments{service: service}
}

// complimentJSON — форма записи в ответах API.
type complimentJSON struct {
	ID          int64     `json:"id"`
	GiverID     int64     `json:"giver_id"`
	RecipientID int64     `json:"recipient_id"`
	Message     string    `json:"message"`
	LikeCount   int       `json:"like_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func toJSON(list []*compliments.Compliment) []complimentJSON {
	out := make([]complimentJSON, 0, len(list))
	for _, c := range list {
		out = append(out, complimentJSON{
			ID:          c.ID,
			GiverID:     c.GiverID,
			RecipientID: c.RecipientID,
			Message:     c.Message,
			LikeCount:   c.LikeCount,
			CreatedAt:   c.CreatedAt,
		})
	}
	return out
}

// Recent — GET /api/compliments/recent?limit=N (свежие сверху).
func (h Compliments) Recent(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	list, err := h.service.QueryRecent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"compliments": toJSON(list)})
}

// Count — GET /api/compliments/count. Считает все записи, включая скрытые.
func (h Compliments) Count(c *gin.Context) {
	count, err := h.service.TotalCount(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Get — GET /api/compliments/:id.
func (h Compliments) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "некорректный id"})
		return
	}

	compliment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toJSON([]*compliments.Compliment{compliment})[0])
}

// parseLimit читает limit/offset из query. Пустой limit означает страницу по умолчанию.
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 || limit > compliments.MaxPageSize {
		c.JSON(http.StatusBadRequest, gin.H{"err": "limit должен быть числом от 0 до 50"})
		return 0, false
	}
	return limit, true
}

func parseOffset(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("offset", "0")
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "offset должен быть неотрицательным числом"})
		return 0, false
	}
	return offset, true
}

// writeError переводит сентинельные ошибки сервисов в HTTP-статусы.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": err.Error()})
	case errors.Is(err, common.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"err": "внутренняя ошибка"})
	}
}
