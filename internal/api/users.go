package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"compliment-bot/internal/features/compliments"
	"compliment-bot/internal/features/supply"
	"compliment-bot/internal/features/users"
)

// Users обслуживает маршруты /api/users/*.
type Users struct {
	users       *users.Service
	compliments *compliments.Service
	supply      *supply.Service
}

func NewUsers(usersSvc *users.Service, complimentsSvc *compliments.Service, supplySvc *supply.Service) Users {
	return Users{users: usersSvc, compliments: complimentsSvc, supply: supplySvc}
}

// Stats — GET /api/users/:id/stats.
func (h Users) Stats(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetStats(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	balance, err := h.supply.GetBalance(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":        user.UserID,
		"username":       user.Username,
		"given_count":    user.GivenCount,
		"received_count": user.ReceivedCount,
		"reputation":     user.Reputation,
		"balance":        balance,
		"is_moderator":   user.IsModerator,
	})
}

// Given — GET /api/users/:id/given?offset=&limit= (по возрастанию id).
func (h Users) Given(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	offset, ok := parseOffset(c)
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	list, err := h.compliments.QueryByGiver(c.Request.Context(), userID, offset, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"compliments": toJSON(list)})
}

// Received — GET /api/users/:id/received?offset=&limit= (по возрастанию id).
func (h Users) Received(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	offset, ok := parseOffset(c)
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	list, err := h.compliments.QueryByRecipient(c.Request.Context(), userID, offset, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"compliments": toJSON(list)})
}

func parseUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "некорректный id пользователя"})
		return 0, false
	}
	return userID, true
}
