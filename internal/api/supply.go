package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"compliment-bot/internal/features/supply"
)

// Supply обслуживает маршрут /api/supply.
type Supply struct {
	service *supply.Service
}

func NewSupply(service *supply.Service) Supply {
	return Supply{service: service}
}

// Supply — GET /api/supply: суммарный выпуск и потолок.
func (h Supply) Supply(c *gin.Context) {
	s, err := h.service.GetTotalIssued(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_issued": s.TotalIssued,
		"max_supply":   s.MaxSupply,
		"remaining":    s.MaxSupply - s.TotalIssued,
	})
}
