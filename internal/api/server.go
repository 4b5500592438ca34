// Package api — read-only HTTP API поверх тех же сервисов, что и бот.
// Ничего не пишет: только выдача комплиментов, статистики и эмиссии.
package api

import (
	"github.com/gin-gonic/gin"

	"compliment-bot/internal/config"
	"compliment-bot/internal/features/compliments"
	"compliment-bot/internal/features/supply"
	"compliment-bot/internal/features/users"
)

// New собирает gin-роутер со всеми маршрутами.
func New(cfg *config.Config, usersSvc *users.Service, complimentsSvc *compliments.Service, supplySvc *supply.Service) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, usersSvc, complimentsSvc, supplySvc)
	return g
}

func attachRoutes(g *gin.Engine, usersSvc *users.Service, complimentsSvc *compliments.Service, supplySvc *supply.Service) {
	c := NewCompliments(complimentsSvc)
	u := NewUsers(usersSvc, complimentsSvc, supplySvc)
	s := NewSupply(supplySvc)

	apiGroup := g.Group("/api")
	{
		apiGroup.GET("/compliments/recent", c.Recent)
		apiGroup.GET("/compliments/count", c.Count)
		apiGroup.GET("/compliments/:id", c.Get)
		apiGroup.GET("/users/:id/stats", u.Stats)
		apiGroup.GET("/users/:id/given", u.Given)
		apiGroup.GET("/users/:id/received", u.Received)
		apiGroup.GET("/supply", s.Supply)
	}
}
