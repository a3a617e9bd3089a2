package router

import (
	"net/http"

	"github.com/goncalo-araujo/babyshower/internal/assistant"
	"github.com/goncalo-araujo/babyshower/internal/config"
	"github.com/goncalo-araujo/babyshower/internal/guard"
	"github.com/goncalo-araujo/babyshower/internal/handler"
	"github.com/goncalo-araujo/babyshower/internal/ledger"
	"github.com/goncalo-araujo/babyshower/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setup wires the Gin engine: middleware chain plus the full route table.
func Setup(cfg *config.Config, db *gorm.DB, log *zap.Logger, gen assistant.Generator) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(), middleware.RequestLogger(log))

	l := ledger.New(db)
	g := guard.New(db, cfg.Auth, cfg.RateLimit)
	pipeline := assistant.NewPipeline(gen, cfg.Assistant, log)

	itemHandler := handler.NewItemHandler(l)
	contributionHandler := handler.NewContributionHandler(l)
	chatHandler := handler.NewChatHandler(l, pipeline, g)
	authHandler := handler.NewAuthHandler(g)

	adminOnly := middleware.RequireAdmin(g)
	guestOrAdmin := middleware.RequireGuestOrAdmin(g)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/items", itemHandler.List)
	r.POST("/items", adminOnly, itemHandler.Create)
	r.PUT("/items/:id", adminOnly, itemHandler.Update)
	r.DELETE("/items/:id", adminOnly, itemHandler.Delete)

	r.GET("/contributions", adminOnly, contributionHandler.List)
	r.GET("/contributions/export", adminOnly, contributionHandler.Export)
	r.POST("/contributions", guestOrAdmin, contributionHandler.Create)
	r.DELETE("/contributions/:id", adminOnly, contributionHandler.Delete)

	r.GET("/my-contributions", guestOrAdmin, contributionHandler.ListMine)
	r.DELETE("/my-contributions/:id", guestOrAdmin, contributionHandler.DeleteMine)

	r.POST("/chat", guestOrAdmin, chatHandler.Chat)

	r.POST("/admin/auth", authHandler.Login(guard.RoleAdmin))
	r.POST("/guest/auth", authHandler.Login(guard.RoleGuest))

	return r
}
