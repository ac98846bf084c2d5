package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/notify"
)

type handler struct {
	Deps
	log *zap.Logger
}

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Notify == nil {
		d.Notify = notify.Nop{}
	}
	h := &handler{Deps: d, log: d.Log.With(zap.String("component", "api"))}

	r := gin.New()
	r.Use(gin.Recovery(), Observe(h.log), corsMiddleware(d.CORSOrigins), Authenticate(d.Tokens))
	r.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "not found"}) })

	admin := RequireRole(models.RoleAdmin)
	judge := RequireRole(models.RoleJudge, models.RoleAdmin)
	authed := RequireAuth()

	r.POST("/auth/register", h.register)
	r.POST("/auth/login", h.login)
	r.GET("/me", authed, h.me)

	p := r.Group("/products")
	p.GET("", h.listProducts)
	p.POST("", authed, h.createProduct)
	p.GET("/:id", h.getProduct)
	p.PATCH("/:id", authed, h.updateProduct)
	p.DELETE("/:id", authed, h.deleteProduct)
	p.POST("/:id/makers", authed, h.addMaker)
	p.DELETE("/:id/makers/:profileId", authed, h.removeMaker)
	p.POST("/:id/upvote", authed, h.upvote(true))
	p.DELETE("/:id/upvote", authed, h.upvote(false))
	p.POST("/:id/status", admin, h.setStatus)
	p.GET("/:id/evaluation", h.evaluation)
	p.GET("/:id/certificate.pdf", h.certificate)
	p.GET("/:id/judging.xlsx", admin, h.judgingExport)
	p.POST("/:id/judging.xlsx/telegram", admin, h.judgingExportToTelegram)

	r.GET("/criteria", h.listCriteria)
	r.POST("/criteria", admin, h.createCriteria)
	r.PATCH("/criteria/:id", admin, h.updateCriteria)
	r.DELETE("/criteria/:id", admin, h.deleteCriteria)

	j := r.Group("/judging")
	j.POST("/assignments", admin, h.assignJudge)
	j.DELETE("/assignments", admin, h.unassignJudge)
	j.PUT("/products/:id/submissions", judge, h.putSubmissions)
	j.PUT("/products/:id/notes", judge, h.putNotes)

	r.POST("/storage/:bucket", authed, h.upload)
	r.GET("/files/:bucket/:name", h.serveFile)

	a := r.Group("/admin", admin)
	a.GET("/users", h.listUsers)
	a.POST("/users", h.createUser)
	a.PATCH("/users/:id", h.updateUser)
	a.DELETE("/users/:id", h.deleteUser)
	a.POST("/users/bulk-import", h.bulkImport)
	a.POST("/users/bulk-update", h.bulkUpdate)
	a.POST("/users/:id/role", h.assignRole)
	a.POST("/storage/cleanup", h.cleanupStorage)
	a.GET("/health", h.health)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// viewer returns the caller's profile id and role; anonymous callers get "" and "".
func viewer(c *gin.Context) (string, models.Role) {
	if cl, ok := claimsOf(c); ok {
		return cl.ProfileID(), cl.Role
	}
	return "", ""
}

func attachment(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
