package web

import (
	"embed"
	"html/template"
	"strings"

	"job-tracker-backend/internal/delivery/http/middleware"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

//go:embed templates/*.html
var templateFS embed.FS

// authAttemptsPerMinute limits sign-in and sign-up posts per client IP.
const authAttemptsPerMinute = 10

type RouterDeps struct {
	API          ApplicationsAPI
	Auth         Authenticator
	Sessions     *SessionManager
	IsProduction bool
	CookieSecure bool
	// Redis backs the sign-in rate limiter when set
	Redis *goredis.Client
}

func loadTemplates() *template.Template {
	funcs := template.FuncMap{
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(loadTemplates())

	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.IsProduction))
	r.Use(middleware.ErrorHandler())
	r.Use(CSRFMiddleware(deps.CookieSecure))

	h := NewHandler(deps.API, deps.Auth, deps.Sessions)
	authLimit := middleware.NewRateLimiter(authAttemptsPerMinute, deps.Redis).WithKeyPrefix("rl:auth:").Handler()

	r.GET("/login", h.LoginPage)
	r.POST("/login", authLimit, h.Login)
	r.GET("/register", h.RegisterPage)
	r.POST("/register", authLimit, h.Register)
	r.POST("/logout", h.Logout)

	signedIn := r.Group("")
	signedIn.Use(h.requireSession)
	{
		signedIn.GET("/", h.Dashboard)
		signedIn.POST("/applications", h.CreateApplication)
		signedIn.POST("/applications/:id", h.UpdateApplication)
		signedIn.POST("/applications/:id/delete", h.DeleteApplication)
	}

	return r
}
