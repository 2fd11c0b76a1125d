package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/avoronkov/portfolio-backend/internal/config"
	"github.com/avoronkov/portfolio-backend/internal/transport/middleware"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

// RouterDeps bundles everything the HTTP router needs.
type RouterDeps struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	Site       *SiteHandler
	Admin      *AdminHandler
	Validator  tokenValidator
	LoginLimit *middleware.RateLimiter
	CORS       config.CORSConfig
	Log        *slog.Logger
}

// NewRouter wires all routes with the shared middleware stack. Admin
// routes additionally require a valid bearer token.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", deps.Health.Health)
	mux.HandleFunc("GET /health/live", deps.Health.Live)
	mux.HandleFunc("GET /health/ready", deps.Health.Ready)

	login := http.Handler(http.HandlerFunc(deps.Auth.Login))
	if deps.LoginLimit != nil {
		login = deps.LoginLimit.Limit()(login)
	}
	mux.Handle("POST /api/auth/login", login)

	mux.HandleFunc("GET /api/site/profile", deps.Site.GetProfile)
	mux.HandleFunc("GET /api/site/skills", deps.Site.GetSkills)
	mux.HandleFunc("GET /api/site/{collection}", deps.Site.GetCollection)

	admin := http.NewServeMux()
	admin.HandleFunc("GET /api/admin/collections/{collection}", deps.Admin.GetCollection)
	admin.HandleFunc("POST /api/admin/collections/{collection}", deps.Admin.SubmitRecord)
	admin.HandleFunc("POST /api/admin/collections/{collection}/edit/{id}", deps.Admin.BeginEdit)
	admin.HandleFunc("POST /api/admin/collections/{collection}/cancel", deps.Admin.CancelEdit)
	admin.HandleFunc("DELETE /api/admin/collections/{collection}/{id}", deps.Admin.DeleteRecord)
	admin.HandleFunc("POST /api/admin/collections/{collection}/move", deps.Admin.MoveRecord)
	admin.HandleFunc("GET /api/admin/profile", deps.Admin.GetProfile)
	admin.HandleFunc("PUT /api/admin/profile", deps.Admin.SaveProfile)
	admin.HandleFunc("GET /api/admin/skills", deps.Admin.GetSkills)
	admin.HandleFunc("POST /api/admin/skills/toggle", deps.Admin.ToggleSkill)
	admin.HandleFunc("POST /api/admin/assets/{namespace}", deps.Admin.UploadAsset)
	mux.Handle("/api/admin/", middleware.Admin(deps.Validator)(admin))

	return middleware.Chain(
		middleware.Recovery(deps.Log),
		middleware.RequestID,
		middleware.Logger(deps.Log),
		middleware.CORS(deps.CORS),
	)(mux)
}
