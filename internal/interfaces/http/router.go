package http

import (
	"github.com/gofiber/fiber/v2"

	apprebalance "github.com/jhoicas/Rateio-api/internal/application/rebalance"
	"github.com/jhoicas/Rateio-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Rebalance *apprebalance.RebalanceUseCase
	JWTSecret string // vacío = API sin autenticación (solo desarrollo)
	JWTIssuer string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	h := NewRebalanceHandler(deps.Rebalance)

	// El modelo (xlsx o CSV) es público: no expone datos.
	app.Get("/api/rebalance/template", h.Template)

	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(
			AuthMiddleware(deps.JWTSecret, deps.JWTIssuer),
			RequireRole(jwt.RoleAdmin, jwt.RoleBuyer, jwt.RoleAnalyst),
		)
	}

	rebalance := api.Group("/rebalance")
	rebalance.Post("/", h.Run)
	rebalance.Post("/upload", h.Upload)
	rebalance.Post("/stores", h.UploadStores)
	rebalance.Post("/report", h.Report)

	snapshots := api.Group("/snapshots")
	snapshots.Get("/", h.ListSnapshots)
	snapshots.Get("/:id/stores", h.SnapshotStores)
	snapshots.Post("/:id/rebalance", h.RunSnapshot)
}
