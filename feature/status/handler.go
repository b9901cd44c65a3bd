package status

import (
	"time"

	"anime-sync/feature/anime/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync status.
type Handler struct {
	syncer *sync.Syncer
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(syncer *sync.Syncer, logger *zap.Logger) *Handler {
	return &Handler{syncer: syncer, logger: logger}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/healthz", h.HandleHealth)
	app.Get("/status", h.HandleStatus)
}

// HandleHealth is the liveness probe.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

type statusResponse struct {
	Running    bool          `json:"running"`
	Checkpoint *time.Time    `json:"checkpoint"`
	LastPass   *sync.Metrics `json:"last_pass"`
}

// HandleStatus reports the sync engine state: whether a pass is running,
// the persisted checkpoint, and the counters of the last completed pass.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(statusResponse{
		Running:    h.syncer.Running(),
		Checkpoint: h.syncer.Checkpoint(),
		LastPass:   h.syncer.LastMetrics(),
	})
}
