package layers

import (
	"errors"

	"geosync/core/logger"
	"geosync/feature/layers/models"
	"geosync/feature/layers/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for layers.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the layers routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/layers")
	group.Get("/", h.HandleList)
	group.Post("/sync", h.HandleSync)
	group.Delete("/:name", h.HandleDelete)
	group.Post("/:name/styles/fixup", h.HandleFixupStyles)
	group.Get("/:name/extent", h.HandleGridExtent)
	app.Get("/stores", h.HandleStores)
}

// SyncRequest is the JSON body of a sync run.
type SyncRequest struct {
	IgnoreErrors     bool   `json:"ignore_errors"`
	Owner            string `json:"owner"`
	Workspace        string `json:"workspace"`
	Store            string `json:"store"`
	Filter           string `json:"filter"`
	SkipUnadvertised bool   `json:"skip_unadvertised"`
	RemoveDeleted    bool   `json:"remove_deleted"`
}

// FixupRequest is the JSON body of a style fixup.
type FixupRequest struct {
	// SLD is an optional uploaded styling document; when empty a document
	// is generated.
	SLD string `json:"sld"`
}

// HandleList lists the local layer records.
// @Summary List layers
// @Description List the local layer records, optionally scoped to a workspace and/or store.
// @Tags layers
// @Produce json
// @Param workspace query string false "Workspace scope"
// @Param store query string false "Store scope"
// @Success 200 {array} models.Layer "Layers"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /layers [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	records, err := h.service.Layers(c.Context(), c.Query("workspace"), c.Query("store"))
	if err != nil {
		l.Error("Layer listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(records)
}

// HandleSync runs a catalog reconciliation pass.
// @Summary Synchronize layers
// @Description Reconcile the external catalog's resources against the local layer records.
// @Tags layers
// @Accept json
// @Produce json
// @Param request body SyncRequest true "Sync options"
// @Success 200 {object} sync.Outcome "Sync report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /layers/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	outcome, err := h.service.Sync(c.Context(), sync.Options{
		IgnoreErrors:     req.IgnoreErrors,
		Owner:            req.Owner,
		Workspace:        req.Workspace,
		Store:            req.Store,
		Filter:           req.Filter,
		SkipUnadvertised: req.SkipUnadvertised,
		RemoveDeleted:    req.RemoveDeleted,
	})
	if err != nil {
		l.Error("Layer sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(outcome)
}

// HandleDelete removes a layer record, cascading into the external catalog.
// @Summary Delete a layer
// @Description Delete a layer record; unless local_only is set the deletion cascades into the external catalog.
// @Tags layers
// @Produce json
// @Param name path string true "Layer name"
// @Param local_only query bool false "Skip external catalog cleanup"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /layers/{name} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	name := c.Params("name")
	localOnly := c.QueryBool("local_only")
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Delete(c.Context(), name, localOnly); err != nil {
		if errors.Is(err, models.ErrLayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "layer not found",
			})
		}
		l.Error("Layer deletion failed", zap.String("layer", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleFixupStyles regenerates a layer's default symbology.
// @Summary Fix up layer styles
// @Description Replace a generic default style with generated symbology and mirror the style records.
// @Tags layers
// @Accept json
// @Produce json
// @Param name path string true "Layer name"
// @Param request body FixupRequest false "Optional uploaded styling document"
// @Success 204 "Updated"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /layers/{name}/styles/fixup [post]
func (h *Handler) HandleFixupStyles(c *fiber.Ctx) error {
	name := c.Params("name")
	l := logger.WithRayID(h.service.logger, c)

	var req FixupRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	if err := h.service.FixupStyles(c.Context(), name, req.SLD); err != nil {
		if errors.Is(err, models.ErrLayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "layer not found",
			})
		}
		l.Error("Style fixup failed", zap.String("layer", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGridExtent returns a raster layer's grid dimensions.
// @Summary Get raster grid extent
// @Description Get the pixel dimensions of a raster layer's grid.
// @Tags layers
// @Produce json
// @Param name path string true "Layer name"
// @Success 200 {object} map[string][]int "Grid extent"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /layers/{name}/extent [get]
func (h *Handler) HandleGridExtent(c *fiber.Ctx) error {
	name := c.Params("name")
	l := logger.WithRayID(h.service.logger, c)

	extent, err := h.service.GridExtent(c.Context(), name)
	if err != nil {
		if errors.Is(err, models.ErrLayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "layer not found",
			})
		}
		l.Error("Grid extent lookup failed", zap.String("layer", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"extent": extent})
}

// HandleStores lists the catalog's stores.
// @Summary List stores
// @Description List the stores registered in the external catalog, optionally filtered by kind.
// @Tags stores
// @Produce json
// @Param type query string false "Store kind (datastore or coveragestore)"
// @Success 200 {array} StoreInfo "Stores"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /stores [get]
func (h *Handler) HandleStores(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	stores, err := h.service.Stores(c.Context(), c.Query("type"))
	if err != nil {
		l.Error("Store listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(stores)
}
