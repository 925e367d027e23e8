package sync

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"geosync/core/geoserver"
	"geosync/feature/layers/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Per-layer outcome statuses.
const (
	StatusCreated       = "created"
	StatusUpdated       = "updated"
	StatusFailed        = "failed"
	StatusDeleteSuccess = "delete_succeeded"
	StatusDeleteFailed  = "delete_failed"
)

// Options steers one reconciliation run.
type Options struct {
	// IgnoreErrors keeps the run going when one resource fails to process.
	IgnoreErrors bool
	// Verbosity controls progress output on Console (0 silent, 1 per-layer,
	// 2 chatty).
	Verbosity int
	// Console receives progress output; nil discards it.
	Console io.Writer
	// Owner is recorded on newly created layer records.
	Owner string
	// Workspace restricts the run to one catalog workspace.
	Workspace string
	// Store restricts the run to one catalog store.
	Store string
	// Filter keeps only resources whose name contains this substring.
	Filter string
	// SkipUnadvertised excludes resources explicitly marked not-advertised.
	SkipUnadvertised bool
	// RemoveDeleted removes local records whose upstream resource is gone.
	RemoveDeleted bool
}

// Stats is the per-run counter summary.
type Stats struct {
	Failed      int     `json:"failed"`
	Updated     int     `json:"updated"`
	Created     int     `json:"created"`
	Deleted     int     `json:"deleted"`
	DurationSec float64 `json:"duration_sec"`
}

// LayerReport is the outcome of one layer within a run.
type LayerReport struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

// Outcome is the full report of one reconciliation run.
type Outcome struct {
	Stats         Stats         `json:"stats"`
	Layers        []LayerReport `json:"layers"`
	DeletedLayers []LayerReport `json:"deleted_layers"`
}

// Service drives the reconciliation loop against the external catalog and
// the local record store.
type Service struct {
	catalog    geoserver.Catalog
	schema     geoserver.SchemaClient
	stats      geoserver.StatisticsClient
	store      *models.Store
	wpsEnabled bool
	logger     *zap.Logger
}

// NewService wires a reconciler. stats may be nil when the processing
// service is disabled.
func NewService(
	catalog geoserver.Catalog,
	schema geoserver.SchemaClient,
	stats geoserver.StatisticsClient,
	store *models.Store,
	wpsEnabled bool,
	logger *zap.Logger,
) *Service {
	return &Service{
		catalog:    catalog,
		schema:     schema,
		stats:      stats,
		store:      store,
		wpsEnabled: wpsEnabled,
		logger:     logger,
	}
}

// Run executes one reconciliation pass and reports the outcome. The error
// return is non-nil only for fatal conditions: an unknown workspace, an
// unreachable catalog, or a per-resource failure when Options.IgnoreErrors
// is unset.
func (s *Service) Run(ctx context.Context, opts Options) (*Outcome, error) {
	console := opts.Console
	if console == nil {
		console = io.Discard
	}
	start := time.Now()

	if opts.Verbosity > 1 {
		fmt.Fprintln(console, "Inspecting the available layers in the catalog ...")
	}

	resources, err := s.resolveResources(ctx, opts)
	if err != nil {
		return nil, err
	}

	// The deletion pass compares against the resource set before the name
	// filter narrows it, so a filtered run never deletes unrelated records.
	var snapshot []geoserver.Resource
	if opts.RemoveDeleted {
		for _, r := range resources {
			if !r.Enabled.True() {
				continue
			}
			if opts.SkipUnadvertised && r.Advertised.False() {
				continue
			}
			snapshot = append(snapshot, r)
		}
	}

	working := make([]geoserver.Resource, 0, len(resources))
	for _, r := range resources {
		if opts.Filter != "" && !strings.Contains(r.Name, opts.Filter) {
			continue
		}
		if !r.Enabled.True() {
			continue
		}
		if opts.SkipUnadvertised && r.Advertised.False() {
			continue
		}
		working = append(working, r)
	}

	outcome := &Outcome{Layers: []LayerReport{}, DeletedLayers: []LayerReport{}}
	total := len(working)
	if opts.Verbosity > 1 {
		fmt.Fprintf(console, "Found %d layers, starting processing\n", total)
	}

	for i, resource := range working {
		status, procErr := s.processResource(ctx, &resource, opts.Owner)
		if procErr != nil {
			s.logger.Error("Failed to process resource",
				zap.String("resource", resource.Name), zap.Error(procErr))
			if !opts.IgnoreErrors {
				if opts.Verbosity > 0 {
					fmt.Fprintln(console, "Stopping process because --ignore-errors was not set and an error was found.")
				}
				return nil, fmt.Errorf("failed to process %s: %w", resource.Name, procErr)
			}
			status = StatusFailed
		}

		report := LayerReport{Name: resource.Name, Status: status}
		switch status {
		case StatusCreated:
			outcome.Stats.Created++
		case StatusUpdated:
			outcome.Stats.Updated++
		case StatusFailed:
			outcome.Stats.Failed++
			report.Error = procErr.Error()
			report.ErrorType = fmt.Sprintf("%T", procErr)
		}
		outcome.Layers = append(outcome.Layers, report)

		if opts.Verbosity > 0 {
			fmt.Fprintf(console, "[%s] Layer %s (%d/%d)\n", status, resource.Name, i+1, total)
		}
	}

	if opts.RemoveDeleted {
		s.removeDeleted(ctx, opts, snapshot, outcome, console)
	}

	outcome.Stats.DurationSec = time.Since(start).Seconds()
	return outcome, nil
}

// resolveResources lists the target resource set per the workspace/store
// scope. A named workspace must exist.
func (s *Service) resolveResources(ctx context.Context, opts Options) ([]geoserver.Resource, error) {
	if opts.Workspace != "" {
		workspace, err := s.catalog.GetWorkspace(ctx, opts.Workspace)
		if err != nil {
			if geoserver.IsNotFound(err) {
				return nil, fmt.Errorf("workspace %q was not found", opts.Workspace)
			}
			return nil, err
		}
		query := geoserver.ResourceQuery{Workspace: workspace.Name}
		if opts.Store != "" {
			store, err := s.catalog.GetStore(ctx, opts.Store, workspace.Name)
			if err != nil {
				return nil, err
			}
			query.Store = store.Name
		}
		return s.catalog.GetResources(ctx, query)
	}

	if opts.Store != "" {
		store, err := s.catalog.GetStore(ctx, opts.Store, "")
		if err != nil {
			return nil, err
		}
		return s.catalog.GetResources(ctx, geoserver.ResourceQuery{
			Workspace: store.Workspace,
			Store:     store.Name,
		})
	}

	return s.catalog.GetResources(ctx, geoserver.ResourceQuery{})
}

// processResource upserts the layer record for one resource inside a single
// transaction and refreshes its attribute set.
func (s *Service) processResource(ctx context.Context, resource *geoserver.Resource, owner string) (string, error) {
	status := StatusUpdated
	err := s.store.Transaction(ctx, func(tx *models.Store) error {
		defaults := models.Layer{
			Workspace: resource.Workspace,
			Store:     resource.Store,
			StoreType: resource.StoreType,
			TypeName:  resource.QualifiedName(),
			Title:     orDefault(resource.Title, "No title provided"),
			Abstract:  orDefault(resource.Abstract, "No abstract provided"),
			Owner:     owner,
			UUID:      uuid.NewString(),
		}
		layer, created, err := tx.GetOrCreateLayer(ctx, resource.Name, defaults)
		if err != nil {
			return err
		}
		if created {
			status = StatusCreated
			if err := tx.SetDefaultPermissions(ctx, layer); err != nil {
				return err
			}
		}
		return s.setAttributes(ctx, tx, layer, true)
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// removeDeleted deletes local records whose upstream resource no longer
// matches the snapshot on name, workspace and store. Deletion is local-only:
// the catalog cleanup hook is explicitly skipped.
func (s *Service) removeDeleted(ctx context.Context, opts Options, snapshot []geoserver.Resource, outcome *Outcome, console io.Writer) {
	layers, err := s.store.LayersMatching(ctx, opts.Workspace, opts.Store)
	if err != nil {
		s.logger.Error("Unable to list local layer records for deletion pass", zap.Error(err))
		return
	}

	var candidates []models.Layer
	for _, layer := range layers {
		matched := false
		for _, r := range snapshot {
			if layer.Name == r.Name && layer.Workspace == r.Workspace && layer.Store == r.Store {
				matched = true
				break
			}
		}
		if !matched {
			candidates = append(candidates, layer)
		}
	}

	total := len(candidates)
	if opts.Verbosity > 1 {
		fmt.Fprintf(console, "Found %d layers to delete\n", total)
	}

	for i := range candidates {
		layer := candidates[i]
		report := LayerReport{Name: layer.Name, Status: StatusDeleteSuccess}
		if err := s.store.DeleteLayer(ctx, &layer, true); err != nil {
			s.logger.Error("Failed to delete local layer record",
				zap.String("layer", layer.Name), zap.Error(err))
			report.Status = StatusDeleteFailed
			report.Error = err.Error()
			report.ErrorType = fmt.Sprintf("%T", err)
		} else {
			outcome.Stats.Deleted++
		}
		outcome.DeletedLayers = append(outcome.DeletedLayers, report)

		if opts.Verbosity > 0 {
			fmt.Fprintf(console, "[%s] Layer %s (%d/%d)\n", report.Status, layer.Name, i+1, total)
		}
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
