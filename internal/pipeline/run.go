package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/EliCDavis/vector/vector3"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bimcloud/internal/artifact"
	"bimcloud/internal/geom"
	"bimcloud/internal/model"
	"bimcloud/internal/model/bmjson"
)

// ErrNoGeometry is the terminal outcome of a run in which no batch produced
// a single mesh. It is an explicit "no output produced" signal, not a crash:
// callers log it and exit cleanly.
var ErrNoGeometry = errors.New("pipeline: no geometry extracted")

// Options configures one conversion run. Zero Workers means available
// parallelism minus one; zero Seed means time-seeded sampling.
type Options struct {
	InputPath      string `validate:"required"`
	PointCloudPath string `validate:"required"`
	MeshPath       string `validate:"required"`
	Points         int    `validate:"gt=0"`
	Workers        int    `validate:"gte=1"`
	Exclude        []string
	Seed           int64
	RunID          string
	Open           model.OpenFunc `validate:"-"`
	OnProgress     ProgressFunc   `validate:"-"`
}

// Stats summarizes a completed run.
type Stats struct {
	Candidates int
	Processed  int
	Excluded   int
	Batches    int
	Duration   time.Duration
}

// Result carries the produced artifacts and their summary.
type Result struct {
	RunID    string
	Combined *geom.Mesh
	Points   []vector3.Float64
	Types    []TypeSummary
	Stats    Stats
}

var validate = validator.New()

// DefaultWorkers returns available parallelism minus one, never below one.
func DefaultWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// Run executes the full conversion: enumerate candidates, partition, extract
// in parallel, aggregate by type, sample the surface and persist both
// artifacts. Failures below the batch level never surface here; the only
// soft terminal outcome is ErrNoGeometry.
func Run(ctx context.Context, opts Options, logger zerolog.Logger) (*Result, error) {
	if opts.Workers == 0 {
		opts.Workers = DefaultWorkers()
	}
	if opts.Open == nil {
		opts.Open = bmjson.Open
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("pipeline: invalid options: %w", err)
	}

	logger = logger.With().Str("runId", opts.RunID).Logger()
	logger.Info().Str("input", opts.InputPath).Msg("Loading model file")
	start := time.Now()

	store, err := opts.Open(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: open model: %w", err)
	}
	candidates := model.CandidateIDs(store)
	store.Close()

	logger.Info().Int("count", len(candidates)).Msg("Found elements with geometry representations")
	if len(opts.Exclude) > 0 {
		logger.Info().Strs("types", opts.Exclude).Msg("Excluding element types")
	}

	exclude := make(map[string]struct{}, len(opts.Exclude))
	for _, t := range opts.Exclude {
		exclude[t] = struct{}{}
	}

	batches := Partition(candidates, opts.InputPath, opts.Workers, exclude)
	logger.Info().
		Int("batches", len(batches)).
		Int("workers", opts.Workers).
		Msg("Divided work into batches")

	orch := NewOrchestrator(opts.Workers, opts.Open, logger)
	orch.OnProgress(opts.RunID, opts.OnProgress)
	mt, processed := orch.Run(ctx, batches, len(candidates))

	excluded := len(candidates) - processed
	logger.Info().
		Int("processed", processed).
		Int("total", len(candidates)).
		Int("skipped", excluded).
		Msg("Geometry extraction complete")

	if mt.Len() == 0 {
		diagnoseEmptyRun(opts, candidates, logger)
		emitTerminal(opts, StatusFailed, len(batches), processed, len(candidates), time.Since(start))
		return nil, ErrNoGeometry
	}

	logger.Info().Int("types", len(mt.Types())).Msg("Aggregating meshes by element type")
	combined, summaries := Aggregate(mt, logger)

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info().Int("points", opts.Points).Msg("Sampling points uniformly over the combined surface")
	points, err := geom.SampleSurfaceUniform(combined, opts.Points, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, fmt.Errorf("pipeline: sample surface: %w", err)
	}

	if err := artifact.WriteMesh(opts.MeshPath, combined); err != nil {
		return nil, fmt.Errorf("pipeline: write mesh: %w", err)
	}
	if err := artifact.WritePointCloud(opts.PointCloudPath, points); err != nil {
		return nil, fmt.Errorf("pipeline: write point cloud: %w", err)
	}

	duration := time.Since(start)
	logger.Info().
		Str("mesh", opts.MeshPath).
		Str("pointcloud", opts.PointCloudPath).
		Int("points", len(points)).
		Dur("elapsed", duration).
		Msg("Conversion complete")

	emitTerminal(opts, StatusCompleted, len(batches), processed, len(candidates), duration)

	return &Result{
		RunID:    opts.RunID,
		Combined: combined,
		Points:   points,
		Types:    summaries,
		Stats: Stats{
			Candidates: len(candidates),
			Processed:  processed,
			Excluded:   excluded,
			Batches:    len(batches),
			Duration:   duration,
		},
	}, nil
}

// emitTerminal sends the final lifecycle progress event.
func emitTerminal(opts Options, status Status, batches, processed, total int, elapsed time.Duration) {
	if opts.OnProgress == nil {
		return
	}
	opts.OnProgress(Progress{
		RunID:             opts.RunID,
		Status:            status,
		BatchID:           batches - 1,
		BatchesDone:       batches,
		BatchesTotal:      batches,
		ElementsProcessed: processed,
		ElementsTotal:     total,
		Elapsed:           elapsed,
	})
}

// diagnoseEmptyRun logs enough context to explain an all-empty extraction:
// file existence and size, candidate count, and one synchronous re-extraction
// attempt in the calling process.
func diagnoseEmptyRun(opts Options, candidates []int64, logger zerolog.Logger) {
	logger.Error().Msg("No valid geometry found in the model file")

	if fi, err := os.Stat(opts.InputPath); err != nil {
		logger.Error().Err(err).Msg("Model file not accessible")
	} else {
		logger.Info().
			Float64("sizeMB", float64(fi.Size())/(1024*1024)).
			Msg("Model file exists")
	}
	logger.Info().Int("candidates", len(candidates)).Msg("Elements with representation at partition time")

	if len(candidates) == 0 {
		return
	}

	// One in-process extraction of the first candidate, for debugging.
	store, err := opts.Open(opts.InputPath)
	if err != nil {
		logger.Error().Err(err).Msg("Diagnostic re-open failed")
		return
	}
	defer store.Close()

	g, err := store.Extract(candidates[0])
	if err != nil {
		logger.Error().Err(err).Int64("element", candidates[0]).Msg("Diagnostic extraction failed")
		return
	}
	logger.Info().
		Int64("element", candidates[0]).
		Int("vertices", len(g.Vertices)).
		Int("faces", len(g.Faces)).
		Msg("Diagnostic extraction succeeded in calling process")
}
