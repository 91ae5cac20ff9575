package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bimcloud"
	"bimcloud/internal/model/bmjson"
	"bimcloud/internal/pipeline"
	"bimcloud/internal/realtime"
)

// multiFlag collects repeated occurrences of a string flag.
type multiFlag []string

func (m *multiFlag) String() string {
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

func main() {
	bimcloud.InitConfig(".env")
	logger := bimcloud.Logger

	var exclude multiFlag
	pointCloudPath := flag.String("o", "pointcloud.ply", "output point cloud path")
	meshPath := flag.String("m", "mesh.ply", "output mesh path")
	points := flag.Int("p", 100000, "number of points to sample")
	workers := flag.Int("n", pipeline.DefaultWorkers(), "number of parallel workers")
	flag.Var(&exclude, "e", "element type to exclude (repeatable)")
	listOnly := flag.Bool("l", false, "print the element type census and exit")
	interactive := flag.Bool("i", false, "prompt for element types to exclude")
	noDisplay := flag.Bool("no-display", false, "suppress the post-run inspection summary")
	serveAddr := flag.String("serve", "", "serve run status and progress on this address while converting")
	seed := flag.Int64("seed", 0, "sampling seed, 0 means time-seeded")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <model-file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	census, err := pipeline.TakeCensus(inputPath, bmjson.Open)
	if err != nil {
		logger.Fatal().Err(err).Str("input", inputPath).Msg("Failed to read model file")
	}

	if *listOnly {
		pipeline.PrintCensus(os.Stdout, inputPath, census)
		return
	}

	if *interactive {
		exclude = append(exclude, promptExclusions(os.Stdin, os.Stdout, census, logger)...)
	}

	runID := uuid.NewString()
	var progressFuncs []pipeline.ProgressFunc

	cfg := bimcloud.GetConfig()
	reporter := realtime.NewReporter(cfg.NatsURL, cfg.TenantID)
	defer reporter.Close()
	progressFuncs = append(progressFuncs, reporter.ReportFunc())

	if *serveAddr != "" {
		hub := realtime.NewHub()
		go hub.Run()
		state := realtime.NewState()
		progressFuncs = append(progressFuncs, hub.Feed(), state.Sink())

		server := realtime.NewServer(hub, state, inputPath, census, logger)
		go func() {
			if err := server.Serve(ctx, *serveAddr); err != nil {
				logger.Error().Err(err).Msg("Status server stopped")
			}
		}()
	}

	result, err := pipeline.Run(ctx, pipeline.Options{
		InputPath:      inputPath,
		PointCloudPath: *pointCloudPath,
		MeshPath:       *meshPath,
		Points:         *points,
		Workers:        *workers,
		Exclude:        exclude,
		Seed:           *seed,
		RunID:          runID,
		OnProgress:     pipeline.MultiProgress(progressFuncs...),
	}, logger)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoGeometry) {
			logger.Warn().Msg("Nothing to convert, no output files written")
			return
		}
		logger.Fatal().Err(err).Msg("Conversion failed")
	}

	if !*noDisplay {
		printSummary(os.Stdout, result, *meshPath, *pointCloudPath)
	}
}

// promptExclusions lists the model's element types and reads a comma-separated
// selection of 1-based indices. "none" or an empty line selects nothing. Any
// non-integer token aborts the whole selection with a warning; out-of-range
// indices are skipped silently.
func promptExclusions(in io.Reader, out io.Writer, census map[string]int, logger zerolog.Logger) []string {
	types := make([]string, 0, len(census))
	for t := range census {
		types = append(types, t)
	}
	sort.Strings(types)

	fmt.Fprintln(out, "\nElement types found in the model:")
	for i, t := range types {
		fmt.Fprintf(out, "  %d. %s (%d elements)\n", i+1, t, census[t])
	}
	fmt.Fprint(out, "Enter comma-separated numbers to exclude (or 'none'): ")

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return nil
	}

	selected, ok := parseExclusions(line, types)
	if !ok {
		logger.Warn().Msg("Invalid selection, proceeding without exclusions")
		return nil
	}
	return selected
}

// parseExclusions resolves a raw selection line against the sorted type list.
// Returns ok=false when any token is not an integer, in which case no
// exclusions apply.
func parseExclusions(line string, types []string) ([]string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.EqualFold(line, "none") {
		return nil, true
	}

	var selected []string
	for _, tok := range strings.Split(line, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		idx, err := strconv.Atoi(tok)
		if err != nil {
			return nil, false
		}
		if idx < 1 || idx > len(types) {
			continue
		}
		selected = append(selected, types[idx-1])
	}
	return selected, true
}

// printSummary writes the post-run inspection report: what was produced,
// from how many elements, and where it went.
func printSummary(out io.Writer, result *pipeline.Result, meshPath, pointCloudPath string) {
	rule := strings.Repeat("-", 60)

	fmt.Fprintf(out, "\nConversion summary (run %s)\n", result.RunID)
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%-30s | %-8s | %s\n", "Element Type", "Meshes", "Color (r,g,b)")
	fmt.Fprintln(out, rule)
	for _, ts := range result.Types {
		fmt.Fprintf(out, "%-30s | %-8d | %.2f, %.2f, %.2f\n",
			ts.Type, ts.Meshes, ts.Color.X(), ts.Color.Y(), ts.Color.Z())
	}
	fmt.Fprintln(out, rule)

	lo, hi := result.Combined.Bounds()
	fmt.Fprintf(out, "Elements processed:   %d of %d (%d skipped or excluded)\n",
		result.Stats.Processed, result.Stats.Candidates, result.Stats.Excluded)
	fmt.Fprintf(out, "Combined mesh:        %d vertices, %d triangles\n",
		result.Combined.VertexCount(), result.Combined.TriangleCount())
	fmt.Fprintf(out, "Bounding box:         (%.2f, %.2f, %.2f) to (%.2f, %.2f, %.2f)\n",
		lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z())
	fmt.Fprintf(out, "Total surface area:   %.2f\n", result.Combined.SurfaceArea())
	fmt.Fprintf(out, "Sampled points:       %d\n", len(result.Points))
	fmt.Fprintf(out, "Mesh written to:      %s\n", meshPath)
	fmt.Fprintf(out, "Points written to:    %s\n", pointCloudPath)
	fmt.Fprintf(out, "Elapsed:              %s\n", result.Stats.Duration.Round(10*time.Millisecond))
}
