package osm

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/qedus/osmpbf"
	"github.com/rs/zerolog"

	"kuanb/gosm-geo/geom"
)

// Extractor streams nodes out of an OSM PBF file
type Extractor struct {
	logger *zerolog.Logger
	procs  int
}

// NewExtractor creates an extractor decoding with GOMAXPROCS goroutines
func NewExtractor(logger *zerolog.Logger) *Extractor {
	return &Extractor{
		logger: logger,
		procs:  runtime.GOMAXPROCS(-1),
	}
}

// ExtractFile opens filePath and runs Extract on it
func (e *Extractor) ExtractFile(ctx context.Context, filePath string, keep Predicate) ([]OsmNode, Stats, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open pbf: %w", err)
	}
	defer f.Close()

	return e.Extract(ctx, f, keep)
}

// contextReader fails reads once ctx is done, so the decoder's reader
// goroutine stops at the next file block after a cancel
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

// drain reads until the decoder reports an error or io.EOF. osmpbf has no
// Close, and its goroutines only exit once everything they produced is read
func drain(d *osmpbf.Decoder) {
	for {
		if _, err := d.Decode(); err != nil {
			return
		}
	}
}

// Extract decodes r and returns the nodes accepted by keep, in file order.
// Ways and relations are counted and skipped
func (e *Extractor) Extract(ctx context.Context, r io.Reader, keep Predicate) ([]OsmNode, Stats, error) {
	d := osmpbf.NewDecoder(contextReader{ctx: ctx, r: r})

	// use more memory from the start, it is faster
	d.SetBufferSize(osmpbf.MaxBlobSize)

	if err := d.Start(e.procs); err != nil {
		return nil, Stats{}, fmt.Errorf("start pbf decoder: %w", err)
	}
	defer drain(d)

	var stats Stats
	var nodes []OsmNode

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		v, err := d.Decode()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, stats, fmt.Errorf("decode pbf: %w", err)
		}

		switch v := v.(type) {
		case *osmpbf.Node:
			stats.Nodes++
			p := geom.NewPoint(v.Lat, v.Lon)
			if keep == nil || keep(p) {
				nodes = append(nodes, OsmNode{
					ID:    OsmNodeId(v.ID),
					Point: p,
					Tags:  v.Tags,
				})
				stats.Kept++
			}
		case *osmpbf.Way:
			stats.Ways++
		case *osmpbf.Relation:
			stats.Relations++
		default:
			return nil, stats, fmt.Errorf("unknown type %T", v)
		}
	}

	e.logger.Info().
		Uint64("nodes", stats.Nodes).
		Uint64("ways", stats.Ways).
		Uint64("relations", stats.Relations).
		Uint64("kept", stats.Kept).
		Msg("Extracted nodes")

	return nodes, stats, nil
}

// Collection renders nodes as GeoJSON points carrying osm_id and tags
func Collection(nodes []OsmNode) ([]byte, error) {
	points := make([]geom.GeoPoint, len(nodes))
	for i, n := range nodes {
		points[i] = n.Point
	}
	fc := geom.PointsCollection(points, func(i int) map[string]any {
		props := map[string]any{"osm_id": int64(nodes[i].ID)}
		for k, v := range nodes[i].Tags {
			props[k] = v
		}
		return props
	})
	return fc.MarshalJSON()
}
