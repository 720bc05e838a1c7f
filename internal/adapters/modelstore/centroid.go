package modelstore

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/innings/internal/domain/features"
	"github.com/okian/innings/internal/domain/model"
)

// NearestCentroid assigns the label of the closest class centroid by
// Euclidean distance over scaled features. Ties go to the earlier centroid.
type NearestCentroid struct {
	info      model.Info
	labels    []model.Label
	centroids [][]float64
	scale     []float64
}

func newNearestCentroid(info model.Info, specs []centroidSpec, scale []float64) (*NearestCentroid, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no centroids", ErrArtifactCorrupt)
	}
	width := len(info.Features)
	if len(scale) == 0 {
		scale = make([]float64, width)
		for i := range scale {
			scale[i] = 1
		}
	}
	if len(scale) != width {
		return nil, fmt.Errorf("%w: scale has %d entries, want %d", ErrArtifactCorrupt, len(scale), width)
	}
	for i, s := range scale {
		if s <= 0 {
			return nil, fmt.Errorf("%w: scale[%d] must be positive", ErrArtifactCorrupt, i)
		}
	}

	nc := &NearestCentroid{info: info, scale: scale}
	for i, c := range specs {
		if c.Label == "" {
			return nil, fmt.Errorf("%w: centroid %d has no label", ErrArtifactCorrupt, i)
		}
		if len(c.Values) != width {
			return nil, fmt.Errorf("%w: centroid %q has %d values, want %d", ErrArtifactCorrupt, c.Label, len(c.Values), width)
		}
		nc.labels = append(nc.labels, model.Label(c.Label))
		nc.centroids = append(nc.centroids, c.Values)
	}
	nc.info.Labels = uniqueLabels(nc.labels)
	return nc, nil
}

// Predict returns the label of the nearest centroid.
func (c *NearestCentroid) Predict(_ context.Context, v features.Vector) (model.Label, error) {
	if !v.HasSchema(c.info.Features) {
		return "", fmt.Errorf("%w: got %v", model.ErrSchemaMismatch, v.Names())
	}
	x := v.Values()
	best, bestDist := 0, math.Inf(1)
	for i, centroid := range c.centroids {
		var d float64
		for j := range x {
			diff := (x[j] - centroid[j]) / c.scale[j]
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return c.labels[best], nil
}

// Info describes the model.
func (c *NearestCentroid) Info() model.Info { return c.info }
