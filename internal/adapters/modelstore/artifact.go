// Package modelstore loads trained model artifacts from disk and serves them
// through an immutable registry.
package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/innings/internal/domain/features"
	"github.com/okian/innings/internal/domain/model"
	"github.com/okian/innings/internal/domain/player"
)

// FormatVersion is the only artifact format this build can read.
const FormatVersion = 1

// Artifact model types.
const (
	TypeDecisionTree    = "decision_tree"
	TypeNearestCentroid = "nearest_centroid"
)

// artifact mirrors the on-disk YAML document.
type artifact struct {
	Name          string         `koanf:"name"`
	FormatVersion int            `koanf:"format_version"`
	Type          string         `koanf:"type"`
	Features      []string       `koanf:"features"`
	Nodes         []nodeSpec     `koanf:"nodes"`
	Centroids     []centroidSpec `koanf:"centroids"`
	Scale         []float64      `koanf:"scale"`
}

type nodeSpec struct {
	Feature   string  `koanf:"feature"`
	Threshold float64 `koanf:"threshold"`
	Left      int     `koanf:"left"`
	Right     int     `koanf:"right"`
	Label     string  `koanf:"label"`
}

type centroidSpec struct {
	Label  string    `koanf:"label"`
	Values []float64 `koanf:"values"`
}

// Load reads the artifact at path and builds a predictor for kind. The
// artifact's feature list must equal the kind's feature schema.
func Load(_ context.Context, kind player.Kind, path string) (model.Predictor, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrArtifactCorrupt, path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArtifactCorrupt, path, err)
	}
	var a artifact
	if err := k.UnmarshalWithConf("", &a, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArtifactCorrupt, path, err)
	}

	p, err := build(kind, a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return withSource(p, path), nil
}

func build(kind player.Kind, a artifact) (model.Predictor, error) {
	if a.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: format_version %d, want %d", ErrIncompatible, a.FormatVersion, FormatVersion)
	}
	schema, err := features.Schema(kind)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(a.Features, schema) {
		return nil, fmt.Errorf("%w: features %v, want %v", ErrIncompatible, a.Features, schema)
	}

	info := model.Info{
		Name:     a.Name,
		Kind:     kind,
		Type:     a.Type,
		Version:  a.FormatVersion,
		Features: schema,
	}
	if info.Name == "" {
		info.Name = kind.String() + "_model"
	}

	switch a.Type {
	case TypeDecisionTree:
		return newDecisionTree(info, a.Nodes)
	case TypeNearestCentroid:
		return newNearestCentroid(info, a.Centroids, a.Scale)
	default:
		return nil, fmt.Errorf("%w: unsupported model type %q", ErrIncompatible, a.Type)
	}
}

// sourced attaches the artifact path to a predictor's info.
type sourced struct {
	model.Predictor
	info model.Info
}

func (s sourced) Info() model.Info { return s.info }

func withSource(p model.Predictor, path string) model.Predictor {
	info := p.Info()
	info.Source = path
	return sourced{Predictor: p, info: info}
}

func uniqueLabels(labels []model.Label) []model.Label {
	out := make([]model.Label, 0, len(labels))
	for _, l := range labels {
		if !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}
