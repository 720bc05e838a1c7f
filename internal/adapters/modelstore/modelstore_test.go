package modelstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/innings/internal/adapters/modelstore"
	"github.com/okian/innings/internal/domain/features"
	"github.com/okian/innings/internal/domain/model"
	"github.com/okian/innings/internal/domain/player"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	shippedBatting = "../../../models/analysis/batting_model.yaml"
	shippedBowling = "../../../models/analysis/bowling_model.yaml"
)

const treeArtifact = `
name: tiny_tree
format_version: 1
type: decision_tree
features: [mat, runs, avg, sr, career_length, fours, sixes, boundary_pct]
nodes:
  - {feature: sr, threshold: 100, left: 1, right: 2}
  - {label: Anchor}
  - {label: Power Hitter}
`

const centroidArtifact = `
name: tiny_centroid
format_version: 1
type: nearest_centroid
features: [mat, wickets, econ, sr, career_length]
centroids:
  - {label: Economist, values: [10, 10, 5, 20, 3]}
  - {label: Strike, values: [10, 30, 8, 12, 3]}
`

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func batsmanVector(sr float64) features.Vector {
	v, err := features.BuildBatsman(player.BatsmanRecord{Mat: 10, Runs: 500, SR: sr, Avg: 40, Fours: 40, Sixes: 10, StartYear: 2010, EndYear: 2015})
	if err != nil {
		panic(err)
	}
	return v
}

func bowlerVector(wickets int, econ float64) features.Vector {
	v, err := features.BuildBowler(player.BowlerRecord{Mat: 10, Wickets: wickets, Econ: econ, SR: 18, StartYear: 2010, EndYear: 2013})
	if err != nil {
		panic(err)
	}
	return v
}

func TestDecisionTree(t *testing.T) {
	Convey("Given a decision tree artifact", t, func() {
		ctx := context.Background()
		p, err := modelstore.Load(ctx, player.Batsman, writeArtifact(t, treeArtifact))
		So(err, ShouldBeNil)

		Convey("Then metadata reflects the artifact", func() {
			info := p.Info()
			So(info.Name, ShouldEqual, "tiny_tree")
			So(info.Type, ShouldEqual, modelstore.TypeDecisionTree)
			So(info.Kind, ShouldEqual, player.Batsman)
			So(info.Labels, ShouldResemble, []model.Label{"Anchor", "Power Hitter"})
			So(info.Source, ShouldNotBeEmpty)
		})

		Convey("When the split value is at or under the threshold", func() {
			label, err := p.Predict(ctx, batsmanVector(100))
			So(err, ShouldBeNil)
			So(label, ShouldEqual, model.Label("Anchor"))
		})

		Convey("When the split value is above the threshold", func() {
			label, err := p.Predict(ctx, batsmanVector(140))
			So(err, ShouldBeNil)
			So(label, ShouldEqual, model.Label("Power Hitter"))
		})

		Convey("When given a bowler vector", func() {
			_, err := p.Predict(ctx, bowlerVector(10, 5))
			So(errors.Is(err, model.ErrSchemaMismatch), ShouldBeTrue)
		})
	})
}

func TestNearestCentroid(t *testing.T) {
	Convey("Given a nearest centroid artifact", t, func() {
		ctx := context.Background()
		p, err := modelstore.Load(ctx, player.Bowler, writeArtifact(t, centroidArtifact))
		So(err, ShouldBeNil)

		Convey("When a record sits near the first centroid", func() {
			label, err := p.Predict(ctx, bowlerVector(11, 5.2))
			So(err, ShouldBeNil)
			So(label, ShouldEqual, model.Label("Economist"))
		})

		Convey("When a record sits near the second centroid", func() {
			label, err := p.Predict(ctx, bowlerVector(28, 7.9))
			So(err, ShouldBeNil)
			So(label, ShouldEqual, model.Label("Strike"))
		})

		Convey("When given a batsman vector", func() {
			_, err := p.Predict(ctx, batsmanVector(100))
			So(errors.Is(err, model.ErrSchemaMismatch), ShouldBeTrue)
		})

		Convey("When predicting concurrently", func() {
			var wg sync.WaitGroup
			results := make([]model.Label, 32)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], _ = p.Predict(ctx, bowlerVector(11, 5.2))
				}(i)
			}
			wg.Wait()
			for _, l := range results {
				So(l, ShouldEqual, model.Label("Economist"))
			}
		})
	})
}

func TestLoadFailures(t *testing.T) {
	Convey("Given broken artifacts", t, func() {
		ctx := context.Background()

		Convey("When the file does not exist", func() {
			_, err := modelstore.Load(ctx, player.Batsman, "/non/existent/model.yaml")
			So(errors.Is(err, modelstore.ErrArtifactNotFound), ShouldBeTrue)
		})

		Convey("When the file is not YAML", func() {
			_, err := modelstore.Load(ctx, player.Batsman, writeArtifact(t, "invalid: yaml: content: ["))
			So(errors.Is(err, modelstore.ErrArtifactCorrupt), ShouldBeTrue)
		})

		Convey("When the format version is unsupported", func() {
			_, err := modelstore.Load(ctx, player.Batsman, writeArtifact(t, `
format_version: 2
type: decision_tree
features: [mat, runs, avg, sr, career_length, fours, sixes, boundary_pct]
nodes:
  - {label: Anchor}
`))
			So(errors.Is(err, modelstore.ErrIncompatible), ShouldBeTrue)
		})

		Convey("When the features do not match the player type", func() {
			_, err := modelstore.Load(ctx, player.Bowler, writeArtifact(t, treeArtifact))
			So(errors.Is(err, modelstore.ErrIncompatible), ShouldBeTrue)
		})

		Convey("When the model type is unknown", func() {
			_, err := modelstore.Load(ctx, player.Bowler, writeArtifact(t, `
format_version: 1
type: random_forest
features: [mat, wickets, econ, sr, career_length]
`))
			So(errors.Is(err, modelstore.ErrIncompatible), ShouldBeTrue)
		})

		Convey("When a tree node points backwards", func() {
			_, err := modelstore.Load(ctx, player.Batsman, writeArtifact(t, `
format_version: 1
type: decision_tree
features: [mat, runs, avg, sr, career_length, fours, sixes, boundary_pct]
nodes:
  - {feature: sr, threshold: 100, left: 0, right: 1}
  - {label: Anchor}
`))
			So(errors.Is(err, modelstore.ErrArtifactCorrupt), ShouldBeTrue)
		})

		Convey("When a tree splits on an unknown feature", func() {
			_, err := modelstore.Load(ctx, player.Batsman, writeArtifact(t, `
format_version: 1
type: decision_tree
features: [mat, runs, avg, sr, career_length, fours, sixes, boundary_pct]
nodes:
  - {feature: wickets, threshold: 1, left: 1, right: 2}
  - {label: Anchor}
  - {label: Power Hitter}
`))
			So(errors.Is(err, modelstore.ErrArtifactCorrupt), ShouldBeTrue)
		})

		Convey("When a centroid has the wrong width", func() {
			_, err := modelstore.Load(ctx, player.Bowler, writeArtifact(t, `
format_version: 1
type: nearest_centroid
features: [mat, wickets, econ, sr, career_length]
centroids:
  - {label: Economist, values: [1, 2, 3]}
`))
			So(errors.Is(err, modelstore.ErrArtifactCorrupt), ShouldBeTrue)
		})

		Convey("When a scale entry is zero", func() {
			_, err := modelstore.Load(ctx, player.Bowler, writeArtifact(t, `
format_version: 1
type: nearest_centroid
features: [mat, wickets, econ, sr, career_length]
scale: [1, 1, 0, 1, 1]
centroids:
  - {label: Economist, values: [1, 2, 3, 4, 5]}
`))
			So(errors.Is(err, modelstore.ErrArtifactCorrupt), ShouldBeTrue)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given the shipped artifacts", t, func() {
		ctx := context.Background()
		reg, err := modelstore.LoadRegistry(ctx, shippedBatting, shippedBowling)
		So(err, ShouldBeNil)

		Convey("Then both kinds resolve to a predictor", func() {
			bat, err := reg.For(player.Batsman)
			So(err, ShouldBeNil)
			So(bat.Info().Kind, ShouldEqual, player.Batsman)

			bowl, err := reg.For(player.Bowler)
			So(err, ShouldBeNil)
			So(bowl.Info().Kind, ShouldEqual, player.Bowler)

			So(len(reg.Models()), ShouldEqual, 2)
		})

		Convey("Then the reference batsman is an Anchor", func() {
			bat, _ := reg.For(player.Batsman)
			v, err := features.BuildBatsman(player.BatsmanRecord{Mat: 10, Runs: 500, SR: 90, Avg: 45, Fours: 40, Sixes: 10, StartYear: 2015, EndYear: 2020})
			So(err, ShouldBeNil)
			label, err := bat.Predict(ctx, v)
			So(err, ShouldBeNil)
			So(label, ShouldEqual, model.Label("Anchor"))
		})

		Convey("Then the reference bowler is an Elite Economist", func() {
			bowl, _ := reg.For(player.Bowler)
			v, err := features.BuildBowler(player.BowlerRecord{Mat: 20, Wickets: 30, Econ: 4.5, SR: 25, StartYear: 2018, EndYear: 2022})
			So(err, ShouldBeNil)
			label, err := bowl.Predict(ctx, v)
			So(err, ShouldBeNil)
			So(label, ShouldEqual, model.Label("Elite Economist"))
		})

		Convey("Then an unknown kind has no model", func() {
			_, err := reg.For("umpire")
			So(errors.Is(err, modelstore.ErrNoModel), ShouldBeTrue)
		})
	})

	Convey("Given one missing artifact", t, func() {
		_, err := modelstore.LoadRegistry(context.Background(), shippedBatting, "/missing/bowling.yaml")
		So(errors.Is(err, modelstore.ErrArtifactNotFound), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "load bowling model")
	})

	Convey("Given nil predictors", t, func() {
		_, err := modelstore.NewRegistry(nil, nil)
		So(errors.Is(err, modelstore.ErrNoModel), ShouldBeTrue)
	})
}
