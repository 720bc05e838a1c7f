package model_test

import (
	"context"
	"testing"

	"github.com/okian/innings/internal/domain/features"
	model "github.com/okian/innings/internal/domain/model"
	"github.com/okian/innings/internal/domain/player"
	"github.com/smartystreets/goconvey/convey"
)

func TestPredictorFunc(t *testing.T) {
	convey.Convey("Given a function-backed predictor", t, func() {
		var seen features.Vector
		p := model.PredictorFunc{
			Fn: func(_ context.Context, v features.Vector) (model.Label, error) {
				seen = v
				return "Anchor", nil
			},
			Meta: model.Info{Name: "stub", Kind: player.Batsman, Features: features.BatsmanSchema},
		}

		convey.Convey("When predicting", func() {
			v, err := features.FromValues([]string{"mat"}, []float64{3})
			convey.So(err, convey.ShouldBeNil)
			label, err := p.Predict(context.Background(), v)

			convey.Convey("Then the function result is returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(label, convey.ShouldEqual, model.Label("Anchor"))
				convey.So(label.String(), convey.ShouldEqual, "Anchor")
				convey.So(seen.Len(), convey.ShouldEqual, 1)
			})

			convey.Convey("And the metadata is exposed", func() {
				convey.So(p.Info().Name, convey.ShouldEqual, "stub")
				convey.So(p.Info().Kind, convey.ShouldEqual, player.Batsman)
			})
		})
	})
}
