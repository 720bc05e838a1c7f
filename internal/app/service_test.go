package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/innings/internal/adapters/modelstore"
	service "github.com/okian/innings/internal/app"
	"github.com/okian/innings/internal/domain/features"
	"github.com/okian/innings/internal/domain/model"
	"github.com/okian/innings/internal/domain/player"
	"github.com/okian/innings/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	battingArtifact = "../../models/analysis/batting_model.yaml"
	bowlingArtifact = "../../models/analysis/bowling_model.yaml"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func refBatsman() player.BatsmanRecord {
	return player.BatsmanRecord{Player: "Ref Bat", Mat: 10, Runs: 500, SR: 90, Avg: 45, Fours: 40, Sixes: 10, StartYear: 2015, EndYear: 2020}
}

func refBowler() player.BowlerRecord {
	return player.BowlerRecord{Player: "Ref Bowl", Mat: 20, Wickets: 30, Econ: 4.5, SR: 25, StartYear: 2018, EndYear: 2022}
}

// stubRegistry returns a registry whose predictors echo fixed labels and
// record the vectors they receive.
func stubRegistry(seen *[]features.Vector, mu *sync.Mutex) *modelstore.Registry {
	mk := func(kind player.Kind, label model.Label) model.Predictor {
		return model.PredictorFunc{
			Fn: func(_ context.Context, v features.Vector) (model.Label, error) {
				mu.Lock()
				*seen = append(*seen, v)
				mu.Unlock()
				return label, nil
			},
			Meta: model.Info{Name: kind.String() + "_stub", Kind: kind},
		}
	}
	reg, err := modelstore.NewRegistry(mk(player.Batsman, "Anchor"), mk(player.Bowler, "Wicket Taker"))
	if err != nil {
		panic(err)
	}
	return reg
}

func TestService_Start(t *testing.T) {
	Convey("Given a service pointed at the shipped artifacts", t, func() {
		svc := service.New(service.WithModelPaths(battingArtifact, bowlingArtifact))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start and expose both models", func() {
				So(err, ShouldBeNil)
				So(svc.Ready(), ShouldBeTrue)
				infos, err := svc.Models(ctx)
				So(err, ShouldBeNil)
				So(len(infos), ShouldEqual, 2)
				So(infos[0].Kind, ShouldEqual, player.Batsman)
				So(infos[1].Kind, ShouldEqual, player.Bowler)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service with a missing artifact", t, func() {
		svc := service.New(service.WithModelPaths(battingArtifact, "/missing/bowling.yaml"))

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it fails and stays unready", func() {
				So(errors.Is(err, modelstore.ErrArtifactNotFound), ShouldBeTrue)
				So(svc.Ready(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("Then classification is refused", func() {
			_, err := svc.Classify(context.Background(), player.NewBatsmanRequest(refBatsman()))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Models(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		var seen []features.Vector
		var mu sync.Mutex
		svc := service.New(service.WithRegistry(stubRegistry(&seen, &mu)))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.Ready(), ShouldBeFalse)
			})

			Convey("And stopping twice is safe", func() {
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})
}

func TestService_Classify(t *testing.T) {
	Convey("Given a service with stub models", t, func() {
		ctx := context.Background()
		var seen []features.Vector
		var mu sync.Mutex
		svc := service.New(service.WithRegistry(stubRegistry(&seen, &mu)))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When classifying a batsman", func() {
			p, err := svc.Classify(ctx, player.NewBatsmanRequest(refBatsman()))

			Convey("Then the batting model receives the batting vector", func() {
				So(err, ShouldBeNil)
				So(p.Kind, ShouldEqual, player.Batsman)
				So(p.Label, ShouldEqual, model.Label("Anchor"))
				So(len(seen), ShouldEqual, 1)
				So(seen[0].HasSchema(features.BatsmanSchema), ShouldBeTrue)
				pct, _ := p.Features.Get("boundary_pct")
				So(pct, ShouldAlmostEqual, 0.44, 1e-9)
			})
		})

		Convey("When classifying a bowler", func() {
			p, err := svc.Classify(ctx, player.NewBowlerRequest(refBowler()))

			Convey("Then the bowling model receives the bowling vector", func() {
				So(err, ShouldBeNil)
				So(p.Label, ShouldEqual, model.Label("Wicket Taker"))
				So(seen[0].Values(), ShouldResemble, []float64{20, 30, 4.5, 25, 4})
			})
		})

		Convey("When the batsman has zero runs", func() {
			rec := refBatsman()
			rec.Runs = 0
			_, err := svc.Classify(ctx, player.NewBatsmanRequest(rec))

			Convey("Then a zero runs error is returned and no model is called", func() {
				So(errors.Is(err, features.ErrZeroRuns), ShouldBeTrue)
				So(len(seen), ShouldEqual, 0)
			})
		})

		Convey("When the career span is negative", func() {
			rec := refBowler()
			rec.EndYear = 2010
			_, err := svc.Classify(ctx, player.NewBowlerRequest(rec))
			So(errors.Is(err, player.ErrCareerSpan), ShouldBeTrue)
		})

		Convey("When the request payload disagrees with its kind", func() {
			bowl := refBowler()
			_, err := svc.Classify(ctx, player.Request{Kind: player.Batsman, Bowler: &bowl})
			So(errors.Is(err, player.ErrPayloadMismatch), ShouldBeTrue)
			So(len(seen), ShouldEqual, 0)
		})

		Convey("When classifying concurrently", func() {
			var wg sync.WaitGroup
			errs := make(chan error, 50)
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					req := player.NewBatsmanRequest(refBatsman())
					if i%2 == 1 {
						req = player.NewBowlerRequest(refBowler())
					}
					if _, err := svc.Classify(ctx, req); err != nil {
						errs <- err
					}
				}(i)
			}
			wg.Wait()
			close(errs)

			Convey("Then every call succeeds", func() {
				So(len(errs), ShouldEqual, 0)
				So(len(seen), ShouldEqual, 50)
			})
		})
	})

	Convey("Given a service whose model fails", t, func() {
		failing := model.PredictorFunc{
			Fn: func(context.Context, features.Vector) (model.Label, error) {
				return "", model.ErrSchemaMismatch
			},
			Meta: model.Info{Name: "broken"},
		}
		reg, err := modelstore.NewRegistry(failing, failing)
		So(err, ShouldBeNil)
		svc := service.New(service.WithRegistry(reg))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("Then the error is wrapped as a prediction failure", func() {
			_, err := svc.Classify(context.Background(), player.NewBatsmanRequest(refBatsman()))
			So(errors.Is(err, service.ErrPredict), ShouldBeTrue)
			So(errors.Is(err, model.ErrSchemaMismatch), ShouldBeTrue)
		})
	})

	Convey("Given a service with the shipped models", t, func() {
		svc := service.New(service.WithModelPaths(battingArtifact, bowlingArtifact))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("Then the reference records get their expected categories", func() {
			p, err := svc.Classify(context.Background(), player.NewBatsmanRequest(refBatsman()))
			So(err, ShouldBeNil)
			So(p.Label, ShouldEqual, model.Label("Anchor"))

			p, err = svc.Classify(context.Background(), player.NewBowlerRequest(refBowler()))
			So(err, ShouldBeNil)
			So(p.Label, ShouldEqual, model.Label("Elite Economist"))
		})
	})
}
