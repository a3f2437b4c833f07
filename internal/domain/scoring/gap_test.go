package scoring_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/confscore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSiblingScorers(t *testing.T) {
	Convey("Given the row [1.0, 2.0, 0.5]", t, func() {
		pred := mustRows([][]float64{{1.0, 2.0, 0.5}})
		sum := math.Exp(1) + math.Exp(2) + math.Exp(0.5)

		Convey("When scoring with maxscore", func() {
			conf, labels, err := outputs(scoring.NewMaxScore(), pred)

			Convey("Then the raw maximum is reported", func() {
				So(err, ShouldBeNil)
				So(conf, ShouldResemble, []float64{2.0})
				So(labels, ShouldResemble, []float64{2})
			})
		})

		Convey("When scoring with gap", func() {
			conf, labels, err := outputs(scoring.NewGap(), pred)

			Convey("Then the raw margin to the runner-up is reported", func() {
				So(err, ShouldBeNil)
				So(conf[0], ShouldAlmostEqual, 1.0, tolerance)
				So(labels, ShouldResemble, []float64{2})
			})
		})

		Convey("When scoring with boltzmangap", func() {
			conf, labels, err := outputs(scoring.NewBoltzmanGap(), pred)

			Convey("Then the probability margin is reported", func() {
				So(err, ShouldBeNil)
				So(conf[0], ShouldAlmostEqual, (math.Exp(2)-math.Exp(1))/sum, tolerance)
				So(labels, ShouldResemble, []float64{2})
			})
		})
	})

	Convey("Given a tied maximum", t, func() {
		pred := mustRows([][]float64{{4, 4, 1}})

		Convey("Then margins are zero and the first class wins", func() {
			for _, s := range []scoring.Scorer{scoring.NewGap(), scoring.NewBoltzmanGap()} {
				conf, labels, err := outputs(s, pred)
				So(err, ShouldBeNil)
				So(conf[0], ShouldAlmostEqual, 0, tolerance)
				So(labels[0], ShouldEqual, 1.0)
			}
		})
	})

	Convey("Given a single-class prediction", t, func() {
		pred := mustRows([][]float64{{0.3}})

		Convey("Then margin scorers reject it", func() {
			for _, s := range []scoring.Scorer{scoring.NewGap(), scoring.NewBoltzmanGap()} {
				_, _, err := outputs(s, pred)
				So(errors.Is(err, scoring.ErrValidation), ShouldBeTrue)
			}
		})

		Convey("Then maxscore accepts it", func() {
			conf, labels, err := outputs(scoring.NewMaxScore(), pred)
			So(err, ShouldBeNil)
			So(conf, ShouldResemble, []float64{0.3})
			So(labels, ShouldResemble, []float64{1})
		})
	})

	Convey("Given finite scores whose margin exceeds float64", t, func() {
		pred := mustRows([][]float64{{1, 2}, {-math.MaxFloat64, math.MaxFloat64}})

		Convey("When scoring with gap", func() {
			conf, labels, err := outputs(scoring.NewGap(), pred)

			Convey("Then a validation error is returned and no result", func() {
				So(errors.Is(err, scoring.ErrValidation), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "row 1 confidence overflows")
				So(conf, ShouldBeNil)
				So(labels, ShouldBeNil)
			})
		})

		Convey("When scoring with boltzmangap", func() {
			conf, _, err := outputs(scoring.NewBoltzmanGap(), pred)

			Convey("Then the probability margin stays finite", func() {
				So(err, ShouldBeNil)
				So(conf[1], ShouldAlmostEqual, 1.0, tolerance)
			})
		})
	})

	Convey("Given random predictions", t, func() {
		pred := randomPred(100, 5, 9)
		_, blabels, err := outputs(scoring.NewBoltzman(), pred)
		So(err, ShouldBeNil)

		Convey("Then every built-in scorer agrees on the labels", func() {
			for _, s := range []scoring.Scorer{scoring.NewMaxScore(), scoring.NewGap(), scoring.NewBoltzmanGap()} {
				conf, labels, err := outputs(s, pred)
				So(err, ShouldBeNil)
				So(labels, ShouldResemble, blabels)
				if s.Name() != scoring.NameMaxScore {
					for _, c := range conf {
						So(c, ShouldBeGreaterThanOrEqualTo, 0)
					}
				}
			}
		})
	})
}
