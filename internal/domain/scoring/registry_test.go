package scoring_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/okian/confscore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Given the default registry", t, func() {
		reg := scoring.Default()

		Convey("Then it lists the built-in scorers in order", func() {
			So(reg.Names(), ShouldResemble, []string{
				scoring.NameBoltzman,
				scoring.NameBoltzmanGap,
				scoring.NameGap,
				scoring.NameMaxScore,
			})
		})

		Convey("When building each scorer by name", func() {
			Convey("Then the instance reports the same name", func() {
				for _, name := range reg.Names() {
					s, err := reg.New(name, scoring.WithRowWorkers(2))
					So(err, ShouldBeNil)
					So(s.Name(), ShouldEqual, name)
					So(s.Clone().Name(), ShouldEqual, name)
				}
			})
		})

		Convey("When building an unknown scorer", func() {
			s, err := reg.New("softermax")

			Convey("Then an unknown scorer error is returned", func() {
				So(errors.Is(err, scoring.ErrUnknownScorer), ShouldBeTrue)
				So(s, ShouldBeNil)
				So(reg.Has("softermax"), ShouldBeFalse)
			})
		})
	})

	Convey("Given an empty registry", t, func() {
		reg := scoring.NewRegistry()
		factory := func(opts ...scoring.Option) scoring.Scorer { return scoring.NewBoltzman(opts...) }

		Convey("When registering a scorer", func() {
			err := reg.Register("custom", factory)

			Convey("Then it can be built", func() {
				So(err, ShouldBeNil)
				So(reg.Has("custom"), ShouldBeTrue)
				s, err := reg.New("custom")
				So(err, ShouldBeNil)
				So(s, ShouldNotBeNil)
			})

			Convey("And registering the same name again fails", func() {
				So(errors.Is(reg.Register("custom", factory), scoring.ErrDuplicateScorer), ShouldBeTrue)
			})
		})

		Convey("When registering without a name or factory", func() {
			Convey("Then the registration is rejected", func() {
				So(errors.Is(reg.Register("", factory), scoring.ErrInvalidScorer), ShouldBeTrue)
				So(errors.Is(reg.Register("nil", nil), scoring.ErrInvalidScorer), ShouldBeTrue)
				So(reg.Names(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given concurrent registry use", t, func() {
		reg := scoring.NewBuiltinRegistry()

		Convey("Then lookups and registrations do not race", func() {
			var wg sync.WaitGroup
			errs := make(chan error, 20)
			for i := 0; i < 10; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_, err := reg.New(scoring.NameBoltzman)
					errs <- err
				}()
				go func() {
					defer wg.Done()
					_ = reg.Register("extra", func(...scoring.Option) scoring.Scorer { return scoring.NewGap() })
					errs <- nil
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				So(err, ShouldBeNil)
			}
			So(reg.Has("extra"), ShouldBeTrue)
		})
	})
}
