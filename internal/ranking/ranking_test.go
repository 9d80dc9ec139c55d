package ranking_test

import (
	"testing"

	"github.com/talentview/hr-insight/internal/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewWeights(t *testing.T) {
	Convey("Given no overrides", t, func() {
		w := ranking.NewWeights(nil)

		Convey("Then every dimension defaults to 1.0", func() {
			for _, dim := range ranking.Dimensions() {
				So(w[dim], ShouldEqual, 1.0)
			}
		})
	})

	Convey("Given overrides", t, func() {
		w := ranking.NewWeights(map[string]float64{
			ranking.DimDatabase: 2.5,
			"typing_speed":      9.0,
			ranking.DimAppDev:   -1,
		})

		Convey("Then known non-negative overrides apply", func() {
			So(w[ranking.DimDatabase], ShouldEqual, 2.5)
		})

		Convey("Then unknown dimensions are ignored", func() {
			_, ok := w["typing_speed"]
			So(ok, ShouldBeFalse)
		})

		Convey("Then negative overrides keep the default", func() {
			So(w[ranking.DimAppDev], ShouldEqual, 1.0)
		})
	})
}

func TestWeightedTotal(t *testing.T) {
	Convey("Given a candidate with partial scores", t, func() {
		scores := map[string]float64{
			ranking.DimExperience: 8.0,
			ranking.DimDatabase:   6.0,
		}

		Convey("When all weights are default", func() {
			total := ranking.WeightedTotal(scores, ranking.NewWeights(nil))

			Convey("Then absent dimensions contribute zero", func() {
				So(total, ShouldEqual, 14.0)
			})
		})

		Convey("When a dimension is weighted up", func() {
			total := ranking.WeightedTotal(scores, ranking.NewWeights(map[string]float64{
				ranking.DimDatabase: 2.0,
			}))

			So(total, ShouldEqual, 20.0)
		})
	})
}

func TestRank(t *testing.T) {
	weights := ranking.NewWeights(nil)

	Convey("Given several candidates", t, func() {
		entries := []ranking.Entry{
			{ID: "c", Name: "Carol", Scores: map[string]float64{ranking.DimExperience: 5}},
			{ID: "a", Name: "Alice", Scores: map[string]float64{ranking.DimExperience: 9}},
			{ID: "b", Name: "Bob", Scores: map[string]float64{ranking.DimExperience: 7}},
		}

		ranked := ranking.Rank(entries, weights)

		Convey("Then ordering follows the weighted total descending", func() {
			So(ranked[0].Name, ShouldEqual, "Alice")
			So(ranked[1].Name, ShouldEqual, "Bob")
			So(ranked[2].Name, ShouldEqual, "Carol")
		})

		Convey("Then ranks are 1..n and positive", func() {
			for i, r := range ranked {
				So(r.Rank, ShouldEqual, i+1)
				So(r.Rank, ShouldBeGreaterThan, 0)
			}
		})
	})

	Convey("Given candidates with equal totals", t, func() {
		entries := []ranking.Entry{
			{ID: "2", Name: "Zed", Scores: map[string]float64{ranking.DimDatabase: 5}},
			{ID: "1", Name: "Amy", Scores: map[string]float64{ranking.DimDatabase: 5}},
			{ID: "0", Name: "Amy", Scores: map[string]float64{ranking.DimDatabase: 5}},
		}

		ranked := ranking.Rank(entries, weights)

		Convey("Then ties break by name, then id", func() {
			So(ranked[0].ID, ShouldEqual, "0")
			So(ranked[1].ID, ShouldEqual, "1")
			So(ranked[2].Name, ShouldEqual, "Zed")
		})
	})

	Convey("Given a single candidate in a department", t, func() {
		ranked := ranking.Rank([]ranking.Entry{
			{ID: "jd", Name: "Jane Doe", Scores: map[string]float64{
				ranking.DimExperience: 8.25,
				ranking.DimAppDev:     7.7,
			}},
		}, weights)

		Convey("Then she is the whole shortlist with rank 1", func() {
			So(len(ranked), ShouldEqual, 1)
			So(ranked[0].Rank, ShouldEqual, 1)
		})
	})

	Convey("Given no candidates", t, func() {
		ranked := ranking.Rank(nil, weights)

		Convey("Then the result is an empty ordered list, not an error", func() {
			So(ranked, ShouldNotBeNil)
			So(len(ranked), ShouldEqual, 0)
		})
	})

	Convey("Given a candidate with no parseable scores", t, func() {
		ranked := ranking.Rank([]ranking.Entry{
			{ID: "x", Name: "Unknown", Scores: map[string]float64{}},
		}, weights)

		Convey("Then the total is zero and the rank is still positive", func() {
			So(ranked[0].Total, ShouldEqual, 0)
			So(ranked[0].Rank, ShouldEqual, 1)
		})
	})
}
