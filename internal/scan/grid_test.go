package scan_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sitnikov/internal/ode"
	"github.com/san-kum/sitnikov/internal/scan"
)

var _ = Describe("Range", func() {
	It("expands a half-open sequence", func() {
		vals, err := scan.Range{Start: 0, Stop: 3, Step: 1}.Values()
		Expect(err).NotTo(HaveOccurred())
		Expect(vals).To(Equal([]float64{0, 1, 2}))
	})

	It("excludes the stop value even when the step lands on it", func() {
		vals, err := scan.Range{Start: 0, Stop: 1, Step: 0.25}.Values()
		Expect(err).NotTo(HaveOccurred())
		Expect(vals).To(Equal([]float64{0, 0.25, 0.5, 0.75}))
	})

	It("yields an empty sequence for a degenerate range", func() {
		vals, err := scan.Range{Start: 2, Stop: 2, Step: 0.5}.Values()
		Expect(err).NotTo(HaveOccurred())
		Expect(vals).To(BeEmpty())
	})

	It("rejects a non-positive step", func() {
		_, err := scan.Range{Start: 0, Stop: 1, Step: 0}.Values()
		Expect(err).To(MatchError(ode.ErrInvalidParameter))
	})

	It("rejects stop before start", func() {
		_, err := scan.Range{Start: 1, Stop: 0, Step: 0.1}.Values()
		Expect(err).To(MatchError(ode.ErrInvalidParameter))
	})
})

var _ = Describe("Spec.Build", func() {
	Context("in fixed-velocity mode", func() {
		It("pairs every z with the single start velocity", func() {
			grid, err := scan.Spec{
				Z:    scan.Range{Start: 0, Stop: 3, Step: 1},
				V:    scan.Range{Start: 0.5, Stop: 9, Step: 1},
				Mode: scan.FixedVelocity,
			}.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(grid).To(Equal([]scan.Condition{
				{Z0: 0, V0: 0.5},
				{Z0: 1, V0: 0.5},
				{Z0: 2, V0: 0.5},
			}))
		})
	})

	Context("with a degenerate velocity range", func() {
		It("collapses to the fixed-velocity branch even in full-grid mode", func() {
			grid, err := scan.Spec{
				Z:    scan.Range{Start: 0, Stop: 2, Step: 1},
				V:    scan.Range{Start: 0.3, Stop: 0.3, Step: 1},
				Mode: scan.FullGrid,
			}.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(grid).To(Equal([]scan.Condition{
				{Z0: 0, V0: 0.3},
				{Z0: 1, V0: 0.3},
			}))
		})
	})

	Context("in full-grid mode", func() {
		It("takes the Cartesian product in row-major order", func() {
			grid, err := scan.Spec{
				Z:    scan.Range{Start: 0, Stop: 2, Step: 1},
				V:    scan.Range{Start: 0, Stop: 2, Step: 1},
				Mode: scan.FullGrid,
			}.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(grid).To(Equal([]scan.Condition{
				{Z0: 0, V0: 0},
				{Z0: 0, V0: 1},
				{Z0: 1, V0: 0},
				{Z0: 1, V0: 1},
			}))
		})

		It("sizes the grid as len(z) * len(v)", func() {
			grid, err := scan.Spec{
				Z:    scan.Range{Start: 0, Stop: 1, Step: 0.25},
				V:    scan.Range{Start: -1, Stop: 1, Step: 0.5},
				Mode: scan.FullGrid,
			}.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(grid).To(HaveLen(4 * 4))
		})
	})

	Context("with an empty dimension", func() {
		It("returns a valid empty grid, not an error", func() {
			grid, err := scan.Spec{
				Z:    scan.Range{Start: 1, Stop: 1, Step: 0.1},
				V:    scan.Range{Start: 0, Stop: 2, Step: 1},
				Mode: scan.FullGrid,
			}.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(grid).To(BeEmpty())
		})
	})

	It("propagates range validation errors", func() {
		_, err := scan.Spec{
			Z:    scan.Range{Start: 0, Stop: 1, Step: -1},
			V:    scan.Range{Start: 0, Stop: 1, Step: 1},
			Mode: scan.FullGrid,
		}.Build()
		Expect(err).To(MatchError(ode.ErrInvalidParameter))
	})
})
