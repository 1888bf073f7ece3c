package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComputeTotals", func() {
	var (
		cfg    SplitConfig
		items  []CategorizedItem
		totals Totals
	)

	BeforeEach(func() {
		cfg = SplitConfig{PersonA: "alex", PersonB: "maya"}
	})

	JustBeforeEach(func() {
		totals = ComputeTotals(items, cfg)
	})

	When("splitting a small mixed receipt", func() {
		BeforeEach(func() {
			items = []CategorizedItem{
				{Item: Item{Name: "MILCH", Price: 1.29}, Category: CategoryMe},
				{Item: Item{Name: "BROT", Price: 2.50}, Category: CategoryShared},
			}
		})

		It("assigns the personal item plus half the shared item to person A", func() {
			Expect(totals.PersonA.Total).To(BeNumerically("~", 2.54, 1e-9))
		})

		It("assigns half the shared item to person B", func() {
			Expect(totals.PersonB.Total).To(BeNumerically("~", 1.25, 1e-9))
		})

		It("names the configured parties", func() {
			Expect(totals.PersonA.PersonID).To(Equal("alex"))
			Expect(totals.PersonB.PersonID).To(Equal("maya"))
		})
	})

	When("items cover all three categories", func() {
		BeforeEach(func() {
			items = []CategorizedItem{
				{Item: Item{Name: "A", Price: 3.10}, Category: CategoryMe},
				{Item: Item{Name: "B", Price: 4.20}, Category: CategoryRoommate},
				{Item: Item{Name: "C", Price: 5.30}, Category: CategoryShared},
				{Item: Item{Name: "D", Price: 0.70}, Category: CategoryShared},
			}
		})

		It("conserves the grand total", func() {
			Expect(totals.Sum()).To(BeNumerically("~", 3.10+4.20+5.30+0.70, 1e-9))
		})

		It("splits shared items exactly in half", func() {
			Expect(totals.PersonA.Total).To(BeNumerically("~", 3.10+3.00, 1e-9))
			Expect(totals.PersonB.Total).To(BeNumerically("~", 4.20+3.00, 1e-9))
		})
	})

	When("there are no categorized items", func() {
		BeforeEach(func() {
			items = nil
		})

		It("yields zero totals without error", func() {
			Expect(totals.PersonA.Total).To(BeZero())
			Expect(totals.PersonB.Total).To(BeZero())
		})
	})

	When("an odd shared amount cannot split into even cents", func() {
		BeforeEach(func() {
			items = []CategorizedItem{
				{Item: Item{Name: "C", Price: 0.01}, Category: CategoryShared},
			}
		})

		It("keeps full precision rather than rounding mid-computation", func() {
			Expect(totals.PersonA.Total).To(BeNumerically("~", 0.005, 1e-9))
			Expect(totals.PersonB.Total).To(BeNumerically("~", 0.005, 1e-9))
			Expect(totals.Sum()).To(BeNumerically("~", 0.01, 1e-9))
		})
	})
})
