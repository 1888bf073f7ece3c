package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Session", func() {
	var (
		session *Session
		items   []Item
	)

	BeforeEach(func() {
		session = NewSession()
		items = []Item{
			{Name: "MILCH", Price: 1.29, Selected: true},
			{Name: "BROT", Price: 2.50, Selected: true},
			{Name: "KAESE", Price: 3.99, Selected: true},
		}
	})

	It("starts idle", func() {
		Expect(session.State()).To(Equal(StateIdle))
	})

	When("loading items", func() {
		It("moves to reviewing", func() {
			Expect(session.Load(items)).To(Succeed())
			Expect(session.State()).To(Equal(StateReviewing))
			Expect(session.Items()).To(HaveLen(3))
		})

		It("rejects a second load", func() {
			Expect(session.Load(items)).To(Succeed())
			Expect(session.Load(items)).To(MatchError(ErrInvalidTransition))
		})

		It("copies the input so callers cannot mutate session state", func() {
			Expect(session.Load(items)).To(Succeed())
			items[0].Name = "changed"
			Expect(session.Items()[0].Name).To(Equal("MILCH"))
		})
	})

	When("toggling selection", func() {
		BeforeEach(func() {
			Expect(session.Load(items)).To(Succeed())
		})

		It("flips exactly one item's flag", func() {
			Expect(session.ToggleSelection(1)).To(Succeed())
			got := session.Items()
			Expect(got[0].Selected).To(BeTrue())
			Expect(got[1].Selected).To(BeFalse())
			Expect(got[2].Selected).To(BeTrue())
		})

		It("stays in reviewing", func() {
			Expect(session.ToggleSelection(0)).To(Succeed())
			Expect(session.State()).To(Equal(StateReviewing))
		})

		It("rejects an out-of-range index", func() {
			Expect(session.ToggleSelection(7)).To(HaveOccurred())
		})

		It("is rejected outside reviewing", func() {
			Expect(session.Start()).To(Succeed())
			Expect(session.ToggleSelection(0)).To(MatchError(ErrInvalidTransition))
		})
	})

	When("starting categorization", func() {
		BeforeEach(func() {
			Expect(session.Load(items)).To(Succeed())
		})

		It("moves to categorizing and presents the first item", func() {
			Expect(session.Start()).To(Succeed())
			Expect(session.State()).To(Equal(StateCategorizing))
			current, ok := session.Current()
			Expect(ok).To(BeTrue())
			Expect(current.Name).To(Equal("MILCH"))
		})

		It("drops unselected items from the queue", func() {
			Expect(session.ToggleSelection(0)).To(Succeed())
			Expect(session.Start()).To(Succeed())
			Expect(session.Items()).To(HaveLen(2))
			current, _ := session.Current()
			Expect(current.Name).To(Equal("BROT"))
		})

		It("refuses to start with zero selected items", func() {
			for i := range items {
				Expect(session.ToggleSelection(i)).To(Succeed())
			}
			Expect(session.Start()).To(MatchError(ErrNoSelection))
			Expect(session.State()).To(Equal(StateReviewing))
		})

		It("is rejected outside reviewing", func() {
			Expect(session.Start()).To(Succeed())
			Expect(session.Start()).To(MatchError(ErrInvalidTransition))
		})
	})

	When("assigning categories", func() {
		BeforeEach(func() {
			Expect(session.Load(items)).To(Succeed())
			Expect(session.Start()).To(Succeed())
		})

		It("appends exactly one categorized item per call", func() {
			Expect(session.Assign(CategoryMe)).To(Succeed())
			Expect(session.Assign(CategoryShared)).To(Succeed())

			categorized := session.Categorized()
			Expect(categorized).To(HaveLen(2))
			Expect(categorized[0].Name).To(Equal("MILCH"))
			Expect(categorized[0].Category).To(Equal(CategoryMe))
			Expect(categorized[1].Name).To(Equal("BROT"))
			Expect(categorized[1].Category).To(Equal(CategoryShared))
		})

		It("keeps the cursor equal to the categorized count", func() {
			for i := 0; i < 3; i++ {
				done, total := session.Progress()
				Expect(done).To(Equal(i))
				Expect(total).To(Equal(3))
				Expect(session.Categorized()).To(HaveLen(i))
				Expect(session.Assign(CategoryRoommate)).To(Succeed())
			}
		})

		It("completes when the last item is assigned", func() {
			Expect(session.Assign(CategoryMe)).To(Succeed())
			Expect(session.Assign(CategoryMe)).To(Succeed())
			Expect(session.State()).To(Equal(StateCategorizing))
			Expect(session.Assign(CategoryShared)).To(Succeed())
			Expect(session.State()).To(Equal(StateComplete))
		})

		It("rejects assignment after completion", func() {
			for i := 0; i < 3; i++ {
				Expect(session.Assign(CategoryMe)).To(Succeed())
			}
			Expect(session.Assign(CategoryMe)).To(MatchError(ErrInvalidTransition))
			Expect(session.Categorized()).To(HaveLen(3))
		})

		It("exposes no current item once complete", func() {
			for i := 0; i < 3; i++ {
				Expect(session.Assign(CategoryMe)).To(Succeed())
			}
			_, ok := session.Current()
			Expect(ok).To(BeFalse())
		})
	})

	When("assigning outside categorizing", func() {
		It("is rejected while idle", func() {
			Expect(session.Assign(CategoryMe)).To(MatchError(ErrInvalidTransition))
		})

		It("is rejected while reviewing", func() {
			Expect(session.Load(items)).To(Succeed())
			Expect(session.Assign(CategoryMe)).To(MatchError(ErrInvalidTransition))
		})
	})

	When("resetting", func() {
		It("returns to idle from mid-flow with nothing retained", func() {
			Expect(session.Load(items)).To(Succeed())
			Expect(session.Start()).To(Succeed())
			Expect(session.Assign(CategoryMe)).To(Succeed())

			session.Reset()

			Expect(session.State()).To(Equal(StateIdle))
			Expect(session.Items()).To(BeEmpty())
			Expect(session.Categorized()).To(BeEmpty())
		})

		It("is permitted from any state", func() {
			session.Reset()
			Expect(session.State()).To(Equal(StateIdle))

			Expect(session.Load(items)).To(Succeed())
			session.Reset()
			Expect(session.State()).To(Equal(StateIdle))

			Expect(session.Load(items)).To(Succeed())
			Expect(session.Start()).To(Succeed())
			for i := 0; i < 3; i++ {
				Expect(session.Assign(CategoryShared)).To(Succeed())
			}
			Expect(session.State()).To(Equal(StateComplete))
			session.Reset()
			Expect(session.State()).To(Equal(StateIdle))
		})

		It("allows a fresh load afterwards", func() {
			Expect(session.Load(items)).To(Succeed())
			session.Reset()
			Expect(session.Load(items)).To(Succeed())
			Expect(session.State()).To(Equal(StateReviewing))
		})
	})
})

var _ = Describe("ParseCategory", func() {
	It("round-trips every category", func() {
		for _, c := range []Category{CategoryMe, CategoryRoommate, CategoryShared} {
			parsed, err := ParseCategory(c.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(c))
		}
	})

	It("rejects unknown values", func() {
		_, err := ParseCategory("landlord")
		Expect(err).To(HaveOccurred())
	})
})
