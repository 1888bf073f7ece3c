package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("assembleLines", func() {
	var (
		fragments []textFragment
		lines     []string
	)

	JustBeforeEach(func() {
		lines = assembleLines(fragments)
	})

	When("fragments share a vertical position", func() {
		BeforeEach(func() {
			fragments = []textFragment{
				{x: 180, y: 700, text: "1,29"},
				{x: 20, y: 700, text: "MILCH"},
				{x: 220, y: 700, text: "A"},
			}
		})

		It("joins them left to right with single spaces", func() {
			Expect(lines).To(Equal([]string{"MILCH 1,29 A"}))
		})
	})

	When("vertical positions differ by more than the threshold", func() {
		BeforeEach(func() {
			fragments = []textFragment{
				{x: 20, y: 680, text: "BROT"},
				{x: 180, y: 680, text: "2,50"},
				{x: 20, y: 700, text: "MILCH"},
				{x: 180, y: 700, text: "1,29"},
			}
		})

		It("starts a new line per vertical group, top to bottom", func() {
			Expect(lines).To(Equal([]string{"MILCH 1,29", "BROT 2,50"}))
		})
	})

	When("vertical positions jitter within the threshold", func() {
		BeforeEach(func() {
			fragments = []textFragment{
				{x: 20, y: 700.0, text: "MILCH"},
				{x: 180, y: 698.5, text: "1,29"},
			}
		})

		It("keeps the fragments on one line", func() {
			Expect(lines).To(Equal([]string{"MILCH 1,29"}))
		})
	})

	When("there are no fragments", func() {
		BeforeEach(func() {
			fragments = nil
		})

		It("returns no lines", func() {
			Expect(lines).To(BeEmpty())
		})
	})

	When("fragments are blank after trimming", func() {
		BeforeEach(func() {
			fragments = []textFragment{
				{x: 20, y: 700, text: "   "},
				{x: 20, y: 650, text: "KAESE 3,99"},
			}
		})

		It("drops lines that end up empty", func() {
			Expect(lines).To(Equal([]string{"KAESE 3,99"}))
		})
	})
})
