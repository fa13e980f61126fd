package model

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Validate", func() {
	// 2 groups of 2 golfers over 3 weeks: the resolvable design on 4 points
	var schedule Schedule

	BeforeEach(func() {
		schedule = Schedule{
			Weeks: [][][]int{
				{{0, 1}, {2, 3}},
				{{0, 2}, {1, 3}},
				{{0, 3}, {1, 2}},
			},
		}
	})

	inspect := func() ValidationReport {
		return Inspect(schedule, 3, 2, 4, 2)
	}

	Context("with a correct schedule", func() {
		It("should accept it", func() {
			Expect(Validate(schedule, 3, 2, 4, 2)).To(BeTrue())
			Expect(inspect()).To(Equal(ValidationReport{Valid: true, Failed: CheckNone}))
		})

		It("should ignore the objective line", func() {
			schedule.Objective = 42
			Expect(inspect().Valid).To(BeTrue())
		})

		It("should ignore weeks and groups beyond the instance", func() {
			schedule.Weeks[0] = append(schedule.Weeks[0], []int{0, 1})
			schedule.Weeks = append(schedule.Weeks, [][]int{{0, 1}, {2, 3}})
			Expect(inspect().Valid).To(BeTrue())
		})
	})

	Context("with a partition violation", func() {
		It("should reject a golfer playing twice in a week", func() {
			schedule.Weeks[1] = [][]int{{0, 2}, {0, 3}}
			report := inspect()
			Expect(report.Valid).To(BeFalse())
			Expect(report.Failed).To(Equal(CheckPartition))
			Expect(report.Reason).To(ContainSubstring("golfer 0 plays twice"))
		})

		It("should reject an id out of range", func() {
			schedule.Weeks[2] = [][]int{{0, 3}, {1, 4}}
			Expect(inspect().Failed).To(Equal(CheckPartition))
		})

		It("should reject a negative id", func() {
			schedule.Weeks[0] = [][]int{{0, -1}, {2, 3}}
			Expect(inspect().Failed).To(Equal(CheckPartition))
		})

		It("should reject missing weeks", func() {
			schedule.Weeks = schedule.Weeks[:2]
			Expect(inspect().Failed).To(Equal(CheckPartition))
		})

		It("should reject missing groups", func() {
			schedule.Weeks[1] = schedule.Weeks[1][:1]
			Expect(inspect().Failed).To(Equal(CheckPartition))
		})

		It("should check partition before group size", func() {
			schedule.Weeks[0] = [][]int{{0, 1, 1}, {2, 3}}
			Expect(inspect().Failed).To(Equal(CheckPartition))
		})
	})

	Context("with a group size violation", func() {
		It("should reject an oversized group", func() {
			schedule.Weeks[0] = [][]int{{0, 1, 2}, {3}}
			report := inspect()
			Expect(report.Failed).To(Equal(CheckGroupSize))
			Expect(report.Reason).To(ContainSubstring("3 golfers, expected 2"))
		})

		It("should check group size before meetings", func() {
			schedule.Weeks[1] = [][]int{{0, 1, 2}, {3}}
			Expect(inspect().Failed).To(Equal(CheckGroupSize))
		})
	})

	Context("with repeated meetings", func() {
		It("should reject a pair meeting twice", func() {
			schedule.Weeks[2] = [][]int{{0, 1}, {2, 3}}
			report := inspect()
			Expect(report.Valid).To(BeFalse())
			Expect(report.Failed).To(Equal(CheckMeetings))
		})

		It("should treat pairs as unordered", func() {
			schedule.Weeks[2] = [][]int{{1, 0}, {3, 2}}
			report := inspect()
			Expect(report.Failed).To(Equal(CheckMeetings))
			Expect(report.Reason).To(ContainSubstring("golfers 0 and 1"))
		})

		It("should reject a single group over two weeks", func() {
			single := Schedule{Objective: 6, Weeks: [][][]int{{{0, 1, 2, 3}}, {{0, 1, 2, 3}}}}
			Expect(Validate(single, 2, 1, 4, 4)).To(BeFalse())
			Expect(Inspect(single, 2, 1, 4, 4).Failed).To(Equal(CheckMeetings))
		})
	})

	Context("with golfers missing from a week", func() {
		It("should not report them", func() {
			Expect(Validate(Schedule{Weeks: [][][]int{{{0}}}}, 1, 1, 2, 1)).To(BeTrue())
		})
	})
})

var _ = DescribeTable("Validate on one week of two pairs",
	func(weeks [][][]int, expected bool) {
		schedule := Schedule{Weeks: weeks}
		Expect(Validate(schedule, 1, 2, 4, 2)).To(Equal(expected))
		// Validation is pure: asking twice gives the same answer
		Expect(Validate(schedule, 1, 2, 4, 2)).To(Equal(expected))
	},
	Entry("disjoint pairs", [][][]int{{{0, 1}, {2, 3}}}, true),
	Entry("a golfer in both pairs", [][][]int{{{0, 1}, {1, 2}}}, false),
)

var _ = Describe("Validate on large declared shapes", func() {
	It("should not size its tables by the golfer count", func() {
		schedule := Schedule{Weeks: [][][]int{{{0, 1}}}}
		Expect(Validate(schedule, 1, 1, 1<<40, 2)).To(BeTrue())
		Expect(Validate(schedule, 1, 1, int(^uint(0)>>1), 2)).To(BeTrue())
	})

	It("should still find repeated meetings", func() {
		schedule := Schedule{Weeks: [][][]int{{{5, 1 << 35}}, {{1 << 35, 5}}}}
		Expect(Inspect(schedule, 2, 1, 1<<40, 2).Failed).To(Equal(CheckMeetings))
	})
})

var _ = Describe("Check", func() {
	DescribeTable("String",
		func(check Check, expected string) {
			Expect(check.String()).To(Equal(expected))
		},
		Entry("none", CheckNone, "none"),
		Entry("partition", CheckPartition, "partition"),
		Entry("group size", CheckGroupSize, "group-size"),
		Entry("meetings", CheckMeetings, "meetings"),
		Entry("unknown", Check(9), "check(9)"),
	)
})
