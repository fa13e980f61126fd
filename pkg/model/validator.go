package model

import "fmt"

// Check names one of the validator's checks.
type Check int

const (
	CheckNone Check = iota
	CheckPartition
	CheckGroupSize
	CheckMeetings
)

func (check Check) String() string {
	switch check {
	case CheckNone:
		return "none"
	case CheckPartition:
		return "partition"
	case CheckGroupSize:
		return "group-size"
	case CheckMeetings:
		return "meetings"
	default:
		return fmt.Sprintf("check(%d)", int(check))
	}
}

type ValidationReport struct {
	Valid  bool
	Failed Check // CheckNone when valid
	Reason string
}

// Validate reports whether schedule satisfies the hard constraints of the problem. It trusts
// nothing about the schedule's shape.
func Validate(schedule Schedule, weeks, groups, golfers, groupSize int) bool {
	return Inspect(schedule, weeks, groups, golfers, groupSize).Valid
}

// Inspect runs the checks in order and reports the first failure:
//   - partition: no golfer plays twice in a week, every id lies in [0, golfers)
//   - group size: every group holds exactly groupSize golfers
//   - meetings: no pair of golfers shares a group twice over the whole schedule
//
// A golfer absent from a week is not reported.
func Inspect(schedule Schedule, weeks, groups, golfers, groupSize int) ValidationReport {
	if len(schedule.Weeks) < weeks {
		return failure(CheckPartition, "schedule has %d weeks, expected %d", len(schedule.Weeks), weeks)
	}
	for week := range weeks {
		if len(schedule.Weeks[week]) < groups {
			return failure(CheckPartition, "week %d has %d groups, expected %d", week, len(schedule.Weeks[week]), groups)
		}
	}

	//** Check part 1: each golfer plays at most once per week
	for week := range weeks {
		hasPlayed := make(map[int]bool)
		for group := range groups {
			for _, golfer := range schedule.Weeks[week][group] {
				if golfer < 0 || golfer >= golfers {
					return failure(CheckPartition, "week %d, group %d: golfer %d out of range", week, group, golfer)
				} else if hasPlayed[golfer] {
					return failure(CheckPartition, "week %d: golfer %d plays twice", week, golfer)
				}
				hasPlayed[golfer] = true
			}
		}
	}

	//** Check part 2: each group contains exactly groupSize golfers
	for week := range weeks {
		for group := range groups {
			if size := len(schedule.Weeks[week][group]); size != groupSize {
				return failure(CheckGroupSize, "week %d, group %d: %d golfers, expected %d", week, group, size, groupSize)
			}
		}
	}

	//** Check part 3: no two golfers meet more than once
	playTogether := make(map[[2]int]bool)
	for week := range weeks {
		for group := range groups {
			players := schedule.Weeks[week][group]
			for i, golfer1 := range players {
				for _, golfer2 := range players[i+1:] {
					pair := [2]int{min(golfer1, golfer2), max(golfer1, golfer2)}
					if playTogether[pair] {
						return failure(CheckMeetings, "golfers %d and %d meet again in week %d, group %d", pair[0], pair[1], week, group)
					}
					playTogether[pair] = true
				}
			}
		}
	}

	return ValidationReport{Valid: true, Failed: CheckNone}
}

func failure(check Check, format string, args ...any) ValidationReport {
	return ValidationReport{Failed: check, Reason: fmt.Sprintf(format, args...)}
}
