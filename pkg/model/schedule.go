package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var ErrMalformedSchedule = errors.New("malformed schedule")

// Schedule maps week -> group -> golfer ids. Group lengths are whatever was produced or read;
// only the validator judges them.
type Schedule struct {
	Objective int
	Weeks     [][][]int
}

// WriteTo writes the objective on the first line, then one line of golfer ids per group, with a
// blank line closing every week.
func (schedule Schedule) WriteTo(writer io.Writer) (int64, error) {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%d\n", schedule.Objective)
	for _, groups := range schedule.Weeks {
		for _, players := range groups {
			builder.WriteString(strings.Join(lo.Map(players, func(golfer int, _ int) string { return strconv.Itoa(golfer) }), " "))
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}
	written, err := io.WriteString(writer, builder.String())
	return int64(written), err
}

// ReadSchedule decodes a schedule of the given shape. Lines may hold any number of ids; the
// separator line after each week is skipped unread. It fails only when a token is not an integer
// or there are too few lines for the shape.
func ReadSchedule(reader io.Reader, weeks, groups int) (Schedule, error) {
	if weeks < 0 || groups < 0 {
		return Schedule{}, fmt.Errorf("%w: negative shape of %d weeks and %d groups", ErrMalformedSchedule, weeks, groups)
	}

	var lines []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Schedule{}, fmt.Errorf("cannot read schedule: %w", err)
	}

	required, ok := requiredLines(weeks, groups)
	if !ok || uint64(len(lines)) < required {
		return Schedule{}, fmt.Errorf("%w: %d weeks of %d groups need more than the %d lines found", ErrMalformedSchedule, weeks, groups, len(lines))
	}

	objective, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: objective line %q: %v", ErrMalformedSchedule, lines[0], err)
	}

	schedule := Schedule{Objective: objective, Weeks: make([][][]int, weeks)}
	lineIndex := 1
	for week := range weeks {
		schedule.Weeks[week] = make([][]int, groups)
		for group := range groups {
			fields := strings.Fields(lines[lineIndex])
			players := make([]int, len(fields))
			for i, field := range fields {
				if players[i], err = strconv.Atoi(field); err != nil {
					return Schedule{}, fmt.Errorf("%w: line %d: %v", ErrMalformedSchedule, lineIndex+1, err)
				}
			}
			schedule.Weeks[week][group] = players
			lineIndex++
		}
		lineIndex++
	}
	return schedule, nil
}

// requiredLines counts 1 + weeks*groups + (weeks-1), reporting false on overflow.
func requiredLines(weeks, groups int) (uint64, bool) {
	hi, cells := bits.Mul64(uint64(weeks), uint64(groups))
	if hi != 0 {
		return 0, false
	}
	required, carry := bits.Add64(cells, uint64(max(weeks, 1)), 0)
	return required, carry == 0
}

func ScheduleFromFile(file string, weeks, groups int) (Schedule, error) {
	f, err := os.Open(file)
	if err != nil {
		return Schedule{}, err
	}
	defer f.Close()
	return ReadSchedule(f, weeks, groups)
}

// WriteFile writes the schedule to file, replacing it.
func (schedule Schedule) WriteFile(file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if _, err := schedule.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
