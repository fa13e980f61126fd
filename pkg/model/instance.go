package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrMalformedInstance = errors.New("malformed instance")

// Instance holds the parameters of a social golfer problem.
type Instance struct {
	Groups    int
	GroupSize int
	Weeks     int
}

func (instance Instance) Golfers() int {
	return instance.Groups * instance.GroupSize
}

// Pairs returns the number of unordered golfer pairs.
func (instance Instance) Pairs() int {
	golfers := instance.Golfers()
	return golfers * (golfers - 1) / 2
}

// ParseInstance reads whitespace-separated integers, the first three being the number of groups,
// the group size and the number of weeks. Trailing integers are ignored.
func ParseInstance(reader io.Reader) (Instance, error) {
	bytes, err := io.ReadAll(reader)
	if err != nil {
		return Instance{}, fmt.Errorf("cannot read instance: %w", err)
	}

	fields := strings.Fields(string(bytes))
	values := make([]int, len(fields))
	for i, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil {
			return Instance{}, fmt.Errorf("%w: token %d (%q) is not an integer", ErrMalformedInstance, i, field)
		}
		values[i] = value
	}
	if len(values) < 3 {
		return Instance{}, fmt.Errorf("%w: expected 3 integers, found %d", ErrMalformedInstance, len(values))
	}

	instance := Instance{Groups: values[0], GroupSize: values[1], Weeks: values[2]}
	if instance.Groups <= 0 || instance.GroupSize <= 0 || instance.Weeks <= 0 {
		return Instance{}, fmt.Errorf("%w: parameters must be positive: %+v", ErrMalformedInstance, instance)
	}
	return instance, nil
}

func InstanceFromFile(file string) (Instance, error) {
	f, err := os.Open(file)
	if err != nil {
		return Instance{}, err
	}
	defer f.Close()
	return ParseInstance(f)
}
