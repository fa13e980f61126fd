package model

// indexer gives a unique flat offset to a combination of a decision variable's attributes and vice versa
type indexer interface {
	// Returns the offset of golfer's membership of group in week
	Index(week, group, golfer int) int
	// Returns the attributes of a membership from its offset
	Attributes(index int) (week, group, golfer int)
}

// pairIndexer numbers the unordered pairs golfer1 < golfer2 contiguously
type pairIndexer interface {
	// Returns the offset of the pair golfer1 < golfer2
	Pair(golfer1, golfer2 int) int
	// Returns the golfers of a pair from its offset
	Golfers(index int) (golfer1, golfer2 int)
}

func newIndexer(weeks, groups, golfers int) indexer {
	return &indexerImplementation{
		weeks:   weeks,
		groups:  groups,
		golfers: golfers,
	}
}

func newPairIndexer(golfers int) pairIndexer {
	return &pairIndexerImplementation{golfers: golfers}
}
