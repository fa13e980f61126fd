package model

type indexerImplementation struct {
	weeks   int
	groups  int
	golfers int
}

func (indexer *indexerImplementation) Index(week, group, golfer int) int {
	return (week*indexer.groups+group)*indexer.golfers + golfer
}

func (indexer *indexerImplementation) Attributes(index int) (week, group, golfer int) {
	golfer = index % indexer.golfers
	index = index / indexer.golfers

	group = index % indexer.groups
	index = index / indexer.groups

	week = index

	return week, group, golfer
}

type pairIndexerImplementation struct {
	golfers int
}

// Pairs are laid out row by row: (0,1), (0,2), ..., (0,n-1), (1,2), ...
func (indexer *pairIndexerImplementation) Pair(golfer1, golfer2 int) int {
	return golfer1*(2*indexer.golfers-golfer1-1)/2 + (golfer2 - golfer1 - 1)
}

func (indexer *pairIndexerImplementation) Golfers(index int) (golfer1, golfer2 int) {
	for golfer1 = 0; golfer1 < indexer.golfers-1; golfer1++ {
		row := indexer.golfers - golfer1 - 1
		if index < row {
			return golfer1, golfer1 + 1 + index
		}
		index -= row
	}
	return -1, -1
}
