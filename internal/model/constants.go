package model

// AgilityTable maps an agility stat (index 1-6, clamped) to the d6 target
// number needed to succeed a dodge roll before modifiers. Index 0 is unused.
var AgilityTable = [7]int{6, 6, 5, 4, 3, 2, 1}

const (
	GFITargetNormal   = 2
	GFITargetBlizzard = 3
	MaxGFI            = 2
)

// PassMatrix is indexed by (|Δx|, |Δy|) clamped to [0,13] and yields a 0-5
// range category; GetPassDistance folds category 0 into QuickPass alongside
// category 1 so the six matrix levels map onto the five PassDistance
// variants.
var PassMatrix = [14][14]int{
	{0, 1, 1, 1, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4},
	{1, 1, 1, 1, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4},
	{1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 5},
	{1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 4, 4, 4, 5},
	{2, 2, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 5},
	{2, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 5, 5},
	{2, 2, 2, 2, 3, 3, 3, 3, 3, 4, 4, 4, 5, 5},
	{3, 3, 3, 3, 3, 3, 3, 3, 4, 4, 4, 5, 5, 5},
	{3, 3, 3, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5},
	{3, 3, 3, 3, 3, 4, 4, 4, 4, 4, 5, 5, 5, 5},
	{3, 3, 3, 4, 4, 4, 4, 4, 4, 5, 5, 5, 5, 5},
	{4, 4, 4, 4, 4, 4, 4, 5, 5, 5, 5, 5, 5, 5},
	{4, 4, 4, 4, 4, 5, 5, 5, 5, 5, 5, 5, 5, 5},
	{4, 4, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5},
}

var passDistanceByCategory = [5]PassDistance{
	PassQuick, PassShort, PassLong, PassLongBomb, PassHailMary,
}
