package rules

/*
Conway returns the standard Game of Life rules, B3/S23.

A dead cell with exactly 3 live neighbors is born; a live cell with 2 or 3 survives.
*/
func Conway() RuleSet {
	return RuleSet{Birth: NewCounts(3), Survival: NewCounts(2, 3)}
}
