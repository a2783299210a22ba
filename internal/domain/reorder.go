package domain

// SwapCategories exchanges the categories at positions i and j.
// Out of range indexes leave the configuration unchanged.
func SwapCategories(cfg Configuration, i, j int) Configuration {
	next := cfg.Clone()
	if !inRange(i, len(next.Categories)) || !inRange(j, len(next.Categories)) {
		return next
	}
	next.Categories[i], next.Categories[j] = next.Categories[j], next.Categories[i]
	return next
}

// SwapItems exchanges items i and j of the first category named categoryName.
func SwapItems(cfg Configuration, categoryName string, i, j int) Configuration {
	next := cfg.Clone()
	c := indexOfCategory(next.Categories, categoryName)
	if c < 0 {
		return next
	}
	items := next.Categories[c].Items
	if !inRange(i, len(items)) || !inRange(j, len(items)) {
		return next
	}
	items[i], items[j] = items[j], items[i]
	return next
}

// MoveCategory moves the first category named name by delta positions
// (negative is towards the top). Every other category keeps its relative
// order. Moves that would leave the sequence are ignored.
func MoveCategory(cfg Configuration, name string, delta int) Configuration {
	next := cfg.Clone()
	from := indexOfCategory(next.Categories, name)
	if from < 0 || delta == 0 || !inRange(from+delta, len(next.Categories)) {
		return next
	}
	next.Categories = move(next.Categories, from, from+delta)
	return next
}

// MoveItem moves the first item named itemName inside the first category
// named categoryName by delta positions.
func MoveItem(cfg Configuration, categoryName, itemName string, delta int) Configuration {
	next := cfg.Clone()
	c := indexOfCategory(next.Categories, categoryName)
	if c < 0 {
		return next
	}
	items := next.Categories[c].Items
	from := indexOfItem(items, itemName)
	if from < 0 || delta == 0 || !inRange(from+delta, len(items)) {
		return next
	}
	next.Categories[c].Items = move(items, from, from+delta)
	return next
}

// move relocates s[from] to index to by successive adjacent swaps.
// s is modified in place; callers pass a slice they own.
func move[T any](s []T, from, to int) []T {
	for from < to {
		s[from], s[from+1] = s[from+1], s[from]
		from++
	}
	for from > to {
		s[from], s[from-1] = s[from-1], s[from]
		from--
	}
	return s
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
