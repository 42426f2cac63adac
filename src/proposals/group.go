package proposals

// GroupByType groups proposals by Type. Groups appear in the order their type
// is first seen and keep the input order of their members. Nil input gives
// nil output.
func GroupByType(items []Proposal) []Group {
	if items == nil {
		return nil
	}
	groups := []Group{}
	index := map[string]int{}
	for _, item := range items {
		i, ok := index[item.Type]
		if !ok {
			i = len(groups)
			index[item.Type] = i
			groups = append(groups, Group{Title: item.Type, Actions: []Proposal{}})
		}
		groups[i].Actions = append(groups[i].Actions, item)
	}
	return groups
}
