package duplicates

import "sort"

// Group is a kept image together with the near-duplicates scheduled for
// removal because of it.
type Group struct {
	Keep       string
	Duplicates []Match
}

// Plan is the outcome of resolving a duplicate map.
type Plan struct {
	Total  int      // images considered
	Groups []Group  // ordered by Keep
	Remove []string // every path in Groups' Duplicates, sorted
}

// Unique returns how many images survive the plan.
func (p Plan) Unique() int {
	return p.Total - len(p.Remove)
}

// NewPlan walks images in path order. The first image of each cluster that is
// not already scheduled for removal is kept, and its near-duplicates are
// scheduled for removal unless they were kept earlier. Duplicates are listed
// once, under the first image that claimed them.
func NewPlan(dups map[string][]Match) Plan {
	paths := make([]string, 0, len(dups))
	for p := range dups {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	remove := make(map[string]bool)
	kept := make(map[string]bool)
	plan := Plan{Total: len(paths)}

	for _, p := range paths {
		if remove[p] || len(dups[p]) == 0 {
			continue
		}

		kept[p] = true
		group := Group{Keep: p}
		for _, m := range dups[p] {
			if m.Key == p || remove[m.Key] || kept[m.Key] {
				continue
			}
			remove[m.Key] = true
			group.Duplicates = append(group.Duplicates, m)
		}
		// Every near-duplicate was claimed already; nothing new to report.
		if len(group.Duplicates) == 0 {
			continue
		}
		plan.Groups = append(plan.Groups, group)
	}

	plan.Remove = make([]string, 0, len(remove))
	for p := range remove {
		plan.Remove = append(plan.Remove, p)
	}
	sort.Strings(plan.Remove)
	return plan
}
