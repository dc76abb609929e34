package merge

// Aggregator groups extracted files by namespace in first-seen order.
type Aggregator struct {
	order   []string
	buckets map[string][]string
}

func NewAggregator() *Aggregator {
	return &Aggregator{buckets: make(map[string][]string)}
}

func (a *Aggregator) Add(file Extracted) {
	if _, ok := a.buckets[file.Namespace]; !ok {
		a.order = append(a.order, file.Namespace)
	}
	a.buckets[file.Namespace] = append(a.buckets[file.Namespace], file.Lines...)
}

// Merge hoists using lines out of every bucket into one deduplicated list.
// Import order is bucket order, then line order.
func (a *Aggregator) Merge() Merged {
	seen := make(map[string]bool)
	merged := Merged{
		Imports:    make([]string, 0),
		Namespaces: make([]Namespace, 0, len(a.order)),
	}

	for _, name := range a.order {
		members := make([]string, 0, len(a.buckets[name]))
		for _, line := range a.buckets[name] {
			if IsImport(line) {
				if !seen[line] {
					seen[line] = true
					merged.Imports = append(merged.Imports, line)
				}
				continue
			}
			members = append(members, line)
		}
		merged.Namespaces = append(merged.Namespaces, Namespace{Name: name, Lines: members})
	}
	return merged
}
