package template

// ReconcileResult is the outcome of merging the stored collection with the
// shipped default list.
type ReconcileResult struct {
	Templates []*Template
	// Added holds shipped ids that were appended to the collection
	Added []string
	// Refreshed holds default ids whose content was replaced in place
	Refreshed []string
	// Pruned holds default ids that were dropped, either no longer shipped or
	// taken by a custom template
	Pruned []string
	// Collisions holds shipped ids already taken by a custom template.
	// The custom template wins and the shipped one is not added.
	Collisions []string
}

// Reconcile keeps every custom template untouched, refreshes existing defaults
// to their shipped content, drops defaults that are no longer shipped and
// appends new shipped defaults in shipped order. Surviving entries keep their
// relative order. Neither input is modified.
func Reconcile(existing, shipped []*Template) ReconcileResult {
	shippedByID := make(map[string]*Template, len(shipped))
	for _, s := range shipped {
		if _, dup := shippedByID[s.ID]; !dup {
			shippedByID[s.ID] = s
		}
	}

	// a custom template owns its id wherever it sits in the collection
	custom := make(map[string]bool)
	for _, e := range existing {
		if !e.IsDefault {
			custom[e.ID] = true
		}
	}

	res := ReconcileResult{Templates: make([]*Template, 0, len(existing)+len(shipped))}
	taken := make(map[string]bool, len(existing))

	for _, e := range existing {
		if !e.IsDefault {
			res.Templates = append(res.Templates, e)
			taken[e.ID] = true
			continue
		}

		s, ok := shippedByID[e.ID]
		if !ok || taken[e.ID] || custom[e.ID] {
			res.Pruned = append(res.Pruned, e.ID)
			continue
		}
		res.Templates = append(res.Templates, asDefault(s))
		res.Refreshed = append(res.Refreshed, e.ID)
		taken[e.ID] = true
	}

	for _, s := range shipped {
		if custom[s.ID] {
			res.Collisions = append(res.Collisions, s.ID)
			continue
		}
		if taken[s.ID] {
			continue
		}
		res.Templates = append(res.Templates, asDefault(s))
		res.Added = append(res.Added, s.ID)
		taken[s.ID] = true
	}

	return res
}

// EnsureDefaults returns the reconciled collection, see Reconcile
func EnsureDefaults(existing, shipped []*Template) []*Template {
	return Reconcile(existing, shipped).Templates
}

func asDefault(s *Template) *Template {
	c := s.Clone()
	c.IsDefault = true
	return c
}
