package orders

// MergeRemote returns the fetched orders whose identifiers are not already in
// the existing list, in fetch order, ready to be prepended by the caller.
//
// Equality is by identifier only: re-fetching the same remote order never
// duplicates it, even when its content changed between fetches; the
// first-seen version wins. Duplicates inside one batch are dropped the same
// way.
func MergeRemote(existing, fetched []*MedicalOrder) []*MedicalOrder {
	seen := make(map[string]bool, len(existing))
	for _, o := range existing {
		seen[o.ID] = true
	}

	var added []*MedicalOrder
	for _, o := range fetched {
		if seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		added = append(added, o)
	}
	return added
}
