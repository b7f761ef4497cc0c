package common

// IsSorted is a hint attached to a column. It is never verified against
// the values.
type IsSorted int8

const (
	IsSortedNot IsSorted = iota
	IsSortedAscending
	IsSortedDescending
)

func (s IsSorted) String() string {
	switch s {
	case IsSortedAscending:
		return "ascending"
	case IsSortedDescending:
		return "descending"
	default:
		return "not"
	}
}

// UpdateGatherSortedFlag merges the flag of the gathered column with the
// hint describing the addresses. An ascending hint keeps the source order.
// A descending hint reverses it; the reversed flag is not claimed and the
// result collapses to IsSortedNot.
func UpdateGatherSortedFlag(src, hint IsSorted) IsSorted {
	switch {
	case hint == IsSortedNot, src == IsSortedNot:
		return IsSortedNot
	case hint == IsSortedAscending:
		return src
	default:
		return IsSortedNot
	}
}
