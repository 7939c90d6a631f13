// Package domain defines the caller identity handed to the token engine by the
// upstream authentication layer.
package domain

// Group is one group membership of a caller. ID is the raw identifier as the
// directory reports it; ResolvedName is its display name used for role matching.
type Group struct {
	ID           string
	ResolvedName string
}

// Identity is an already-authenticated caller. It is produced per request and
// never persisted.
type Identity struct {
	SubjectName string
	// SecurityID is the primary security identifier of the subject, empty when
	// the upstream layer does not supply one.
	SecurityID string
	Groups     []Group
}

// GroupIDs returns the raw group identifiers in membership order.
func (i *Identity) GroupIDs() []string {
	ids := make([]string, 0, len(i.Groups))
	for _, g := range i.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}
