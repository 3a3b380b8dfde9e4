package services

import "fmt"

// Roster enforces membership invariants for plan and package rosters.
// The creator is implicitly a member: they can neither join nor leave
// through this path. Capacity 0 means unbounded (packages).
type Roster struct {
	CreatorID string
	Capacity  int
}

// Join returns a new member list with userID appended. Fails with
// ErrConflict for the creator or an existing member and ErrFull when
// the roster is at capacity.
func (r Roster) Join(members []string, userID string) ([]string, error) {
	if userID == r.CreatorID {
		return nil, fmt.Errorf("%w: creators are already part of their own roster", ErrConflict)
	}
	for _, m := range members {
		if m == userID {
			return nil, fmt.Errorf("%w: already a member", ErrConflict)
		}
	}
	if r.Capacity > 0 && len(members) >= r.Capacity {
		return nil, ErrFull
	}

	out := make([]string, 0, len(members)+1)
	out = append(out, members...)
	return append(out, userID), nil
}

// Leave returns a new member list with userID removed. Fails with
// ErrForbidden for the creator and ErrNotMember when absent.
func (r Roster) Leave(members []string, userID string) ([]string, error) {
	if userID == r.CreatorID {
		return nil, fmt.Errorf("%w: creators cannot leave their own roster", ErrForbidden)
	}
	idx := indexOfMember(members, userID)
	if idx < 0 {
		return nil, ErrNotMember
	}

	out := make([]string, 0, len(members)-1)
	out = append(out, members[:idx]...)
	return append(out, members[idx+1:]...), nil
}

func indexOfMember(members []string, userID string) int {
	for i, m := range members {
		if m == userID {
			return i
		}
	}
	return -1
}
