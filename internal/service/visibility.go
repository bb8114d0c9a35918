package service

// VisibleTo is the one group-visibility rule for missions, prizes and posts:
// content with no group links is public; restricted content is visible only
// when the user's group is among the links. A user without a group sees
// public content only.
func VisibleTo(contentGroupIDs []uint, userGroupID *uint) bool {
	if len(contentGroupIDs) == 0 {
		return true
	}
	if userGroupID == nil {
		return false
	}

	for _, id := range contentGroupIDs {
		if id == *userGroupID {
			return true
		}
	}

	return false
}
