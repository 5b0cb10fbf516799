package auth

// Authorization rules for mutating operations. Each predicate is pure:
// it looks only at the principal and the owner of the target resource.

// CanCreatePost allows only admins to create posts
func CanCreatePost(p Principal) bool {
	return p.IsAdmin()
}

// CanMutatePost allows post update and delete only when the principal
// owns the post and is an admin. Both are required: a non-admin owner
// cannot mutate, and an admin cannot mutate someone else's post.
func CanMutatePost(p Principal, ownerID int64) bool {
	return p.UserID == ownerID && p.IsAdmin()
}

// CanMutateComment allows comment update and delete only for the
// comment's author, regardless of role.
func CanMutateComment(p Principal, authorID int64) bool {
	return p.UserID == authorID
}

// CanDeleteShare allows share removal only for the share's creator
func CanDeleteShare(p Principal, creatorID int64) bool {
	return p.UserID == creatorID
}

// CanSendBroadcast allows only admins to trigger push broadcasts
func CanSendBroadcast(p Principal) bool {
	return p.IsAdmin()
}
