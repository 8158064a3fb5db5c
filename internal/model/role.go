package model

// Role identifies where a page sits in the forum archive hierarchy.
// The role is always known from the traversal position; it is never
// inferred from page content.
type Role int

const (
	// RoleArchive is the archive root that lists every category.
	RoleArchive Role = iota

	// RoleCategory is the first listing page of a category (its base URL).
	RoleCategory

	// RoleThreadListing is a paginated listing page (base-p-n, n >= 2).
	RoleThreadListing

	// RoleThreadDetail is a single thread page holding post messages.
	RoleThreadDetail
)

// String returns the role name used in log output and reports.
func (r Role) String() string {
	switch r {
	case RoleArchive:
		return "archive"
	case RoleCategory:
		return "category"
	case RoleThreadListing:
		return "thread-listing"
	case RoleThreadDetail:
		return "thread-detail"
	default:
		return "unknown"
	}
}
