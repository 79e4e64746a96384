package index

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter is the tenant-isolation predicate: user_id must match and the
// chunk's document must be in the permitted set. It is built in exactly one
// place per query path so isolation cannot regress silently.
type Filter struct {
	UserID      uuid.UUID
	DocumentIDs []uuid.UUID
}

// TenantFilter builds the filter for one user and the documents that user is
// allowed to read from.
func TenantFilter(userID uuid.UUID, documentIDs []uuid.UUID) Filter {
	return Filter{UserID: userID, DocumentIDs: documentIDs}
}

// Scope applies the filter to a gorm query against the chunks table. An
// empty permitted set matches nothing: a bot with no documents retrieves no
// context rather than all of the user's chunks.
func (f Filter) Scope(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", f.UserID).Where("document_id IN ?", f.DocumentIDs)
}

// Matches is the in-memory equivalent of Scope.
func (f Filter) Matches(userID, documentID uuid.UUID) bool {
	if userID != f.UserID {
		return false
	}
	for _, id := range f.DocumentIDs {
		if id == documentID {
			return true
		}
	}
	return false
}
