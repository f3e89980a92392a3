package usecase

import (
	"github.com/ekurt/clouddepo/internal/domain/entities"
)

// AccessLevel is the outcome of evaluating ownership, the public flag
// and share grants for a requester against a file.
type AccessLevel string

const (
	AccessOwner  AccessLevel = "owner"
	AccessPublic AccessLevel = "public"
	AccessShared AccessLevel = "shared"
	AccessNone   AccessLevel = "none"
)

// Access is the resolved level plus, for shared access, the grant's
// permission. Every operation dispatches on this value instead of
// re-deriving the rules inline.
type Access struct {
	Level      AccessLevel
	Permission entities.SharePermission
}

// CanDownload reports read access: owner, public, or any share grant.
func (a Access) CanDownload() bool {
	return a.Level != AccessNone
}

// CanUpdateMetadata reports write access to description/tags/visibility:
// the owner, or a grantee holding a write grant. Public visibility never
// conveys it.
func (a Access) CanUpdateMetadata() bool {
	if a.Level == AccessOwner {
		return true
	}
	return a.Level == AccessShared && a.Permission == entities.SharePermissionWrite
}

// CanDelete reports delete rights. Owner-exclusive; a write grant does
// not include it.
func (a Access) CanDelete() bool {
	return a.Level == AccessOwner
}

// CanShare reports the right to create or change grants. Owner-exclusive.
func (a Access) CanShare() bool {
	return a.Level == AccessOwner
}

// ResolveAccess computes the requester's access to a file. It is a pure
// function of the file and grant passed in; callers must fetch both
// fresh for every decision, since visibility and grants change between
// requests. grant is nil when no grant exists for the requester.
func ResolveAccess(file *entities.File, grant *entities.ShareGrant, requesterID int64) Access {
	if file.OwnerID == requesterID {
		return Access{Level: AccessOwner}
	}
	if file.IsPublic {
		return Access{Level: AccessPublic, Permission: entities.SharePermissionRead}
	}
	if grant != nil && grant.FileID == file.ID && grant.GranteeID == requesterID {
		return Access{Level: AccessShared, Permission: grant.Permission}
	}
	return Access{Level: AccessNone}
}
