// Package authz holds the access decisions for projects and tasks in one
// place. Handlers and services never compare owner or member IDs themselves;
// they build a ProjectACL snapshot and ask this package.
package authz

import (
	"errors"

	"github.com/projectboard/project-management-api/internal/models"
)

var (
	// ErrForbidden means the principal is authenticated but lacks permission.
	ErrForbidden = errors.New("access denied")
	// ErrCannotRemoveOwner is returned for any attempt to remove the project
	// owner from the team, regardless of who asks.
	ErrCannotRemoveOwner = errors.New("cannot remove project owner")
	// ErrNotTeamMember is returned when a task assignee is not on the team.
	ErrNotTeamMember = errors.New("user is not a team member")
)

// Principal is the authenticated actor performing an action.
type Principal struct {
	ID   uint64
	Role models.UserRole
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Action is a kind of operation evaluated against a project.
type Action int

const (
	// ActionRead covers viewing a project, its tasks and its team, and the
	// member-level task operations (update, delete, assign), which are
	// deliberately open to every team member.
	ActionRead Action = iota
	// ActionUpdate covers mutating the project record itself.
	ActionUpdate
	// ActionDelete covers deleting the project and its tasks.
	ActionDelete
	// ActionManageTeam covers adding and removing team members.
	ActionManageTeam
	// ActionCreateTask covers creating a task in a project. Unlike every
	// other action it carries no admin override: the creator must actually
	// be on the team, role notwithstanding.
	ActionCreateTask
)

// ProjectACL is the snapshot of a project's ownership state that decisions
// are made against. MemberIDs includes the owner.
type ProjectACL struct {
	OwnerID   uint64
	MemberIDs []uint64
}

// ACL builds a ProjectACL from a project with preloaded members. The owner is
// always part of the set even if the membership rows were not loaded.
func ACL(project *models.Project) ProjectACL {
	acl := ProjectACL{OwnerID: project.OwnerID}
	seen := false
	for _, m := range project.Members {
		if m.UserID == project.OwnerID {
			seen = true
		}
		acl.MemberIDs = append(acl.MemberIDs, m.UserID)
	}
	if !seen {
		acl.MemberIDs = append(acl.MemberIDs, project.OwnerID)
	}
	return acl
}

// IsMember reports whether userID is the owner or a team member.
func (a ProjectACL) IsMember(userID uint64) bool {
	if userID == a.OwnerID {
		return true
	}
	for _, id := range a.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CanProject decides whether the principal may perform action on the project
// described by acl. The admin override is evaluated first and passes every
// project-level check, with one exception: ActionCreateTask requires real
// membership from everyone, admins included.
func CanProject(p Principal, acl ProjectACL, action Action) error {
	if action == ActionCreateTask {
		if acl.IsMember(p.ID) {
			return nil
		}
		return ErrForbidden
	}

	if p.IsAdmin() {
		return nil
	}

	switch action {
	case ActionRead:
		if acl.IsMember(p.ID) {
			return nil
		}
	case ActionUpdate, ActionDelete, ActionManageTeam:
		if p.ID == acl.OwnerID {
			return nil
		}
	}

	return ErrForbidden
}

// CanRemoveMember decides whether the principal may remove targetID from the
// team. Removing the owner is invalid for everyone, admins included; that is
// an integrity rule, not a permission.
func CanRemoveMember(p Principal, acl ProjectACL, targetID uint64) error {
	if targetID == acl.OwnerID {
		return ErrCannotRemoveOwner
	}
	return CanProject(p, acl, ActionManageTeam)
}

// CanAssignTask decides whether the principal may assign the task of the
// project described by acl to assigneeID. The actor needs project read
// access; the assignee must already be on the team. The membership rule
// applies to admins too, for the same reason as CanRemoveMember.
func CanAssignTask(p Principal, acl ProjectACL, assigneeID uint64) error {
	if err := CanProject(p, acl, ActionRead); err != nil {
		return err
	}
	if !acl.IsMember(assigneeID) {
		return ErrNotTeamMember
	}
	return nil
}
