package services

import (
	"sportsevents/models"
)

// Principal is the verified caller. A nil *Principal is an anonymous caller.
type Principal struct {
	UserID uint
	Role   models.Role
}

type Operation string

const (
	OpListGames            Operation = "games.list"
	OpGetGame              Operation = "games.get"
	OpCreateGame           Operation = "games.create"
	OpUpdateGame           Operation = "games.update"
	OpDeleteGame           Operation = "games.delete"
	OpRegister             Operation = "registrations.create"
	OpListOwnRegistrations Operation = "registrations.list_own"
	OpListAllRegistrations Operation = "registrations.list_all"
	OpExportRegistrations  Operation = "registrations.export"
	OpUnregister           Operation = "registrations.delete"
	OpWatchActivity        Operation = "activity.watch"
	OpViewProfile          Operation = "auth.me"
)

// accessRule describes who may perform an operation. An empty roles list with
// public unset means any authenticated caller.
type accessRule struct {
	public       bool
	roles        []models.Role
	ownerOrAdmin bool
}

var accessPolicy = map[Operation]accessRule{
	OpListGames:            {public: true},
	OpGetGame:              {public: true},
	OpCreateGame:           {roles: []models.Role{models.RoleAdmin}},
	OpUpdateGame:           {roles: []models.Role{models.RoleAdmin}},
	OpDeleteGame:           {roles: []models.Role{models.RoleAdmin}},
	OpRegister:             {roles: []models.Role{models.RoleStudent}},
	OpListOwnRegistrations: {roles: []models.Role{models.RoleStudent}},
	OpListAllRegistrations: {roles: []models.Role{models.RoleAdmin}},
	OpExportRegistrations:  {roles: []models.Role{models.RoleAdmin}},
	OpUnregister:           {ownerOrAdmin: true},
	OpWatchActivity:        {roles: []models.Role{models.RoleAdmin}},
	OpViewProfile:          {},
}

// Authorize decides whether p may perform op. ownerID is only consulted for
// owner-scoped operations and is the user id that owns the target record.
// Unknown operations are denied.
func Authorize(p *Principal, op Operation, ownerID uint) error {
	rule, ok := accessPolicy[op]
	if !ok {
		return models.ErrForbidden
	}
	if rule.public {
		return nil
	}
	if p == nil {
		return models.ErrUnauthenticated
	}

	if rule.ownerOrAdmin {
		if p.Role == models.RoleAdmin || p.UserID == ownerID {
			return nil
		}
		return models.ErrForbidden
	}

	if len(rule.roles) == 0 {
		return nil
	}
	for _, role := range rule.roles {
		if p.Role == role {
			return nil
		}
	}
	return models.ErrForbidden
}

// AuthorizeRoute is the check applied before a handler runs. Owner-scoped
// operations only need an authenticated caller here; ownership is decided once
// the target record is loaded.
func AuthorizeRoute(p *Principal, op Operation) error {
	if rule, ok := accessPolicy[op]; ok && rule.ownerOrAdmin {
		if p == nil {
			return models.ErrUnauthenticated
		}
		return nil
	}
	return Authorize(p, op, 0)
}
