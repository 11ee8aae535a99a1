package permission

import (
	"context"

	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

// RecordSource reads permission rows. A nil row means no grant: all flags
// read as false, never an error.
type RecordSource interface {
	Get(ctx context.Context, userID, moduloID, autarquiaID int64) (*models.UserModulePermission, error)
}

// ModuleSource answers whether a module is enabled for a tenant.
type ModuleSource interface {
	IsActiveForAutarquia(ctx context.Context, moduloID, autarquiaID int64) (bool, error)
}

// Service evaluates permission queries with the superadmin short-circuit.
type Service struct {
	records RecordSource
	modules ModuleSource
}

func NewService(records RecordSource, modules ModuleSource) *Service {
	return &Service{records: records, modules: modules}
}

// Check reports whether the user holds the given capability on the module
// inside the tenant. Superadmins always pass; otherwise the module must be
// enabled for the tenant and the row must exist, be active and carry the
// flag. A disabled module makes existing rows grant nothing.
func (s *Service) Check(ctx context.Context, user *models.User, moduloID, autarquiaID int64, flag Flag) (bool, error) {
	if user.IsSuperadmin {
		return true, nil
	}
	active, err := s.modules.IsActiveForAutarquia(ctx, moduloID, autarquiaID)
	if err != nil {
		return false, err
	}
	if !active {
		return false, nil
	}
	rec, err := s.records.Get(ctx, user.ID, moduloID, autarquiaID)
	if err != nil {
		return false, err
	}
	if rec == nil || !rec.Ativo {
		return false, nil
	}
	return Has(rec.PermissionFlags, flag), nil
}

// Summary is the full flag set of one (user, modulo, autarquia) triple as
// exposed by the check endpoint.
type Summary struct {
	TemAcesso bool                   `json:"tem_acesso"`
	Flags     models.PermissionFlags `json:"-"`
}

// Summarize returns the effective flags for the triple. Superadmins get the
// full set regardless of rows.
func (s *Service) Summarize(ctx context.Context, user *models.User, moduloID, autarquiaID int64) (*Summary, error) {
	if user.IsSuperadmin {
		return &Summary{TemAcesso: true, Flags: AllFlags()}, nil
	}
	active, err := s.modules.IsActiveForAutarquia(ctx, moduloID, autarquiaID)
	if err != nil {
		return nil, err
	}
	if !active {
		return &Summary{}, nil
	}
	rec, err := s.records.Get(ctx, user.ID, moduloID, autarquiaID)
	if err != nil {
		return nil, err
	}
	if rec == nil || !rec.Ativo {
		return &Summary{}, nil
	}
	return &Summary{TemAcesso: rec.PermissionFlags.Any(), Flags: rec.PermissionFlags}, nil
}
