package ledger

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// requireSuperAdmin authorizes operations reserved for the super-admin
// identity. Checked against the configured identity, not the registry, so it
// also covers registry initialization.
func (s *Service) requireSuperAdmin(caller common.Address) error {
	if caller != s.superAdmin {
		return ErrUnauthorized
	}
	return nil
}

// requireCapability authorizes a delegated admin for a single capability.
// A missing admin record is reported as Unauthorized, not NotFound: callers
// without a record simply are not admins.
func (s *Service) requireCapability(caller common.Address, c Capability) (*Admin, error) {
	admin, err := s.loadAdmin(caller)
	if errors.Is(err, ErrAdminNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrAdminNotActive
	}
	if !admin.Permissions.Has(c) {
		return nil, ErrInsufficientPermissions
	}
	return admin, nil
}

// requireVoterManager authorizes the direct voter-add path: the super-admin
// passes unconditionally, everyone else needs an active admin record with
// the manage-voters capability. The super-admin bypass is a distinct branch
// checked first, never folded into the bitmask.
func (s *Service) requireVoterManager(caller common.Address) error {
	if caller == s.superAdmin {
		return nil
	}
	_, err := s.requireCapability(caller, CapManageVoters)
	return err
}

// requireNotPaused gates every mutating operation except the super-admin's
// own registry management.
func (s *Service) requireNotPaused(reg *AdminRegistry) error {
	if reg.Paused {
		return ErrSystemPaused
	}
	return nil
}
