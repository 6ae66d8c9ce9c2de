package ledger

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"voting-registry/internal/store"
)

// InitializeRegistry creates the admin registry singleton with zeroed
// counters. Only the super-admin may call it, and only once.
func (s *Service) InitializeRegistry(caller common.Address) (*AdminRegistry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSuperAdmin(caller); err != nil {
		return nil, err
	}

	reg := &AdminRegistry{SuperAdmin: caller}
	if err := s.store.Create(RegistryAddress(), reg.Encode()); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrRegistryExists
		}
		return nil, err
	}

	s.log.WithField("super_admin", caller.Hex()).Info("Admin registry initialized")
	s.emit(EventRegistryInitialized, map[string]interface{}{
		"super_admin": caller.Hex(),
	})
	return reg, nil
}

// DestroyRegistry removes the registry singleton so the super-admin can
// reinitialize from scratch. Recovery path only; existing admin and election
// records are left in place.
func (s *Service) DestroyRegistry(caller common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSuperAdmin(caller); err != nil {
		return err
	}
	if err := s.store.Destroy(RegistryAddress()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRegistryNotFound
		}
		return err
	}

	s.log.Warning("Admin registry destroyed, reinitialization required")
	return nil
}

// PauseSystem sets the global pause flag. Idempotent.
func (s *Service) PauseSystem(caller common.Address) error {
	return s.setPaused(caller, true)
}

// UnpauseSystem clears the global pause flag. Idempotent.
func (s *Service) UnpauseSystem(caller common.Address) error {
	return s.setPaused(caller, false)
}

func (s *Service) setPaused(caller common.Address, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSuperAdmin(caller); err != nil {
		return err
	}
	reg, err := s.loadRegistry()
	if err != nil {
		return err
	}
	reg.Paused = paused
	if err := s.saveRegistry(reg); err != nil {
		return err
	}

	if paused {
		s.log.Warning("System paused")
		s.emit(EventSystemPaused, nil)
	} else {
		s.log.Info("System unpaused")
		s.emit(EventSystemUnpaused, nil)
	}
	return nil
}

// AddAdmin registers a delegated administrator. One admin record may exist
// per authority; the derived address enforces that.
func (s *Service) AddAdmin(caller, authority common.Address, name string, permissions Permissions) (*Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSuperAdmin(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	if len(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	reg, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}

	admin := &Admin{
		Authority:   authority,
		Name:        name,
		Permissions: permissions,
		AddedBy:     caller,
		AddedAt:     s.clock.Now(),
		IsActive:    true,
	}
	data, err := admin.Encode()
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(AdminAddress(authority), data); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrAdminAlreadyExists
		}
		return nil, err
	}

	reg.AdminCount++
	if err := s.saveRegistry(reg); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"admin":        authority.Hex(),
		"name":         name,
		"total_admins": reg.AdminCount,
	}).Info("Admin added")
	s.emit(EventAdminAdded, map[string]interface{}{
		"authority": authority.Hex(),
		"name":      name,
	})
	return admin, nil
}

// UpdateAdminPermissions overwrites an admin's capability set.
func (s *Service) UpdateAdminPermissions(caller, authority common.Address, permissions Permissions) (*Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSuperAdmin(caller); err != nil {
		return nil, err
	}
	admin, err := s.loadAdmin(authority)
	if err != nil {
		return nil, err
	}
	admin.Permissions = permissions
	if err := s.saveAdmin(admin); err != nil {
		return nil, err
	}

	s.log.WithField("admin", authority.Hex()).Info("Admin permissions updated")
	s.emit(EventAdminUpdated, map[string]interface{}{
		"authority": authority.Hex(),
	})
	return admin, nil
}

// DeactivateAdmin marks an admin inactive. The record stays in place so the
// authority can never be re-registered with fresh history.
func (s *Service) DeactivateAdmin(caller, authority common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireSuperAdmin(caller); err != nil {
		return err
	}
	admin, err := s.loadAdmin(authority)
	if err != nil {
		return err
	}
	if !admin.IsActive {
		return ErrAdminNotActive
	}
	reg, err := s.loadRegistry()
	if err != nil {
		return err
	}

	admin.IsActive = false
	if err := s.saveAdmin(admin); err != nil {
		return err
	}
	if reg.AdminCount > 0 {
		reg.AdminCount--
	}
	if err := s.saveRegistry(reg); err != nil {
		return err
	}

	s.log.WithField("admin", authority.Hex()).Info("Admin deactivated")
	s.emit(EventAdminDeactivated, map[string]interface{}{
		"authority": authority.Hex(),
	})
	return nil
}
