// Package store provides the content-addressed entity store backing the
// ledger. Records live at deterministically derived addresses; Create is
// create-if-absent, which is the primitive the ledger's at-most-once
// guarantees are built on.
package store

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrAlreadyExists is returned by Create when the address is occupied.
	ErrAlreadyExists = errors.New("record already exists at address")
	// ErrNotFound is returned by Read, Update and Destroy for absent addresses.
	ErrNotFound = errors.New("no record at address")
)

// EntityStore maps derived addresses to encoded records. All operations are
// synchronous and all-or-nothing.
type EntityStore interface {
	// Create materializes a record at an unoccupied address.
	Create(addr common.Hash, data []byte) error
	// Read returns the record at the address.
	Read(addr common.Hash) ([]byte, error)
	// Update applies mutate to the current record atomically.
	Update(addr common.Hash, mutate func([]byte) ([]byte, error)) error
	// Destroy removes the record and reclaims its storage.
	Destroy(addr common.Hash) error
	// Close releases any backing resources.
	Close() error
}
