// Package service implements the application operations over the store:
// actor resolution, directory administration, projects, the RFI workflow
// engine, and anonymous client access. Every exported operation resolves to
// the domain error taxonomy so handlers can map outcomes uniformly.
package service

import (
	"errors"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/store"
)

// mapStoreErr translates store sentinels into the domain taxonomy. Anything
// else passes through untouched for the handler's 500 path.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.ErrConflict
	default:
		return err
	}
}
