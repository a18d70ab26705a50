package usecase

import (
	"errors"
	"fmt"

	domrepo "SignalBoard/internal/domain/repository"
)

func wrapUnavailable(err error) error {
	if errors.Is(err, domrepo.ErrBackendUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domrepo.ErrBackendUnavailable, err)
}

func wrapSaveFailed(err error) error {
	if errors.Is(err, domrepo.ErrSaveFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", domrepo.ErrSaveFailed, err)
}
