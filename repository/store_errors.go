package repository

import (
	"errors"
	"fmt"

	"directum-studio/apperr"
	"directum-studio/storage"
)

// storeError converts an object store failure into a typed engine error
func storeError(what string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.Wrap(apperr.CodeNotFound, fmt.Sprintf("%s not found", what), err)
	}
	return apperr.Upstream(fmt.Sprintf("failed to read %s", what), err)
}
