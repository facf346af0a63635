package services

import (
	"errors"
	"fmt"

	"github.com/akinalp/mqvi-bans/pkg"
)

// domainErrors, client'a olduğu gibi dönen error'lar.
var domainErrors = []error{
	pkg.ErrBadRequest,
	pkg.ErrForbidden,
	pkg.ErrNotFound,
	pkg.ErrAlreadyExists,
	pkg.ErrUnknownBan,
	pkg.ErrUnknownUser,
	pkg.ErrCollaborator,
}

// storageErr, domain error olmayan depolama hatalarını (begin/commit dahil)
// pkg.ErrCollaborator ile sarar.
func storageErr(op string, err error) error {
	for _, domain := range domainErrors {
		if errors.Is(err, domain) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %v", pkg.ErrCollaborator, op, err)
}
