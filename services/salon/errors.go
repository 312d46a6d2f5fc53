package salon

import (
	"errors"
	"strings"
)

var (
	ErrForbidden        = errors.New("not allowed to manage this salon")
	ErrImagesDisabled   = errors.New("image storage is not configured")
	ErrImageNotFound    = errors.New("image not found in gallery")
	ErrOwnerNotApproved = errors.New("salon owner account is not approved")
)

// ValidationError lists every problem found in a salon payload.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid salon: " + strings.Join(e.Problems, "; ")
}
