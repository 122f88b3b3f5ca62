package services

import (
	"errors"

	"vitour/pkg/utils"
)

func isDomainError(err error) bool {
	return errors.Is(err, utils.ErrNotFound) ||
		errors.Is(err, utils.ErrValidation) ||
		errors.Is(err, utils.ErrReferralCycle)
}
