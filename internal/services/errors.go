package services

import "errors"

var (
	ErrForbidden               = errors.New("action not permitted for this user")
	ErrHouseholdNotFound       = errors.New("household not found")
	ErrRequestNotFound         = errors.New("household request not found")
	ErrRequestNotPending       = errors.New("household request has already been decided")
	ErrDuplicatePendingRequest = errors.New("a pending join request for this household already exists")
	ErrLeaderCannotJoin        = errors.New("a household leader cannot join another household")
	ErrAlreadyLeader           = errors.New("user already leads a household")
	ErrCannotRemoveYourself    = errors.New("cannot remove yourself from the household")
	ErrMemberNotFound          = errors.New("household member not found")
	ErrHazardNotFound          = errors.New("hazard not found")
	ErrHazardResolved          = errors.New("a resolved hazard cannot be reopened")
)
