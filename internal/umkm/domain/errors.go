package domain

import "errors"

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrForbidden          = errors.New("user not authorized to perform this action")
	ErrInvalidListingData = errors.New("invalid listing data")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrDuplicateFavorite  = errors.New("favorite already exists for this user and listing")
	ErrFavoriteNotFound   = errors.New("favorite not found")
	ErrUserNotFound       = errors.New("user not found")
)
