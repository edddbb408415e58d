package planner

import "errors"

var (
	// ErrInvalidLength is returned when a wall length entry is not a finite number greater than zero.
	ErrInvalidLength = errors.New("length must be a number greater than 0")

	// ErrDegenerateWall is returned when a length edit targets a wall whose current length is zero.
	ErrDegenerateWall = errors.New("wall has zero length and cannot be scaled")

	// ErrUnknownEntityType is returned when a placement names a type outside the entity vocabulary.
	ErrUnknownEntityType = errors.New("unknown entity type")

	ErrNotResizable   = errors.New("entity is not resizable")
	ErrEntityFixed    = errors.New("entity is fixed in place")
	ErrNoWallNearby   = errors.New("no wall within tolerance")
	ErrEntityNotFound = errors.New("entity not found")
	ErrWallNotFound   = errors.New("wall not found")
	ErrDesignNotFound = errors.New("design not found")
	ErrRoomNotFound   = errors.New("no room at point")
)

// ErrInvalidDimensions is returned when a resize carries a non-positive or non-finite value.
var ErrInvalidDimensions = errors.New("dimensions must be numbers greater than 0")
