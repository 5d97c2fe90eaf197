package domain

import (
	"fmt"
)

// Floor represents a floor number in a building, addressed in [0, F) where
// F is the building's configured floor count.
type Floor int

// NewFloor creates a new Floor with no range validation.
func NewFloor(value int) Floor {
	return Floor(value)
}

// NewFloorWithValidation creates a Floor bound-checked against a building
// with floorCount floors, as required before accepting a new_request (§4.4.5).
func NewFloorWithValidation(value, floorCount int) (Floor, error) {
	if value < 0 || value >= floorCount {
		return Floor(0), NewValidationError(
			fmt.Sprintf("floor %d is outside range [0, %d)", value, floorCount), nil).
			WithContext("floor", value).
			WithContext("floor_count", floorCount)
	}
	return Floor(value), nil
}

// Value returns the integer value of the floor.
func (f Floor) Value() int {
	return int(f)
}

// IsValid reports whether f lies in [minFloor, maxFloor].
func (f Floor) IsValid(minFloor, maxFloor Floor) bool {
	return f >= minFloor && f <= maxFloor
}

// Distance calculates the absolute distance between two floors.
func (f Floor) Distance(other Floor) int {
	diff := int(f) - int(other)
	if diff < 0 {
		return -diff
	}
	return diff
}

// String returns the string representation of the floor.
func (f Floor) String() string {
	return fmt.Sprintf("%d", int(f))
}

// IsAbove reports whether this floor is above another floor.
func (f Floor) IsAbove(other Floor) bool {
	return f > other
}

// IsBelow reports whether this floor is below another floor.
func (f Floor) IsBelow(other Floor) bool {
	return f < other
}

// IsEqual reports whether this floor equals another floor.
func (f Floor) IsEqual(other Floor) bool {
	return f == other
}

// ValidateFloorRange validates that start and end floors make sense as a
// new_request: distinct, and both within [0, floorCount).
func ValidateFloorRange(start, end Floor, floorCount int) error {
	if start == end {
		return NewValidationError("start and end floor must differ", nil).
			WithContext("start_floor", start.Value()).
			WithContext("end_floor", end.Value())
	}

	if start.Value() < 0 || start.Value() >= floorCount {
		return NewValidationError("start floor is outside valid range", nil).
			WithContext("start_floor", start.Value()).
			WithContext("floor_count", floorCount)
	}

	if end.Value() < 0 || end.Value() >= floorCount {
		return NewValidationError("end floor is outside valid range", nil).
			WithContext("end_floor", end.Value()).
			WithContext("floor_count", floorCount)
	}

	return nil
}
