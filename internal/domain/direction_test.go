package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection_Opposite(t *testing.T) {
	assert.Equal(t, DirectionDown, DirectionUp.Opposite())
	assert.Equal(t, DirectionUp, DirectionDown.Opposite())
	assert.Equal(t, DirectionIdle, DirectionIdle.Opposite())
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "up", DirectionUp.String())
	assert.Equal(t, "down", DirectionDown.String())
	assert.Equal(t, "idle", DirectionIdle.String())
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, DirectionUp, DirectionOf(NewFloor(2), NewFloor(5)))
	assert.Equal(t, DirectionDown, DirectionOf(NewFloor(5), NewFloor(2)))
	assert.Equal(t, DirectionIdle, DirectionOf(NewFloor(5), NewFloor(5)))
}

func TestFloor_Distance(t *testing.T) {
	assert.Equal(t, 3, NewFloor(2).Distance(NewFloor(5)))
	assert.Equal(t, 3, NewFloor(5).Distance(NewFloor(2)))
	assert.Equal(t, 0, NewFloor(5).Distance(NewFloor(5)))
}
