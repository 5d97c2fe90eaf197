package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkuranov/elevsim/internal/building"
	"github.com/nkuranov/elevsim/internal/domain"
	"github.com/nkuranov/elevsim/internal/elevatormodel"
)

func elevatorAt(name string, floor int) *elevatormodel.Elevator {
	e := elevatormodel.New(name, domain.NewFloor(0), domain.NewFloor(19), 10)
	e.SetCurrentFloor(domain.NewFloor(floor))
	return e
}

func TestNearestFloorPolicy_ContinuesScanInCurrentDirection(t *testing.T) {
	b := building.New(20)
	b.SetUpButton(domain.NewFloor(10), true)

	e := elevatorAt("A", 3)
	e.SetDirection(domain.DirectionUp)

	action := NearestFloorPolicy{}.Decide(e, []*elevatormodel.Elevator{e}, b)
	require.Equal(t, domain.ActionMove, action.Kind)
	assert.Equal(t, domain.NewFloor(10), action.Target)
}

func TestNearestFloorPolicy_ReversesWhenUpwardScanIsDry(t *testing.T) {
	// Scenario 5 (spec.md §8): moving up with no further up work, but a
	// down hall button exists above the current floor — commit to
	// reversing into it rather than going idle.
	b := building.New(20)
	b.SetDownButton(domain.NewFloor(15), true)

	e := elevatorAt("A", 8)
	e.SetDirection(domain.DirectionUp)

	action := NearestFloorPolicy{}.Decide(e, []*elevatormodel.Elevator{e}, b)
	require.Equal(t, domain.ActionMove, action.Kind)
	assert.Equal(t, domain.NewFloor(15), action.Target)
}

func TestNearestFloorPolicy_IgnoresDownButtonAtOrBelowCurrentFloorWhenReversing(t *testing.T) {
	// The reversal candidate must lie strictly above the elevator (spec.md
	// §4.4.1 step 1); a down button below the current floor does not
	// produce a reversal candidate while still heading up. With no further
	// up work, the nearest-button fallback (step 2) picks the closer up
	// button at 6 rather than the down button at 4 a reversal would take.
	b := building.New(20)
	b.SetDownButton(domain.NewFloor(4), true)
	b.SetUpButton(domain.NewFloor(6), true)

	e := elevatorAt("A", 8)
	e.SetDirection(domain.DirectionUp)

	action := NearestFloorPolicy{}.Decide(e, []*elevatormodel.Elevator{e}, b)
	require.Equal(t, domain.ActionMove, action.Kind)
	assert.Equal(t, domain.NewFloor(6), action.Target)
}

func TestNearestFloorPolicy_IdleAcquiresNearestButton(t *testing.T) {
	b := building.New(20)
	b.SetUpButton(domain.NewFloor(2), true)
	b.SetDownButton(domain.NewFloor(15), true)

	e := elevatorAt("A", 5)

	action := NearestFloorPolicy{}.Decide(e, []*elevatormodel.Elevator{e}, b)
	require.Equal(t, domain.ActionMove, action.Kind)
	assert.Equal(t, domain.NewFloor(2), action.Target) // |5-2|=3 < |5-15|=10
}

func TestNearestFloorPolicy_NoWorkStops(t *testing.T) {
	b := building.New(20)
	e := elevatorAt("A", 5)

	action := NearestFloorPolicy{}.Decide(e, []*elevatormodel.Elevator{e}, b)
	assert.Equal(t, domain.ActionStop, action.Kind)
}

func TestNearestFloorPolicy_PeerAvoidanceByTarget(t *testing.T) {
	b := building.New(20)
	b.SetUpButton(domain.NewFloor(12), true)

	e0 := elevatorAt("A", 0)
	e1 := elevatorAt("B", 10)
	e1.SetTarget(domain.NewFloor(12))

	action := NearestFloorPolicy{}.Decide(e0, []*elevatormodel.Elevator{e0, e1}, b)
	assert.Equal(t, domain.ActionStop, action.Kind)
}

func TestNearestFloorPolicy_PeerAvoidanceByIdleProximity(t *testing.T) {
	// Scenario 4 (spec.md §8): two idle elevators at floors 0 and 10, a
	// single request at floor 12. The elevator at 0 must yield because the
	// elevator at 10 is idle and strictly closer.
	b := building.New(20)
	b.SetDownButton(domain.NewFloor(12), true)

	e0 := elevatorAt("A", 0)
	e1 := elevatorAt("B", 10)

	action0 := NearestFloorPolicy{}.Decide(e0, []*elevatormodel.Elevator{e0, e1}, b)
	assert.Equal(t, domain.ActionStop, action0.Kind)

	action1 := NearestFloorPolicy{}.Decide(e1, []*elevatormodel.Elevator{e0, e1}, b)
	require.Equal(t, domain.ActionMove, action1.Kind)
	assert.Equal(t, domain.NewFloor(12), action1.Target)
}

func TestArriveDirection_ZeroWhenNoButtonsAnywhere(t *testing.T) {
	// spec.md §9 Open Question 1: an elevator landing on its own floor
	// with no button lit anywhere, car or hall, commits to no direction.
	b := building.New(20)
	e := elevatorAt("A", 5)

	dir := arriveDirection(e, b, domain.NewFloor(5), domain.DirectionIdle)
	assert.Equal(t, domain.DirectionIdle, dir)
}

func TestArriveDirection_IdleCarPrefersUpButtonAtOwnFloor(t *testing.T) {
	b := building.New(20)
	b.SetUpButton(domain.NewFloor(5), true)
	e := elevatorAt("A", 5)

	dir := arriveDirection(e, b, domain.NewFloor(5), domain.DirectionIdle)
	assert.Equal(t, domain.DirectionUp, dir)
}

func TestArriveDirection_KeepsDirectionWhenFurtherWorkExistsAhead(t *testing.T) {
	b := building.New(20)
	b.SetUpButton(domain.NewFloor(5), true)
	b.SetUpButton(domain.NewFloor(9), true)
	e := elevatorAt("A", 5)

	dir := arriveDirection(e, b, domain.NewFloor(5), domain.DirectionUp)
	assert.Equal(t, domain.DirectionUp, dir)
}

func TestScanOutwardPolicy_IdleCarPrefersLowestUpFloorEvenIfFarther(t *testing.T) {
	// Unlike NearestFloorPolicy's distance-based tie-break, an idle
	// ScanOutwardPolicy car commits to the lowest pending up floor whenever
	// any exists, regardless of how far it is relative to pending down
	// work (elevator.py's outward-scan idle rule).
	b := building.New(20)
	b.SetUpButton(domain.NewFloor(18), true)
	b.SetDownButton(domain.NewFloor(6), true)

	e := elevatorAt("A", 5)

	action := ScanOutwardPolicy{}.Decide(e, []*elevatormodel.Elevator{e}, b)
	require.Equal(t, domain.ActionMove, action.Kind)
	assert.Equal(t, domain.NewFloor(18), action.Target)
}

func TestScanOutwardPolicy_IdleCarFallsBackToHighestDownFloorWhenNoUpWork(t *testing.T) {
	b := building.New(20)
	b.SetDownButton(domain.NewFloor(6), true)
	b.SetDownButton(domain.NewFloor(14), true)

	e := elevatorAt("A", 5)

	action := ScanOutwardPolicy{}.Decide(e, []*elevatormodel.Elevator{e}, b)
	require.Equal(t, domain.ActionMove, action.Kind)
	assert.Equal(t, domain.NewFloor(14), action.Target)
}

func TestScanOutwardPolicy_IdleCarWithNoPendingWorkArrivesIdle(t *testing.T) {
	b := building.New(20)
	e := elevatorAt("A", 5)

	action := ScanOutwardPolicy{}.Decide(e, []*elevatormodel.Elevator{e}, b)
	require.Equal(t, domain.ActionArrive, action.Kind)
	assert.Equal(t, domain.DirectionIdle, action.Direction)
}

func TestScanOutwardPolicy_IdleCarYieldsToPeerClaimingSameCandidate(t *testing.T) {
	b := building.New(20)
	b.SetUpButton(domain.NewFloor(12), true)

	e0 := elevatorAt("A", 0)
	e1 := elevatorAt("B", 10)
	e1.SetTarget(domain.NewFloor(12))

	action := ScanOutwardPolicy{}.Decide(e0, []*elevatormodel.Elevator{e0, e1}, b)
	assert.Equal(t, domain.ActionStop, action.Kind)
}

func TestScanOutwardPolicy_ArrivesWhenCandidateIsOwnFloor(t *testing.T) {
	b := building.New(20)
	b.SetUpButton(domain.NewFloor(5), true)
	e := elevatorAt("A", 5)

	action := ScanOutwardPolicy{}.Decide(e, []*elevatormodel.Elevator{e}, b)
	require.Equal(t, domain.ActionArrive, action.Kind)
	assert.Equal(t, domain.DirectionUp, action.Direction)
}

func TestScanOutwardPolicy_DelegatesToNearestFloorPolicyWhileMoving(t *testing.T) {
	// Once committed to a direction, ScanOutwardPolicy's scan/reversal
	// behavior is identical to NearestFloorPolicy's (only idle-acquisition
	// differs), so it delegates rather than duplicating that logic.
	b := building.New(20)
	b.SetUpButton(domain.NewFloor(10), true)

	e := elevatorAt("A", 3)
	e.SetDirection(domain.DirectionUp)

	action := ScanOutwardPolicy{}.Decide(e, []*elevatormodel.Elevator{e}, b)
	require.Equal(t, domain.ActionMove, action.Kind)
	assert.Equal(t, domain.NewFloor(10), action.Target)
}
