package task_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
	"github.com/tsinghua-fib-lab/corridor-sim/task"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/randengine"
)

func TestHistoryCompleteness(t *testing.T) {
	opts := task.DefaultOptions()
	fleet := train.GenerateFleet(randengine.New(42), 8)
	for _, run := range []func(task.Options, []*train.Train) *task.Result{
		task.RunPassive, task.RunPredictive, task.RunPreventive,
	} {
		res := run(opts, fleet)
		require.Len(t, res.History, 8)
		for id, h := range res.History {
			assert.Len(t, h, int(opts.Steps), "train %d in %s", id, res.Mode)
			assert.Len(t, res.SpeedHistory[id], int(opts.Steps))
		}
	}
}

func TestHistoryRecordedBeforeMovement(t *testing.T) {
	opts := task.DefaultOptions()
	opts.Steps = 3
	res := task.RunPassive(opts, []*train.Train{train.New(1, 100, 10)})
	assert.Equal(t, []float64{100, 110, 120}, res.History[1])
}

func TestTwoTrainScenario(t *testing.T) {
	opts := task.DefaultOptions()
	// safeGap(20) = 800 > 600
	fleet := []*train.Train{
		train.New(1, 600, 10),
		train.New(2, 0, 20),
	}

	passive := task.RunPassive(opts, fleet)
	require.NotEmpty(t, passive.Events)
	first := passive.Events[0]
	assert.Equal(t, int32(0), first.Step)
	assert.Equal(t, 0., first.FollowerPosition)
	assert.Equal(t, int32(2), first.FollowerID)
	assert.Equal(t, int32(1), first.LeadID)
	assert.Equal(t, 600., first.Gap)
	assert.Equal(t, 800., first.SafeGap)

	preventive := task.RunPreventive(opts, fleet)
	assert.Empty(t, preventive.Events)
	require.GreaterOrEqual(t, len(preventive.Actions), 2)
	assert.Equal(t, task.ActionRecord{
		Step: 0, TrainID: 2, OldSpeed: 20, NewSpeed: math.Sqrt(200), Position: 0,
	}, preventive.Actions[0])
	assert.Equal(t, task.ActionRecord{
		Step: 0, TrainID: 1, OldSpeed: 10, NewSpeed: 10, Position: 600,
	}, preventive.Actions[1])

	// caller's fleet is never mutated
	assert.Equal(t, 20., fleet[1].Speed)
	assert.Equal(t, 0., fleet[1].Position)
}

func TestLeadRecordWithoutCorrection(t *testing.T) {
	opts := task.DefaultOptions()
	opts.Steps = 1
	// gapDiff = 200 => recommended 20, not below current speed 20
	res := task.RunPreventive(opts, []*train.Train{
		train.New(1, 0, 20),
		train.New(2, 700, 10),
	})
	require.Len(t, res.Actions, 1)
	assert.Equal(t, int32(2), res.Actions[0].TrainID)
	assert.False(t, res.Actions[0].IsCorrection())
	assert.Empty(t, res.Summary)
}

func TestZeroGapUsesFloor(t *testing.T) {
	opts := task.DefaultOptions()
	opts.Steps = 1
	res := task.RunPreventive(opts, []*train.Train{
		train.New(1, 250, 30),
		train.New(2, 250, 30),
	})
	require.Len(t, res.Actions, 2)
	assert.Equal(t, int32(1), res.Actions[0].TrainID)
	assert.Equal(t, opts.Safety.MinSpeed, res.Actions[0].NewSpeed)
}

func TestPreventiveSpeedInvariants(t *testing.T) {
	opts := task.DefaultOptions()
	opts.Steps = 120
	fleet := train.GenerateFleet(randengine.New(7), 20)
	res := task.RunPreventive(opts, fleet)
	require.NotEmpty(t, res.Actions)

	minSpeed := opts.Safety.MinSpeed
	for id, speeds := range res.SpeedHistory {
		for i, v := range speeds {
			assert.GreaterOrEqual(t, v, minSpeed, "train %d step %d", id, i)
			if i > 0 {
				assert.LessOrEqual(t, v, speeds[i-1], "train %d step %d", id, i)
			}
		}
	}
	for _, a := range res.Actions {
		assert.LessOrEqual(t, a.NewSpeed, a.OldSpeed)
		assert.GreaterOrEqual(t, a.NewSpeed, minSpeed)
	}
}

func TestEventOrdering(t *testing.T) {
	opts := task.DefaultOptions()
	opts.Steps = 5
	res := task.RunPassive(opts, train.GenerateFleet(randengine.New(11), 15))
	require.NotEmpty(t, res.Events)
	for i := 1; i < len(res.Events); i++ {
		prev, cur := res.Events[i-1], res.Events[i]
		if prev.Step == cur.Step {
			assert.LessOrEqual(t, prev.FollowerPosition, cur.FollowerPosition)
		} else {
			assert.Less(t, prev.Step, cur.Step)
		}
	}
}

func TestEmptyAndSingleFleet(t *testing.T) {
	opts := task.DefaultOptions()
	empty := task.RunPreventive(opts, nil)
	assert.Empty(t, empty.History)
	assert.Empty(t, empty.Actions)
	assert.Empty(t, empty.Summary)

	single := task.RunPassive(opts, []*train.Train{train.New(1, 0, 30)})
	assert.Len(t, single.History[1], int(opts.Steps))
	assert.Empty(t, single.Events)
}
