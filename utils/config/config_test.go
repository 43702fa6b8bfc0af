package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/config"
)

func TestEmptyConfigUsesDefaults(t *testing.T) {
	c, err := config.Parse(nil)
	require.NoError(t, err)
	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)

	assert.Equal(t, int32(50), rc.C.Step.Total)
	assert.Equal(t, 1., rc.C.Step.Interval)
	assert.Equal(t, train.DefaultFleetSize, rc.C.Fleet.Size)
	assert.Equal(t, uint64(42), rc.Seed)
	assert.Equal(t, train.DefaultSafetyModel(), rc.Safety)
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
control:
  step:
    total: 20
    interval: 0.5
  fleet:
    size: 8
    seed: 0
  safety:
    deceleration: 0.8
    safe_distance: 300
    min_speed_kmh: 10
output:
  sqlite: runs.db
server:
  listen: ":8080"
`)
	c, err := config.Parse(data)
	require.NoError(t, err)
	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)

	assert.Equal(t, int32(20), rc.C.Step.Total)
	assert.Equal(t, .5, rc.C.Step.Interval)
	assert.Equal(t, 8, rc.C.Fleet.Size)
	assert.Equal(t, uint64(0), rc.Seed)
	assert.Equal(t, .8, rc.Safety.Deceleration)
	assert.Equal(t, 5., rc.Safety.ReactionTime)
	assert.Equal(t, 300., rc.Safety.SafeDistance)
	assert.InDelta(t, 10./3.6, rc.Safety.MinSpeed, 1e-12)
	assert.Equal(t, "runs.db", rc.All.Output.SQLite)
	assert.Equal(t, ":8080", rc.All.Server.Listen)
}

func TestUnknownFieldRejected(t *testing.T) {
	_, err := config.Parse([]byte("control:\n  steps: 3\n"))
	assert.Error(t, err)
}

func TestInvalidValuesRejected(t *testing.T) {
	for _, data := range []string{
		"control:\n  step:\n    total: -1\n",
		"control:\n  step:\n    interval: -2\n",
		"control:\n  safety:\n    deceleration: -1\n",
		"input:\n  fleet:\n    db: corridor\n    col: fleet\n",
	} {
		c, err := config.Parse([]byte(data))
		require.NoError(t, err, data)
		_, err = config.NewRuntimeConfig(c)
		assert.Error(t, err, data)
	}
}
