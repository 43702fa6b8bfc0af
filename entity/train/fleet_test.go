package train_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/randengine"
)

func TestGenerateFleetDeterministic(t *testing.T) {
	a := train.GenerateFleet(randengine.New(42), 10)
	b := train.GenerateFleet(randengine.New(42), 10)
	require.Len(t, a, 10)
	assert.Equal(t, a, b)
}

func TestGenerateFleetRanges(t *testing.T) {
	fleet := train.GenerateFleet(randengine.New(3), 200)
	minSpeed := train.DefaultSafetyModel().MinSpeed
	for i, tr := range fleet {
		assert.Equal(t, int32(i+1), tr.ID)
		assert.GreaterOrEqual(t, tr.Position, 0.)
		assert.Less(t, tr.Position, 5000.)
		assert.GreaterOrEqual(t, tr.Speed, minSpeed)
		assert.Less(t, tr.Speed, train.KmhToMps(120))
		assert.Equal(t, tr.Speed, tr.OriginalSpeed())
	}
}

func TestGenerateFleetSizes(t *testing.T) {
	assert.Empty(t, train.GenerateFleet(randengine.New(1), 0))
	assert.Len(t, train.GenerateFleet(randengine.New(1), -3), train.DefaultFleetSize)
}

func TestParseFleetSize(t *testing.T) {
	assert.Equal(t, 7, train.ParseFleetSize("7"))
	assert.Equal(t, 7, train.ParseFleetSize(" 7 "))
	assert.Equal(t, 0, train.ParseFleetSize("0"))
	assert.Equal(t, train.DefaultFleetSize, train.ParseFleetSize(""))
	assert.Equal(t, train.DefaultFleetSize, train.ParseFleetSize("many"))
}

func TestCloneFleetIsIndependent(t *testing.T) {
	fleet := train.GenerateFleet(randengine.New(5), 3)
	clone := train.CloneFleet(fleet)
	require.Equal(t, fleet, clone)
	clone[0].Speed = 0
	clone[0].Position = -1
	assert.NotEqual(t, fleet[0].Speed, clone[0].Speed)
	assert.NotEqual(t, fleet[0].Position, clone[0].Position)
	assert.Equal(t, fleet[0].OriginalSpeed(), clone[0].OriginalSpeed())
}
