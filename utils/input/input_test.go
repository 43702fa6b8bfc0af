package input_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/config"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/input"
)

func writeFleet(t *testing.T, content string) config.Input {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return config.Input{Fleet: &config.InputPath{File: path}}
}

func TestLoadFleetFromFile(t *testing.T) {
	in := writeFleet(t, `
trains:
  - {id: 1, position: 600, speed: 10}
  - {id: 2, position: 0, speed: 20}
`)
	trains, err := input.LoadFleet(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, trains, 2)
	assert.Equal(t, int32(2), trains[1].ID)
	assert.Equal(t, 0., trains[1].Position)
	assert.Equal(t, 20., trains[1].Speed)
	assert.Equal(t, 20., trains[1].OriginalSpeed())
}

func TestLoadFleetRejectsBadData(t *testing.T) {
	for _, content := range []string{
		"trains:\n  - {id: 1, position: 0, speed: 10}\n  - {id: 1, position: 5, speed: 10}\n",
		"trains:\n  - {id: 1, position: 0, speed: -1}\n",
		"trains:\n  - {id: 1, position: 0, speed: 10, length: 3}\n",
	} {
		_, err := input.LoadFleet(context.Background(), writeFleet(t, content))
		assert.Error(t, err, content)
	}
}

func TestLoadFleetMissing(t *testing.T) {
	_, err := input.LoadFleet(context.Background(), config.Input{})
	assert.Error(t, err)
	_, err = input.LoadFleet(context.Background(), config.Input{Fleet: &config.InputPath{File: "/nonexistent/fleet.yaml"}})
	assert.Error(t, err)
}
