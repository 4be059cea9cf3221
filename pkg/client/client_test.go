package client_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/nanoforge/internal/testutil"
	"github.com/turtacn/nanoforge/pkg/client"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

func TestClient_CompileAndBody(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockLogger()
	c := client.New(client.WithLogger(mock))

	desc, positions := testutil.Adamantane()
	set, err := c.Compile(desc)
	require.NoError(t, err)
	assert.Equal(t, 26, set.Atoms.Count())
	assert.True(t, mock.HasMessage("compile complete"))

	body, err := c.NewRigidBody(forcefield.RigidBodyDescriptor{Parameters: set, Positions: positions})
	require.NoError(t, err)
	assert.Equal(t, 26, body.AtomCount())
	assert.Greater(t, body.Mass(), 0.0)
}

func TestClient_MetricsRecorded(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := client.New(client.WithMetrics(reg))

	desc, _ := testutil.Adamantane()
	_, err := c.Compile(desc)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["nanoforge_compiles_total"])
	assert.True(t, names["nanoforge_compile_duration_seconds"])
	assert.True(t, names["nanoforge_pass_duration_seconds"])
}

func TestClient_FaultMetricOnFailure(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := client.New(client.WithMetrics(reg))

	_, err := c.Compile(testutil.Cyclopropane())
	require.Error(t, err)

	families, gatherErr := reg.Gather()
	require.NoError(t, gatherErr)
	found := false
	for _, f := range families {
		if f.GetName() == "nanoforge_faults_total" {
			found = true
			require.NotEmpty(t, f.GetMetric())
		}
	}
	assert.True(t, found)
}

func TestClient_Merge(t *testing.T) {
	t.Parallel()

	c := client.New()
	descA, _ := testutil.Adamantane()
	descB, _ := testutil.SilaAdamantane()

	a, err := c.Compile(descA)
	require.NoError(t, err)
	b, err := c.Compile(descB)
	require.NoError(t, err)

	merged := c.Merge(a, b)
	assert.Equal(t, 52, merged.Atoms.Count())
	assert.Equal(t, 56, merged.Bonds.Count())

	// Inputs stay untouched.
	assert.Equal(t, 26, a.Atoms.Count())
	assert.Equal(t, 26, b.Atoms.Count())

	// The second half is rebased by the first set's atom count.
	first := merged.Bonds.Indices[a.Bonds.Count()]
	assert.GreaterOrEqual(t, first[0], uint32(26))
}
