package brume

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	require.Len(t, cfg.Systems, 1)
	assert.Equal(t, DefaultSystemConfig(), cfg.Systems[0])
}

func TestParseConfigSingleSystem(t *testing.T) {
	cfg, err := ParseConfig([]string{"-max", "200", "-rate", "4", "-pos", "1", "-2", "3.5"})
	require.NoError(t, err)
	require.Len(t, cfg.Systems, 1)
	assert.Equal(t, 200, cfg.Systems[0].Max)
	assert.Equal(t, 4, cfg.Systems[0].Rate)
	assert.Equal(t, mgl32.Vec3{1, -2, 3.5}, cfg.Systems[0].Pos)
}

func TestParseConfigMultipleSystems(t *testing.T) {
	cfg, err := ParseConfig([]string{"-max", "100", "g", "-rate", "7"})
	require.NoError(t, err)
	require.Len(t, cfg.Systems, 2)

	assert.Equal(t, 100, cfg.Systems[0].Max)
	assert.Equal(t, DefaultSystemConfig().Rate, cfg.Systems[0].Rate)

	// second block starts from defaults again
	assert.Equal(t, DefaultSystemConfig().Max, cfg.Systems[1].Max)
	assert.Equal(t, 7, cfg.Systems[1].Rate)
}

func TestParseConfigErrors(t *testing.T) {
	cases := []struct {
		name   string
		args   []string
		option string
	}{
		{"non-numeric max", []string{"-max", "lots"}, "-max"},
		{"zero max", []string{"-max", "0"}, "-max"},
		{"negative rate", []string{"-rate", "-3"}, "-rate"},
		{"missing value", []string{"-rate"}, "-rate"},
		{"bad position", []string{"-pos", "1", "up", "3"}, "-pos"},
		{"truncated position", []string{"-pos", "1", "2"}, "-pos"},
		{"unknown option", []string{"--frobnicate"}, "--frobnicate"},
		{"missing mesh file", []string{"-mesh", "/no/such/mesh.obj"}, "-mesh"},
		{"missing texture file", []string{"-texture", "/no/such/tex.png"}, "-texture"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig(tc.args)
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.option, cfgErr.Option)
			assert.Contains(t, err.Error(), tc.option, "message must name the offending option")
		})
	}
}

func TestParseConfigBuiltinMeshNeedsNoFile(t *testing.T) {
	cfg, err := ParseConfig([]string{"-mesh", "cube"})
	require.NoError(t, err)
	assert.Equal(t, MeshCube, cfg.Systems[0].Mesh)
}

func TestConfigString(t *testing.T) {
	cfg, err := ParseConfig([]string{"-max", "42", "g"})
	require.NoError(t, err)
	s := cfg.String()
	assert.Contains(t, s, "System 0:")
	assert.Contains(t, s, "System 1:")
	assert.Contains(t, s, "Max Particles: 42")
	assert.Contains(t, s, "Texture: None")
}
