package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	s, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, Defaults(), s)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scram.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mission_time: 100\nsil: true\n"), 0644))

	s, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, 100.0, s.MissionTime)
	require.True(t, s.SILFlags)
	require.Equal(t, Defaults().Approximation, s.Approximation)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)
	require.Equal(t, Defaults(), s)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scram.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mission_time: 100\n"), 0644))

	t.Setenv("SCRAM_MISSION_TIME", "200")
	s, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, 200.0, s.MissionTime)
}

func TestLoad_FlagOverridesEverything(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scram.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mission_time: 100\n"), 0644))
	t.Setenv("SCRAM_MISSION_TIME", "200")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Float64("mission_time", 0, "")
	require.NoError(t, flags.Set("mission_time", "300"))

	s, err := Load(path, flags)
	require.NoError(t, err)
	require.Equal(t, 300.0, s.MissionTime)
}
