package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-wearables/core"
)

const fixtureYAML = "testdata/integrations.yaml"

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func decodeData(t *testing.T, raw string, target any) {
	t.Helper()
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope))
	require.Equal(t, "ok", envelope.Status)
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}

func providerIDs(list []core.WearableIntegration) []string {
	ids := make([]string, 0, len(list))
	for _, item := range list {
		ids = append(ids, item.ProviderID)
	}
	return ids
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := []string{}
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"sort", "assignments", "options", "names"}, names)

	for _, flag := range []string{"verbose", "format", "config", "legacy-sort"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := executeRoot(t, "--format", "xml", "sort", fixtureYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSortCommand_DefaultOrderJSON(t *testing.T) {
	out, _, err := executeRoot(t, "--format", "json", "sort", fixtureYAML)
	require.NoError(t, err)

	var sorted []core.WearableIntegration
	decodeData(t, out, &sorted)
	assert.Equal(t, []string{"garmin-1", "oura-1", "polar-1", "withings-1"}, providerIDs(sorted))
}

func TestSortCommand_LegacyOrderText(t *testing.T) {
	out, _, err := executeRoot(t, "--legacy-sort", "sort", fixtureYAML)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "PROVIDER"))
	assert.True(t, strings.HasPrefix(lines[1], "withings-1"))
	assert.Contains(t, lines[1], "NeedsAuthorization")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), "!"))
	assert.True(t, strings.HasPrefix(lines[4], "garmin-1"))
}

func TestSortCommand_LegacyFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wearables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("legacy_sort: true\n"), 0o600))

	out, _, err := executeRoot(t, "--format", "json", "--config", path, "sort", fixtureYAML)
	require.NoError(t, err)

	var sorted []core.WearableIntegration
	decodeData(t, out, &sorted)
	require.NotEmpty(t, sorted)
	assert.Equal(t, "withings-1", sorted[0].ProviderID)
}

func TestSortCommand_MissingFile(t *testing.T) {
	out, _, err := executeRoot(t, "sort", "testdata/missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E001]")
}

func TestSortCommand_MissingConfigFile(t *testing.T) {
	out, _, err := executeRoot(t, "--format", "json", "--config", "testdata/nope.yaml", "sort", fixtureYAML)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `"code":"E002"`)
}

func TestAssignmentsCommand_JSON(t *testing.T) {
	out, _, err := executeRoot(t, "--format", "json", "assignments", fixtureYAML)
	require.NoError(t, err)

	var result AssignmentsResult
	decodeData(t, out, &result)
	assert.Equal(t, core.SyncTypeSettings{
		core.SyncTypeSleepAnalysis: "oura-1",
		core.SyncTypeHeartRate:     "polar-1",
		core.SyncTypeWorkout:       core.SyncTypeNone,
		core.SyncTypeBodyMass:      core.SyncTypeNone,
	}, result.Assignments)
	assert.Equal(t, []string{"oura-1", "polar-1"}, result.Conflicts[core.SyncTypeHeartRate])
}

func TestAssignmentsCommand_TextAndVerbose(t *testing.T) {
	out, errOut, err := executeRoot(t, "-v", "assignments", fixtureYAML)
	require.NoError(t, err)

	assert.Contains(t, out, "Heart Rate")
	assert.Contains(t, out, "[oura-1 polar-1]")
	assert.Contains(t, errOut, "conflict on heartRate")
	assert.NotContains(t, out, "steps")
}

func TestAssignmentsCommand_BadLanguage(t *testing.T) {
	_, _, err := executeRoot(t, "assignments", "--lang", "not a tag!", fixtureYAML)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOptionsCommand_MarksCurrentOwner(t *testing.T) {
	out, _, err := executeRoot(t, "options", fixtureYAML)
	require.NoError(t, err)

	assert.Contains(t, out, "heartRate:\n    Oura (oura-1)\n  * Polar (polar-1)\n    Do not sync (none)\n")
	assert.Contains(t, out, "workout:\n    Polar (polar-1)\n  * Do not sync (none)\n")
}

func TestOptionsCommand_JSON(t *testing.T) {
	out, _, err := executeRoot(t, "--format", "json", "options", fixtureYAML)
	require.NoError(t, err)

	var options core.SyncTypeOptions
	decodeData(t, out, &options)
	heartRate := options[core.SyncTypeHeartRate]
	require.Len(t, heartRate, 3)
	assert.True(t, heartRate[2].IsNone())
	_, hasSteps := options[core.SyncTypeSteps]
	assert.False(t, hasSteps)
}

func TestNamesCommand(t *testing.T) {
	out, _, err := executeRoot(t, "--format", "json", "names", "--lang", "de", fixtureYAML)
	require.NoError(t, err)

	var names map[core.SyncType]string
	decodeData(t, out, &names)
	assert.Equal(t, "Heart Rate", names[core.SyncTypeHeartRate])
	assert.Equal(t, "Weight", names[core.SyncTypeBodyMass])
	assert.Equal(t, "Steps", names[core.SyncTypeSteps])
	assert.Len(t, names, 5)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "load", assert.AnError)))
}
