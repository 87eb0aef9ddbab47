package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const twoEventDocument = `<root>
  <define-fault-tree name="ft">
    <define-gate name="top">
      <formula>
        <and>
          <basic-event name="a"/>
          <basic-event name="b"/>
        </and>
      </formula>
    </define-gate>
  </define-fault-tree>
  <define-basic-event name="a"><float value="0.1"/></define-basic-event>
  <define-basic-event name="b"><float value="0.2"/></define-basic-event>
</root>`

func writeDoc(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "model.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateCmd_WellFormedDocumentExitsZero(t *testing.T) {
	path := writeDoc(t, t.TempDir(), twoEventDocument)

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"validate", path})
	err := cmd.Execute()

	require.NoError(t, err)
	require.Equal(t, 0, exitCode(err))
	require.Contains(t, out.String(), "ok")
}

func TestValidateCmd_MissingFileExitsIOError(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"validate", filepath.Join(t.TempDir(), "missing.xml")})
	err := cmd.Execute()

	require.Error(t, err)
	require.Equal(t, 2, exitCode(err))
}

func TestAnalyzeCmd_PrintsReportToStdout(t *testing.T) {
	path := writeDoc(t, t.TempDir(), twoEventDocument)

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"analyze", "--mission_time", "1", path})
	err := cmd.Execute()

	require.NoError(t, err)
	require.Contains(t, out.String(), "<scram-results>")
	require.Contains(t, out.String(), "top-probability")
}

func TestAnalyzeCmd_WritesReportFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, twoEventDocument)
	reportPath := filepath.Join(dir, "report.xml")

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"analyze", "--report", reportPath, path})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "<scram-results>")
}
