package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/grgry/internal/ui"
)

func TestConsoleReporterUnstyledOutputIsVerbatim(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := ui.NewConsoleReporter(outputBuffer, false)

	reporter.Printf("Repository found at: %s\n", "/srv/code/api")
	reporter.Successf("\nRepository %s successfully cloned!\n", "git@host:team/api.git")
	reporter.Warnf("There is no HEAD branch defined in origin for %s\n", "/srv/code/web")

	require.Equal(testInstance,
		"Repository found at: /srv/code/api\n\nRepository git@host:team/api.git successfully cloned!\nThere is no HEAD branch defined in origin for /srv/code/web\n",
		outputBuffer.String(),
	)
}

func TestConsoleReporterStyledOutputKeepsLineBreaks(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := ui.NewConsoleReporter(outputBuffer, true)

	reporter.Successf("\nFinished cloning repositories: %d cloned\n", 2)

	require.Contains(testInstance, outputBuffer.String(), "Finished cloning repositories: 2 cloned")
	require.True(testInstance, bytes.HasPrefix(outputBuffer.Bytes(), []byte("\n")))
	require.True(testInstance, bytes.HasSuffix(outputBuffer.Bytes(), []byte("\n")))
}

func TestColorEnabledHonoursEnvironment(testInstance *testing.T) {
	testInstance.Setenv("NO_COLOR", "1")
	testInstance.Setenv("FORCE_COLOR", "1")
	require.False(testInstance, ui.ColorEnabled(nil))

	testInstance.Setenv("NO_COLOR", "")
	require.True(testInstance, ui.ColorEnabled(nil))

	testInstance.Setenv("FORCE_COLOR", "")
	require.False(testInstance, ui.ColorEnabled(nil))
}
