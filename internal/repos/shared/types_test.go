package shared_test

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/grgry/internal/repos/shared"
)

func TestNewBranchName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		input         string
		expected      string
		expectedError error
	}{
		{name: "simple", input: "main", expected: "main"},
		{name: "nested", input: " feature/login ", expected: "feature/login"},
		{name: "rejects_empty", input: " ", expectedError: shared.ErrBranchNameEmpty},
		{name: "rejects_space", input: "my branch", expectedError: shared.ErrBranchNameWhitespace},
		{name: "rejects_tab", input: "my\tbranch", expectedError: shared.ErrBranchNameWhitespace},
		{name: "rejects_option_like", input: "--force", expectedError: shared.ErrBranchNameLeadingDash},
		{name: "rejects_upload_pack", input: "-u/tmp/evil", expectedError: shared.ErrBranchNameLeadingDash},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result, err := shared.NewBranchName(testCase.input)
			if testCase.expectedError != nil {
				require.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expected, result.String())
		})
	}
}

func TestConfirmationPolicyFromSkipInteractive(t *testing.T) {
	require.True(t, shared.ConfirmationPolicyFromSkipInteractive(false).ShouldPrompt())
	require.False(t, shared.ConfirmationPolicyFromSkipInteractive(true).ShouldPrompt())
}

func TestWriterReporterSerializesConcurrentLines(t *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := shared.NewWriterReporter(outputBuffer)

	var waitGroup sync.WaitGroup
	for workerIndex := 0; workerIndex < 8; workerIndex++ {
		waitGroup.Add(1)
		go func(workerIndex int) {
			defer waitGroup.Done()
			reporter.Successf("worker %d done\n", workerIndex)
		}(workerIndex)
	}
	waitGroup.Wait()

	for workerIndex := 0; workerIndex < 8; workerIndex++ {
		require.Contains(t, outputBuffer.String(), fmt.Sprintf("worker %d done\n", workerIndex))
	}
}
