package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/grgry/internal/utils"
)

const (
	testLogMessageConstant = "logger_factory_test_message"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
		expectDebugVisible  bool
	}{
		{
			name:                "debug_structured",
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
			expectDebugVisible:  true,
		},
		{
			name:                "info_structured",
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatStructured,
			expectStructuredLog: true,
		},
		{
			name:               "info_console",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormatConsole,
		},
		{
			name:                "uppercase_names_accepted",
			requestedLogLevel:   utils.LogLevel(" DEBUG "),
			requestedLogFormat:  utils.LogFormat("Structured"),
			expectStructuredLog: true,
			expectDebugVisible:  true,
		},
		{
			name:               "unsupported_log_level",
			requestedLogLevel:  utils.LogLevel("verbose"),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               "unsupported_log_format",
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat("xml"),
			expectError:        true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			loggerFactory := utils.NewLoggerFactory()

			pipeReader, pipeWriter, pipeError := os.Pipe()
			require.NoError(subtest, pipeError)

			originalStderr := os.Stderr
			os.Stderr = pipeWriter
			logger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)
			os.Stderr = originalStderr

			if testCase.expectError {
				require.Error(subtest, creationError)
				require.Nil(subtest, logger)
				require.NoError(subtest, pipeWriter.Close())
				require.NoError(subtest, pipeReader.Close())
				return
			}

			require.NoError(subtest, creationError)
			require.NotNil(subtest, logger)

			logger.Debug(testLogMessageConstant + "_debug")
			logger.Info(testLogMessageConstant)
			syncError := logger.Sync()
			if syncError != nil {
				require.True(subtest, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
			}

			require.NoError(subtest, pipeWriter.Close())
			capturedOutput, readError := io.ReadAll(pipeReader)
			require.NoError(subtest, readError)
			require.NoError(subtest, pipeReader.Close())

			require.Contains(subtest, string(capturedOutput), testLogMessageConstant)
			if testCase.expectDebugVisible {
				require.Contains(subtest, string(capturedOutput), testLogMessageConstant+"_debug")
			} else {
				require.NotContains(subtest, string(capturedOutput), testLogMessageConstant+"_debug")
			}

			lines := bytes.Split(bytes.TrimSpace(capturedOutput), []byte("\n"))
			require.NotEmpty(subtest, lines)
			require.Equal(subtest, testCase.expectStructuredLog, json.Valid(lines[len(lines)-1]))
		})
	}
}

func TestSupportedLogFormats(testInstance *testing.T) {
	require.Equal(testInstance, []string{"structured", "console"}, utils.SupportedLogFormats())
}
