package prompt

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/peterh/liner"
)

// IOLineReader reads answers line by line from any reader.
type IOLineReader struct {
	reader *bufio.Reader
	writer io.Writer
	mutex  sync.Mutex
}

// NewIOLineReader constructs a reader over input that echoes prompts to output.
func NewIOLineReader(input io.Reader, output io.Writer) *IOLineReader {
	return &IOLineReader{reader: bufio.NewReader(input), writer: output}
}

// ReadLine writes the prompt and returns the next line. Input that ends before any
// answer cancels the prompt.
func (lineReader *IOLineReader) ReadLine(prompt string) (string, error) {
	lineReader.mutex.Lock()
	defer lineReader.mutex.Unlock()

	if lineReader.writer != nil {
		if _, writeError := io.WriteString(lineReader.writer, prompt); writeError != nil {
			return "", writeError
		}
	}
	response, readError := lineReader.reader.ReadString('\n')
	if readError != nil {
		if errors.Is(readError, io.EOF) && len(response) > 0 {
			return strings.TrimRight(response, "\r\n"), nil
		}
		if errors.Is(readError, io.EOF) {
			return "", ErrPromptCancelled
		}
		return "", readError
	}
	return strings.TrimRight(response, "\r\n"), nil
}

// ReadSecret behaves like ReadLine; plain readers cannot suppress echo.
func (lineReader *IOLineReader) ReadSecret(prompt string) (string, error) {
	return lineReader.ReadLine(prompt)
}

// TerminalLineReader edits answers on an interactive terminal.
type TerminalLineReader struct {
	state *liner.State
}

// NewTerminalLineReader puts the terminal under line-editing control until Close.
func NewTerminalLineReader() *TerminalLineReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &TerminalLineReader{state: state}
}

// ReadLine shows the prompt; Ctrl+C and Ctrl+D cancel it.
func (lineReader *TerminalLineReader) ReadLine(prompt string) (string, error) {
	answer, promptError := lineReader.state.Prompt(prompt)
	return answer, translateTerminalError(promptError)
}

// ReadSecret reads without echo.
func (lineReader *TerminalLineReader) ReadSecret(prompt string) (string, error) {
	answer, promptError := lineReader.state.PasswordPrompt(prompt)
	return answer, translateTerminalError(promptError)
}

// Close restores the terminal mode.
func (lineReader *TerminalLineReader) Close() error {
	return lineReader.state.Close()
}

func translateTerminalError(promptError error) error {
	if promptError == nil {
		return nil
	}
	if errors.Is(promptError, liner.ErrPromptAborted) || errors.Is(promptError, io.EOF) {
		return ErrPromptCancelled
	}
	return promptError
}
