package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	promptCancelledMessageConstant  = "prompt cancelled"
	noOptionsMessageConstant        = "no options to select from"
	choicePromptTemplate            = "%s "
	invalidChoiceMessageTemplate    = "Invalid argument %s. Please enter %s\n"
	choiceSeparatorConstant         = "', '"
	choiceQuoteConstant             = "'"
	choiceFinalSeparatorConstant    = " or "
	selectOptionTemplate            = "  %d) %s\n"
	selectPromptTemplate            = "Enter a number (1-%d): "
	invalidSelectionMessageTemplate = "Invalid selection %q. Please enter a number between 1 and %d\n"
	inputPromptTemplate             = "%s: "
	inputWithDefaultPromptTemplate  = "%s [%s]: "
	firstOptionNumberConstant       = 1
)

var (
	// ErrPromptCancelled is returned when the operator aborts a prompt or input ends.
	ErrPromptCancelled = errors.New(promptCancelledMessageConstant)
	// ErrNoOptions is returned by Select when there is nothing to choose.
	ErrNoOptions = errors.New(noOptionsMessageConstant)
)

// LineReader reads one answer after showing a prompt.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	ReadSecret(prompt string) (string, error)
}

// Prompter asks questions through a LineReader and writes guidance to output.
type Prompter struct {
	reader LineReader
	output io.Writer
}

// New builds a Prompter over an arbitrary LineReader.
func New(reader LineReader, output io.Writer) *Prompter {
	if output == nil {
		output = os.Stdout
	}
	return &Prompter{reader: reader, output: output}
}

// NewForTerminal uses line editing when both input and output are terminals and plain
// buffered reads otherwise.
func NewForTerminal(input *os.File, output *os.File) *Prompter {
	if input != nil && output != nil && term.IsTerminal(int(input.Fd())) && term.IsTerminal(int(output.Fd())) {
		return New(NewTerminalLineReader(), output)
	}
	return New(NewIOLineReader(input, output), output)
}

// Close releases the terminal when the reader holds one.
func (prompter *Prompter) Close() error {
	if closer, closable := prompter.reader.(io.Closer); closable {
		return closer.Close()
	}
	return nil
}

// Choose repeats the question until one of allowedAnswers is given, case-insensitively.
// The answer is returned lowercased.
func (prompter *Prompter) Choose(message string, allowedAnswers []string) (string, error) {
	for {
		answer, readError := prompter.reader.ReadLine(fmt.Sprintf(choicePromptTemplate, message))
		if readError != nil {
			return "", readError
		}
		normalizedAnswer := strings.ToLower(strings.TrimSpace(answer))
		for _, allowedAnswer := range allowedAnswers {
			if normalizedAnswer == strings.ToLower(allowedAnswer) {
				return normalizedAnswer, nil
			}
		}
		fmt.Fprintf(prompter.output, invalidChoiceMessageTemplate, normalizedAnswer, describeAllowedAnswers(allowedAnswers))
	}
}

// Select lists options with 1-based numbers and returns the zero-based index chosen.
func (prompter *Prompter) Select(message string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, ErrNoOptions
	}
	fmt.Fprintln(prompter.output, message)
	for optionIndex, option := range options {
		fmt.Fprintf(prompter.output, selectOptionTemplate, optionIndex+firstOptionNumberConstant, option)
	}
	for {
		answer, readError := prompter.reader.ReadLine(fmt.Sprintf(selectPromptTemplate, len(options)))
		if readError != nil {
			return 0, readError
		}
		trimmedAnswer := strings.TrimSpace(answer)
		selectedNumber, parseError := strconv.Atoi(trimmedAnswer)
		if parseError == nil && selectedNumber >= firstOptionNumberConstant && selectedNumber <= len(options) {
			return selectedNumber - firstOptionNumberConstant, nil
		}
		fmt.Fprintf(prompter.output, invalidSelectionMessageTemplate, trimmedAnswer, len(options))
	}
}

// Input reads free text and falls back to defaultValue on an empty answer.
func (prompter *Prompter) Input(message string, defaultValue string) (string, error) {
	promptText := fmt.Sprintf(inputPromptTemplate, message)
	if len(defaultValue) > 0 {
		promptText = fmt.Sprintf(inputWithDefaultPromptTemplate, message, defaultValue)
	}
	answer, readError := prompter.reader.ReadLine(promptText)
	if readError != nil {
		return "", readError
	}
	trimmedAnswer := strings.TrimSpace(answer)
	if len(trimmedAnswer) == 0 {
		return defaultValue, nil
	}
	return trimmedAnswer, nil
}

// Secret reads a value without echoing it where the terminal allows.
func (prompter *Prompter) Secret(message string) (string, error) {
	answer, readError := prompter.reader.ReadSecret(fmt.Sprintf(inputPromptTemplate, message))
	if readError != nil {
		return "", readError
	}
	return strings.TrimSpace(answer), nil
}

func describeAllowedAnswers(allowedAnswers []string) string {
	if len(allowedAnswers) == 1 {
		return choiceQuoteConstant + allowedAnswers[0] + choiceQuoteConstant
	}
	leading := strings.Join(allowedAnswers[:len(allowedAnswers)-1], choiceSeparatorConstant)
	return choiceQuoteConstant + leading + choiceQuoteConstant + choiceFinalSeparatorConstant + choiceQuoteConstant + allowedAnswers[len(allowedAnswers)-1] + choiceQuoteConstant
}
