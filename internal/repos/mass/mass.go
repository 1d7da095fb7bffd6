package mass

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"

	"github.com/temirov/grgry/internal/repos/shared"
)

const (
	gitCommandWordConstant            = "git"
	answerYesConstant                 = "y"
	answerNoConstant                  = "n"
	answerMoreConstant                = "m"
	commandRequiredMessageConstant    = "a git command is required"
	parseCommandErrorTemplate         = "failed to parse git command %q: %w"
	shellOperatorErrorTemplate        = "git command %q contains a shell operator; quote it to pass it to git"
	commandWordSeparatorConstant      = " "
	shellSpecialCharactersConstant    = " \t\n'\"\\;&|<>`$()#*?"
	singleQuoteConstant               = "'"
	escapedSingleQuoteConstant        = `'\''`
	locatorRequiredMessageConstant    = "repository locator not configured"
	managerRequiredMessageConstant    = "git repository manager not configured"
	prompterRequiredMessageConstant   = "prompter not configured"
	locateRepositoriesErrorTemplate   = "failed to locate repositories: %w"
	runCommandErrorTemplate           = "git %s failed in %s: %w"
	repositoryFoundMessageTemplate    = "Repository found at: %s\n"
	executeConfirmationPromptTemplate = "Do you want to execute %s? (y/n):"
	commandOutputTemplate             = "%s\n"
	logMessageMassStarted             = "Running git command across repositories"
	logFieldCommandConstant           = "command"
	logFieldRepositoryCountConstant   = "repository_count"
	logFieldSkipInteractiveConstant   = "skip_interactive"
)

var (
	// ErrCommandRequired indicates an empty mass command.
	ErrCommandRequired = errors.New(commandRequiredMessageConstant)
	// ErrLocatorNotConfigured indicates a missing repository locator.
	ErrLocatorNotConfigured = errors.New(locatorRequiredMessageConstant)
	// ErrManagerNotConfigured indicates a missing git manager.
	ErrManagerNotConfigured = errors.New(managerRequiredMessageConstant)
	// ErrPrompterNotConfigured indicates interactive mode without a prompter.
	ErrPrompterNotConfigured = errors.New(prompterRequiredMessageConstant)
)

// SearchOptions selects the local repositories a workflow visits.
type SearchOptions struct {
	RootDirectory   string
	Pattern         string
	Reverse         bool
	SkipInteractive bool
	WorkerCount     int
}

// Dependencies wires the collaborators of the mass and quick workflows.
type Dependencies struct {
	Locator  shared.RepositoryLocator
	Manager  shared.GitRepositoryManager
	Prompter shared.Prompter
	Reporter shared.Reporter
	Logger   *zap.Logger
}

func (dependencies Dependencies) validate(policy shared.ConfirmationPolicy) (Dependencies, error) {
	if dependencies.Locator == nil {
		return dependencies, ErrLocatorNotConfigured
	}
	if dependencies.Manager == nil {
		return dependencies, ErrManagerNotConfigured
	}
	if policy.ShouldPrompt() && dependencies.Prompter == nil {
		return dependencies, ErrPrompterNotConfigured
	}
	if dependencies.Reporter == nil {
		dependencies.Reporter = shared.NewWriterReporter(nil)
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return dependencies, nil
}

// ParseCommand splits a git command line the way a POSIX shell would, dropping a
// leading "git". Quotes group words; no variable or backtick expansion happens.
func ParseCommand(commandLine string) ([]string, error) {
	parser := shellwords.NewParser()
	arguments, parseError := parser.Parse(commandLine)
	if parseError != nil {
		return nil, fmt.Errorf(parseCommandErrorTemplate, commandLine, parseError)
	}
	if parser.Position >= 0 {
		return nil, fmt.Errorf(shellOperatorErrorTemplate, commandLine)
	}
	if len(arguments) > 0 && arguments[0] == gitCommandWordConstant {
		arguments = arguments[1:]
	}
	if len(arguments) == 0 {
		return nil, ErrCommandRequired
	}
	return arguments, nil
}

// JoinCommandWords rebuilds a command line from words a shell already split, single
// quoting every word that ParseCommand would otherwise split, expand or reject.
func JoinCommandWords(words []string) string {
	quotedWords := make([]string, 0, len(words))
	for _, word := range words {
		quotedWords = append(quotedWords, quoteCommandWord(word))
	}
	return strings.Join(quotedWords, commandWordSeparatorConstant)
}

func quoteCommandWord(word string) string {
	if len(word) > 0 && !strings.ContainsAny(word, shellSpecialCharactersConstant) {
		return word
	}
	return singleQuoteConstant + strings.ReplaceAll(word, singleQuoteConstant, escapedSingleQuoteConstant) + singleQuoteConstant
}

// RunMass executes "git -C <repository> <command...>" in every selected repository.
func RunMass(executionContext context.Context, dependencies Dependencies, commandLine string, options SearchOptions) error {
	commandArguments, commandError := ParseCommand(commandLine)
	if commandError != nil {
		return commandError
	}
	policy := shared.ConfirmationPolicyFromSkipInteractive(options.SkipInteractive)
	validated, dependencyError := dependencies.validate(policy)
	if dependencyError != nil {
		return dependencyError
	}

	repositoryPaths, locateError := validated.Locator.Locate(options.RootDirectory, options.Pattern, options.Reverse)
	if locateError != nil {
		return fmt.Errorf(locateRepositoriesErrorTemplate, locateError)
	}
	commandText := strings.Join(commandArguments, commandWordSeparatorConstant)
	validated.Logger.Debug(logMessageMassStarted,
		zap.String(logFieldCommandConstant, commandText),
		zap.Int(logFieldRepositoryCountConstant, len(repositoryPaths)),
		zap.Bool(logFieldSkipInteractiveConstant, options.SkipInteractive),
	)

	approve := func(repositoryPath string) (bool, error) {
		validated.Reporter.Printf(repositoryFoundMessageTemplate, repositoryPath)
		if !policy.ShouldPrompt() {
			return true, nil
		}
		answer, promptError := validated.Prompter.Choose(fmt.Sprintf(executeConfirmationPromptTemplate, commandText), []string{answerYesConstant, answerNoConstant})
		if promptError != nil {
			return false, promptError
		}
		return answer == answerYesConstant, nil
	}

	execute := func(repositoryPath string) error {
		output, runError := validated.Manager.RunCommand(executionContext, repositoryPath, commandArguments)
		trimmedOutput := strings.TrimRight(output, "\n")
		if len(trimmedOutput) > 0 {
			validated.Reporter.Printf(commandOutputTemplate, trimmedOutput)
		}
		if runError != nil {
			return fmt.Errorf(runCommandErrorTemplate, commandText, repositoryPath, runError)
		}
		return nil
	}

	return processWithPolicy(policy, options.WorkerCount, repositoryPaths, approve, execute)
}
