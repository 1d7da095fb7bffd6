package mass

import (
	"errors"
	"sync/atomic"

	"github.com/temirov/grgry/internal/distribution"
	"github.com/temirov/grgry/internal/prompt"
	"github.com/temirov/grgry/internal/repos/shared"
)

// Approver decides whether a repository should be acted upon.
type Approver func(repositoryPath string) (bool, error)

// Action acts upon an approved repository.
type Action func(repositoryPath string) error

// ProcessRepositories walks repositories in order, asking approve before running execute.
// A cancelled prompt ends the walk without error. Any other approval error and the first
// action error end it with that error, so no later repository is touched.
func ProcessRepositories(repositoryPaths []string, approve Approver, execute Action) error {
	for _, repositoryPath := range repositoryPaths {
		approved, approvalError := approve(repositoryPath)
		if approvalError != nil {
			if errors.Is(approvalError, prompt.ErrPromptCancelled) {
				return nil
			}
			return approvalError
		}
		if !approved {
			continue
		}
		if actionError := execute(repositoryPath); actionError != nil {
			return actionError
		}
	}
	return nil
}

// processWithPolicy runs sequentially when the operator is prompted and through the
// distribution engine otherwise. A failed action stops the failing worker and keeps
// every other worker from starting another repository.
func processWithPolicy(policy shared.ConfirmationPolicy, workerCount int, repositoryPaths []string, approve Approver, execute Action) error {
	if policy.ShouldPrompt() {
		return ProcessRepositories(repositoryPaths, approve, execute)
	}

	var actionFailed atomic.Bool
	results := distribution.Distribute(workerCount, repositoryPaths, func(_ int, repositoryPath string) (struct{}, distribution.Signal, error) {
		if actionFailed.Load() {
			return struct{}{}, distribution.SignalStop, nil
		}
		approved, approvalError := approve(repositoryPath)
		if approvalError != nil {
			return struct{}{}, distribution.SignalSkip, approvalError
		}
		if !approved {
			return struct{}{}, distribution.SignalSkip, nil
		}
		if actionError := execute(repositoryPath); actionError != nil {
			actionFailed.Store(true)
			return struct{}{}, distribution.SignalStop, actionError
		}
		return struct{}{}, distribution.SignalContinue, nil
	})
	return results.Errors()
}
