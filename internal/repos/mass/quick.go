package mass

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/grgry/internal/gitrepo"
	"github.com/temirov/grgry/internal/profiles"
	"github.com/temirov/grgry/internal/prompt"
	"github.com/temirov/grgry/internal/repos/shared"
)

const (
	commitMessageRequiredConstant   = "a commit message is required"
	profileSourceRequiredConstant   = "profile source not configured"
	quickConfirmationPromptConstant = "Do you want to quicken this repo? (y)es/(n)o/(m)ore information:"
	chooseProfilePromptConstant     = "Choose profile to quicken."
	changesFoundMessageTemplate     = "There are changes in the repository %s\n"
	detailLineTemplate              = "%-10s: %s\n"
	detailURLLabelConstant          = "URL"
	detailBranchLabelConstant       = "Branch"
	diffOutputTemplate              = "%s\n"
	pushedMessageTemplate           = "\nSuccessfully pushed repo into: %s on branch %s\n"
	inspectChangesErrorTemplate     = "failed to inspect changes in %s: %w"
	readRemoteErrorTemplate         = "failed to read the origin URL of %s: %w"
	readBranchErrorTemplate         = "failed to read the current branch of %s: %w"
	describeRepositoryErrorTemplate = "failed to describe %s: %w"
	selectProfileErrorTemplate      = "failed to select a profile for %s: %w"
	identityErrorTemplate           = "failed to set identity in %s: %w"
	stageErrorTemplate              = "failed to stage changes in %s: %w"
	commitErrorTemplate             = "failed to commit in %s: %w"
	remoteBranchErrorTemplate       = "failed to check branch %s on the remote of %s: %w"
	pushErrorTemplate               = "failed to push %s from %s: %w"
	logMessageQuickProfileSelected  = "Selected profile for repository"
	logFieldRepositoryConstant      = "repository"
	logFieldProfileConstant         = "profile"
	logFieldRemoteConstant          = "remote"
	logFieldSetUpstreamConstant     = "set_upstream"
	logMessageQuickPushed           = "Pushed repository"
)

var (
	// ErrCommitMessageRequired indicates an empty quick commit message.
	ErrCommitMessageRequired = errors.New(commitMessageRequiredConstant)
	// ErrProfileSourceNotConfigured indicates quick was started without profiles.
	ErrProfileSourceNotConfigured = errors.New(profileSourceRequiredConstant)
)

// ProfileSource resolves which profile owns a repository remote.
type ProfileSource interface {
	FindProfilesByRemote(remoteURL string) []profiles.Profile
	ActiveProfile() (profiles.Profile, error)
}

// RunQuick commits and pushes pending changes in every selected repository. Clean
// repositories are skipped without prompting or running anything that mutates them.
func RunQuick(executionContext context.Context, dependencies Dependencies, profileSource ProfileSource, commitMessage string, options SearchOptions) error {
	if len(strings.TrimSpace(commitMessage)) == 0 {
		return ErrCommitMessageRequired
	}
	if profileSource == nil {
		return ErrProfileSourceNotConfigured
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

	workflow := quickWorkflow{
		executionContext: executionContext,
		dependencies:     validated,
		profileSource:    profileSource,
		commitMessage:    commitMessage,
		policy:           policy,
	}
	return processWithPolicy(policy, options.WorkerCount, repositoryPaths, workflow.approve, workflow.execute)
}

type quickWorkflow struct {
	executionContext context.Context
	dependencies     Dependencies
	profileSource    ProfileSource
	commitMessage    string
	policy           shared.ConfirmationPolicy
}

func (workflow quickWorkflow) approve(repositoryPath string) (bool, error) {
	hasChanges, statusError := workflow.dependencies.Manager.HasUncommittedChanges(workflow.executionContext, repositoryPath)
	if statusError != nil {
		return false, fmt.Errorf(inspectChangesErrorTemplate, repositoryPath, statusError)
	}
	if !hasChanges {
		return false, nil
	}

	workflow.dependencies.Reporter.Printf(changesFoundMessageTemplate, repositoryPath)
	if !workflow.policy.ShouldPrompt() {
		return true, nil
	}

	for {
		answer, promptError := workflow.dependencies.Prompter.Choose(quickConfirmationPromptConstant, []string{answerYesConstant, answerNoConstant, answerMoreConstant})
		if promptError != nil {
			return false, promptError
		}
		switch answer {
		case answerYesConstant:
			return true, nil
		case answerNoConstant:
			return false, nil
		default:
			if describeError := workflow.describe(repositoryPath); describeError != nil {
				return false, fmt.Errorf(describeRepositoryErrorTemplate, repositoryPath, describeError)
			}
		}
	}
}

// describe shows the pending diff, the origin URL and the current branch.
func (workflow quickWorkflow) describe(repositoryPath string) error {
	diff, diffError := workflow.dependencies.Manager.Diff(workflow.executionContext, repositoryPath)
	if diffError != nil {
		return diffError
	}
	if trimmedDiff := strings.TrimRight(diff, "\n"); len(trimmedDiff) > 0 {
		workflow.dependencies.Reporter.Printf(diffOutputTemplate, trimmedDiff)
	}
	remoteURL, remoteError := workflow.dependencies.Manager.GetRemoteURL(workflow.executionContext, repositoryPath, gitrepo.OriginRemoteNameConstant)
	if remoteError != nil {
		return remoteError
	}
	branchName, branchError := workflow.dependencies.Manager.GetCurrentBranch(workflow.executionContext, repositoryPath)
	if branchError != nil {
		return branchError
	}
	workflow.dependencies.Reporter.Successf(detailLineTemplate, detailURLLabelConstant, remoteURL)
	workflow.dependencies.Reporter.Successf(detailLineTemplate, detailBranchLabelConstant, branchName)
	return nil
}

func (workflow quickWorkflow) execute(repositoryPath string) error {
	executionContext := workflow.executionContext
	manager := workflow.dependencies.Manager

	remoteURL, remoteError := manager.GetRemoteURL(executionContext, repositoryPath, gitrepo.OriginRemoteNameConstant)
	if remoteError != nil {
		return fmt.Errorf(readRemoteErrorTemplate, repositoryPath, remoteError)
	}
	profile, profileError := workflow.selectProfile(remoteURL)
	if profileError != nil {
		return fmt.Errorf(selectProfileErrorTemplate, repositoryPath, profileError)
	}
	workflow.dependencies.Logger.Debug(logMessageQuickProfileSelected,
		zap.String(logFieldRepositoryConstant, repositoryPath),
		zap.String(logFieldRemoteConstant, remoteURL),
		zap.String(logFieldProfileConstant, profile.Name),
	)

	if identityError := manager.SetIdentity(executionContext, repositoryPath, profile.Username, profile.Email); identityError != nil {
		return fmt.Errorf(identityErrorTemplate, repositoryPath, identityError)
	}
	if stageError := manager.StageAll(executionContext, repositoryPath); stageError != nil {
		return fmt.Errorf(stageErrorTemplate, repositoryPath, stageError)
	}
	if commitError := manager.Commit(executionContext, repositoryPath, workflow.commitMessage); commitError != nil {
		return fmt.Errorf(commitErrorTemplate, repositoryPath, commitError)
	}

	branchName, branchError := manager.GetCurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		return fmt.Errorf(readBranchErrorTemplate, repositoryPath, branchError)
	}
	remoteBranchExists, existsError := manager.RemoteBranchExists(executionContext, repositoryPath, branchName)
	if existsError != nil {
		return fmt.Errorf(remoteBranchErrorTemplate, branchName, repositoryPath, existsError)
	}
	setUpstream := !remoteBranchExists
	if pushError := manager.Push(executionContext, repositoryPath, branchName, setUpstream); pushError != nil {
		return fmt.Errorf(pushErrorTemplate, branchName, repositoryPath, pushError)
	}

	workflow.dependencies.Logger.Debug(logMessageQuickPushed,
		zap.String(logFieldRepositoryConstant, repositoryPath),
		zap.Bool(logFieldSetUpstreamConstant, setUpstream),
	)
	workflow.dependencies.Reporter.Successf(pushedMessageTemplate, remoteURL, branchName)
	return nil
}

// selectProfile prefers the single profile matching the remote. Several matches are
// offered to the operator when prompting is allowed; a cancelled choice, no match, or
// several matches without prompting fall back to the active profile.
func (workflow quickWorkflow) selectProfile(remoteURL string) (profiles.Profile, error) {
	matches := workflow.profileSource.FindProfilesByRemote(remoteURL)
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 && workflow.policy.ShouldPrompt() {
		names := make([]string, 0, len(matches))
		for _, match := range matches {
			names = append(names, match.Name)
		}
		selectedIndex, selectError := workflow.dependencies.Prompter.Select(chooseProfilePromptConstant, names)
		if selectError == nil {
			return matches[selectedIndex], nil
		}
		if !errors.Is(selectError, prompt.ErrPromptCancelled) {
			return profiles.Profile{}, selectError
		}
	}
	return workflow.profileSource.ActiveProfile()
}
