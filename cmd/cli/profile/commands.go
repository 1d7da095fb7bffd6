package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/grgry/internal/profiles"
	"github.com/temirov/grgry/internal/providers"
)

const (
	activateUseConstant           = "activate"
	activateShortDescription      = "Activate a profile to use"
	activatePromptConstant        = "Choose profile to activate:"
	activatedMessageTemplate      = "Activated profile is: %s\n"
	deleteUseConstant             = "delete"
	deleteShortDescription        = "Remove an unused or wrong profile"
	deletePromptConstant          = "Which profile do you want to delete?"
	deletedMessageTemplate        = "Deleted profile %s\n"
	addUseConstant                = "add"
	addShortDescription           = "Add a profile interactively"
	addedMessageTemplate          = "Added profile %s\n"
	requiredFieldMessageConstant  = "This field is required\n"
	profileNamePromptConstant     = "profile name (e.g. GitHub work)"
	targetBasePathPromptConstant  = "target base path (where repositories are cloned, e.g. ~/repos)"
	userNamePromptConstant        = "user name (shown in commits)"
	userEmailPromptConstant       = "user email (shown in commits)"
	providerPromptConstant        = "choose provider"
	pullOptionPromptConstant      = "choose pull option"
	baseAddressPromptTemplate     = "base address (e.g. %s)"
	tokenPromptConstant           = "token (empty: only public repositories can be cloned): "
	activateNewPromptConstant     = "Do you want to activate the profile? (y/n):"
	answerYesConstant             = "y"
	answerNoConstant              = "n"
	gitHubBaseAddressExample      = "https://api.github.com"
	gitLabBaseAddressExample      = "https://gitlab.com"
	profileValidationErrorMessage = "profile was not added"
)

func (builder *CommandBuilder) buildActivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   activateUseConstant,
		Short: activateShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := builder.loadStore()
			if storeError != nil {
				return storeError
			}
			prompter, releasePrompter := builder.resolvePrompter(command)
			defer releasePrompter()

			profileName, selectError := selectProfileName(prompter, store, activatePromptConstant)
			if selectError != nil {
				return selectError
			}
			if activateError := store.Activate(profileName); activateError != nil {
				return activateError
			}
			if saveError := builder.saveStore(store, profileName); saveError != nil {
				return saveError
			}
			builder.resolveReporter(command).Successf(activatedMessageTemplate, profileName)
			return nil
		},
	}
}

func (builder *CommandBuilder) buildDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   deleteUseConstant,
		Short: deleteShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := builder.loadStore()
			if storeError != nil {
				return storeError
			}
			prompter, releasePrompter := builder.resolvePrompter(command)
			defer releasePrompter()

			profileName, selectError := selectProfileName(prompter, store, deletePromptConstant)
			if selectError != nil {
				return selectError
			}
			if deleteError := store.Delete(profileName); deleteError != nil {
				return deleteError
			}
			if saveError := builder.saveStore(store, profileName); saveError != nil {
				return saveError
			}
			builder.resolveReporter(command).Successf(deletedMessageTemplate, profileName)
			return nil
		},
	}
}

func (builder *CommandBuilder) buildAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   addUseConstant,
		Short: addShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := builder.loadStore()
			if storeError != nil {
				return storeError
			}
			prompter, releasePrompter := builder.resolvePrompter(command)
			defer releasePrompter()
			reporter := builder.resolveReporter(command)

			newProfile, activate, collectError := collectProfile(prompter, func() { reporter.Warnf(requiredFieldMessageConstant) })
			if collectError != nil {
				return collectError
			}
			if addError := store.Add(newProfile, activate); addError != nil {
				var existsError profiles.ProfileExistsError
				if errors.As(addError, &existsError) {
					return addError
				}
				return fmt.Errorf("%s: %w", profileValidationErrorMessage, addError)
			}
			if saveError := builder.saveStore(store, newProfile.Name); saveError != nil {
				return saveError
			}
			reporter.Successf(addedMessageTemplate, newProfile.Name)
			return nil
		},
	}
}

// collectProfile asks for every profile field in order; warnRequired is called when a
// required answer is left empty.
func collectProfile(prompter Prompter, warnRequired func()) (profiles.Profile, bool, error) {
	newProfile := profiles.Profile{}
	var promptError error

	if newProfile.Name, promptError = requiredInput(prompter, profileNamePromptConstant, warnRequired); promptError != nil {
		return profiles.Profile{}, false, promptError
	}
	if newProfile.TargetBasePath, promptError = requiredInput(prompter, targetBasePathPromptConstant, warnRequired); promptError != nil {
		return profiles.Profile{}, false, promptError
	}
	if newProfile.Username, promptError = prompter.Input(userNamePromptConstant, ""); promptError != nil {
		return profiles.Profile{}, false, promptError
	}
	if newProfile.Email, promptError = prompter.Input(userEmailPromptConstant, ""); promptError != nil {
		return profiles.Profile{}, false, promptError
	}

	providerKinds := providers.SupportedProviderKinds()
	providerNames := make([]string, 0, len(providerKinds))
	for _, providerKind := range providerKinds {
		providerNames = append(providerNames, string(providerKind))
	}
	providerIndex, providerError := prompter.Select(providerPromptConstant, providerNames)
	if providerError != nil {
		return profiles.Profile{}, false, providerError
	}
	newProfile.Provider = providerKinds[providerIndex]

	pullOptions := []profiles.PullOption{profiles.PullOptionSSH, profiles.PullOptionHTTPS}
	pullOptionIndex, pullOptionError := prompter.Select(pullOptionPromptConstant, []string{string(profiles.PullOptionSSH), string(profiles.PullOptionHTTPS)})
	if pullOptionError != nil {
		return profiles.Profile{}, false, pullOptionError
	}
	newProfile.PullOption = pullOptions[pullOptionIndex]

	baseAddressExample := gitHubBaseAddressExample
	if newProfile.Provider == providers.ProviderKindGitLab {
		baseAddressExample = gitLabBaseAddressExample
	}
	if newProfile.BaseAddress, promptError = requiredInput(prompter, fmt.Sprintf(baseAddressPromptTemplate, baseAddressExample), warnRequired); promptError != nil {
		return profiles.Profile{}, false, promptError
	}
	if newProfile.Token, promptError = prompter.Secret(tokenPromptConstant); promptError != nil {
		return profiles.Profile{}, false, promptError
	}
	newProfile.Token = strings.TrimSpace(newProfile.Token)

	activateAnswer, activateError := prompter.Choose(activateNewPromptConstant, []string{answerYesConstant, answerNoConstant})
	if activateError != nil {
		return profiles.Profile{}, false, activateError
	}
	return newProfile, activateAnswer == answerYesConstant, nil
}

func requiredInput(prompter Prompter, message string, warnRequired func()) (string, error) {
	for {
		answer, inputError := prompter.Input(message, "")
		if inputError != nil {
			return "", inputError
		}
		trimmedAnswer := strings.TrimSpace(answer)
		if len(trimmedAnswer) > 0 {
			return trimmedAnswer, nil
		}
		warnRequired()
	}
}
