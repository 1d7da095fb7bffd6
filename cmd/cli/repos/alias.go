package repos

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/temirov/grgry/internal/repos/mass"
	flagutils "github.com/temirov/grgry/internal/utils/flags"
)

const (
	aliasUseConstant                 = "alias <git command words...>"
	aliasShortDescription            = "Run mass from a git alias (experimental)"
	aliasLongDescription             = "alias lets grgry stand behind a git alias such as `git config --global alias.mass '!grgry alias'`. Every word except -s, --skip-interactive, --dry-run, --regex <pattern>, and --rev-regex <pattern> becomes part of the git command passed to mass."
	massCommandNameConstant          = "mass"
	shortSkipInteractiveFlagConstant = "-" + flagutils.SkipInteractiveFlagShorthand
	longSkipInteractiveFlagConstant  = "--" + flagutils.SkipInteractiveFlagName
	longDryRunFlagConstant           = "--" + flagutils.DryRunFlagName
	longRegexFlagConstant            = "--" + flagutils.RegexFlagName
	longReverseRegexFlagConstant     = "--" + flagutils.ReverseRegexFlagName
	massBuilderNotConfiguredMessage  = "alias requires a mass command builder"
	aliasMassArgumentsCommandIndex   = 1
)

// ErrMassBuilderNotConfigured indicates an alias command without a mass builder.
var ErrMassBuilderNotConfigured = errors.New(massBuilderNotConfiguredMessage)

// BuildMassArguments rewrites alias words into a mass invocation:
// ["mass", "<git command>", flags...]. The regex flags take the following word as their value.
func BuildMassArguments(words []string) []string {
	flagArguments := make([]string, 0, len(words))
	commandWords := make([]string, 0, len(words))

	for index := 0; index < len(words); index++ {
		word := words[index]
		switch word {
		case shortSkipInteractiveFlagConstant, longSkipInteractiveFlagConstant, longDryRunFlagConstant:
			flagArguments = append(flagArguments, word)
		case longRegexFlagConstant, longReverseRegexFlagConstant:
			flagArguments = append(flagArguments, word)
			if index+1 < len(words) {
				index++
				flagArguments = append(flagArguments, words[index])
			}
		default:
			commandWords = append(commandWords, word)
		}
	}

	massArguments := []string{massCommandNameConstant, mass.JoinCommandWords(commandWords)}
	return append(massArguments, flagArguments...)
}

// AliasCommandBuilder assembles the alias command.
type AliasCommandBuilder struct {
	MassBuilder *MassCommandBuilder
}

// Build constructs the alias command.
func (builder *AliasCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:                aliasUseConstant,
		Short:              aliasShortDescription,
		Long:               aliasLongDescription,
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE:               builder.run,
	}
	return command, nil
}

func (builder *AliasCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if builder.MassBuilder == nil {
		return ErrMassBuilderNotConfigured
	}

	massCommand, buildError := builder.MassBuilder.Build()
	if buildError != nil {
		return buildError
	}

	massArguments := BuildMassArguments(arguments)
	massCommand.SetArgs(massArguments[aliasMassArgumentsCommandIndex:])
	massCommand.SetIn(command.InOrStdin())
	massCommand.SetOut(command.OutOrStdout())
	massCommand.SetErr(command.ErrOrStderr())
	massCommand.SilenceUsage = true
	massCommand.SilenceErrors = true

	return massCommand.ExecuteContext(command.Context())
}
