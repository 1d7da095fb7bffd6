package flags

import "github.com/spf13/cobra"

const (
	// RegexFlagName selects repositories matching a pattern.
	RegexFlagName = "regex"
	// RegexFlagUsage describes the regex flag.
	RegexFlagUsage = "Only act on repositories matching this regular expression"
	// ReverseRegexFlagName selects repositories not matching a pattern.
	ReverseRegexFlagName = "rev-regex"
	// ReverseRegexFlagUsage describes the rev-regex flag.
	ReverseRegexFlagUsage = "Only act on repositories not matching this regular expression"
	// BranchFlagName exposes the shared branch flag name.
	BranchFlagName = "branch"
	// BranchFlagShorthand provides the shorthand for the branch flag.
	BranchFlagShorthand = "b"
)

// SelectionFlagValues stores the raw values of the regex and rev-regex flags.
type SelectionFlagValues struct {
	Pattern        string
	ReversePattern string
	defaultPattern string
	command        *cobra.Command
}

// BindSelectionFlags attaches the mutually exclusive --regex and --rev-regex flags.
// defaultPattern applies when neither flag is given.
func BindSelectionFlags(command *cobra.Command, defaultPattern string) *SelectionFlagValues {
	values := &SelectionFlagValues{defaultPattern: defaultPattern, command: command}
	if command == nil {
		return values
	}

	flagSet := command.Flags()
	flagSet.StringVar(&values.Pattern, RegexFlagName, "", RegexFlagUsage)
	flagSet.StringVar(&values.ReversePattern, ReverseRegexFlagName, "", ReverseRegexFlagUsage)
	command.MarkFlagsMutuallyExclusive(RegexFlagName, ReverseRegexFlagName)
	return values
}

// Resolve returns the pattern to apply and whether matches are excluded.
func (values *SelectionFlagValues) Resolve() (string, bool) {
	if values == nil {
		return "", false
	}
	if values.command != nil {
		flagSet := values.command.Flags()
		if flagSet.Changed(ReverseRegexFlagName) {
			return values.ReversePattern, true
		}
		if flagSet.Changed(RegexFlagName) {
			return values.Pattern, false
		}
	}
	return values.defaultPattern, false
}

// BranchFlagValues stores branch context flag values.
type BranchFlagValues struct {
	Name string
}

// BindBranchFlags attaches the -b/--branch flag.
func BindBranchFlags(command *cobra.Command, defaults BranchFlagValues, usage string) *BranchFlagValues {
	values := defaults
	if command == nil {
		return &values
	}

	command.Flags().StringVarP(&values.Name, BranchFlagName, BranchFlagShorthand, defaults.Name, usage)
	return &values
}
