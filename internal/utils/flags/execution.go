// Package flags binds the flags shared by grgry repository commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Only print the git commands which would be executed"
	// SkipInteractiveFlagName exposes the shared skip-interactive flag name.
	SkipInteractiveFlagName = "skip-interactive"
	// SkipInteractiveFlagShorthand provides the shorthand for the skip-interactive flag.
	SkipInteractiveFlagShorthand = "s"
	// SkipInteractiveFlagUsage describes the shared skip-interactive flag purpose.
	SkipInteractiveFlagUsage = "Don't ask for permission per repository"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun          bool
	SkipInteractive bool
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun          ExecutionFlagDefinition
	SkipInteractive ExecutionFlagDefinition
}

// DefaultExecutionFlagDefinitions enables both execution flags with their standard names.
func DefaultExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		DryRun:          ExecutionFlagDefinition{Name: DryRunFlagName, Usage: DryRunFlagUsage, Enabled: true},
		SkipInteractive: ExecutionFlagDefinition{Name: SkipInteractiveFlagName, Usage: SkipInteractiveFlagUsage, Shorthand: SkipInteractiveFlagShorthand, Enabled: true},
	}
}

// ExecutionFlags reports the parsed execution flags and whether the operator set them.
type ExecutionFlags struct {
	DryRun             bool
	DryRunSet          bool
	SkipInteractive    bool
	SkipInteractiveSet bool
}

// BindExecutionFlags attaches the execution flags to the command's local flag set.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	flagSet := command.Flags()
	bindBoolFlag(flagSet, definitions.DryRun, defaults.DryRun)
	bindBoolFlag(flagSet, definitions.SkipInteractive, defaults.SkipInteractive)
}

// ResolveExecutionFlags reads the execution flags bound by BindExecutionFlags.
// The boolean result is false when the command carries none of them.
func ResolveExecutionFlags(command *cobra.Command) (ExecutionFlags, bool) {
	if command == nil {
		return ExecutionFlags{}, false
	}

	flagSet := command.Flags()
	resolved := ExecutionFlags{}
	available := false

	if dryRunValue, dryRunSet, dryRunFound := lookupBool(flagSet, DryRunFlagName); dryRunFound {
		resolved.DryRun = dryRunValue
		resolved.DryRunSet = dryRunSet
		available = true
	}
	if skipValue, skipSet, skipFound := lookupBool(flagSet, SkipInteractiveFlagName); skipFound {
		resolved.SkipInteractive = skipValue
		resolved.SkipInteractiveSet = skipSet
		available = true
	}

	return resolved, available
}

// ApplyExecutionFlags overrides configured values with flags the operator set explicitly.
func ApplyExecutionFlags(command *cobra.Command, configured ExecutionDefaults) ExecutionDefaults {
	resolved := configured
	executionFlags, available := ResolveExecutionFlags(command)
	if !available {
		return resolved
	}
	if executionFlags.DryRunSet {
		resolved.DryRun = executionFlags.DryRun
	}
	if executionFlags.SkipInteractiveSet {
		resolved.SkipInteractive = executionFlags.SkipInteractive
	}
	return resolved
}

func bindBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, defaultValue bool) {
	if flagSet == nil {
		return
	}
	if !definition.Enabled {
		return
	}
	if len(definition.Name) == 0 {
		return
	}

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, defaultValue, definition.Usage)
		return
	}

	flagSet.Bool(definition.Name, defaultValue, definition.Usage)
}

func lookupBool(flagSet *pflag.FlagSet, name string) (bool, bool, bool) {
	if flagSet.Lookup(name) == nil {
		return false, false, false
	}
	value, valueError := flagSet.GetBool(name)
	if valueError != nil {
		return false, false, false
	}
	return value, flagSet.Changed(name), true
}
