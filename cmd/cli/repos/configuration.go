package repos

const (
	cloneConfigurationKeyConstant           = "clone"
	massConfigurationKeyConstant            = "mass"
	quickConfigurationKeyConstant           = "quick"
	configurationDryRunKeyConstant          = "dry_run"
	configurationSkipInteractiveKeyConstant = "skip_interactive"
)

// ToolsConfiguration captures the repository command sections under "tools".
type ToolsConfiguration struct {
	Clone CloneConfiguration `mapstructure:"clone"`
	Mass  MassConfiguration  `mapstructure:"mass"`
	Quick QuickConfiguration `mapstructure:"quick"`
}

// CloneConfiguration describes configuration values for clone.
type CloneConfiguration struct {
	DryRun bool `mapstructure:"dry_run"`
}

// MassConfiguration describes configuration values for mass.
type MassConfiguration struct {
	DryRun          bool `mapstructure:"dry_run"`
	SkipInteractive bool `mapstructure:"skip_interactive"`
}

// QuickConfiguration describes configuration values for quick.
type QuickConfiguration struct {
	DryRun          bool `mapstructure:"dry_run"`
	SkipInteractive bool `mapstructure:"skip_interactive"`
}

// DefaultToolsConfiguration returns baseline configuration values for repository commands.
func DefaultToolsConfiguration() ToolsConfiguration {
	return ToolsConfiguration{}
}

// DefaultConfigurationValues produces Viper defaults for repository commands below rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultToolsConfiguration()
	return map[string]any{
		rootKey + "." + cloneConfigurationKeyConstant + "." + configurationDryRunKeyConstant:          defaults.Clone.DryRun,
		rootKey + "." + massConfigurationKeyConstant + "." + configurationDryRunKeyConstant:           defaults.Mass.DryRun,
		rootKey + "." + massConfigurationKeyConstant + "." + configurationSkipInteractiveKeyConstant:  defaults.Mass.SkipInteractive,
		rootKey + "." + quickConfigurationKeyConstant + "." + configurationDryRunKeyConstant:          defaults.Quick.DryRun,
		rootKey + "." + quickConfigurationKeyConstant + "." + configurationSkipInteractiveKeyConstant: defaults.Quick.SkipInteractive,
	}
}
