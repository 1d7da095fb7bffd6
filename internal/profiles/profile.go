package profiles

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/temirov/grgry/internal/gitrepo"
	"github.com/temirov/grgry/internal/providers"
)

const (
	profileNameRequiredMessageConstant    = "profile name must not be empty"
	baseAddressRequiredMessageConstant    = "base_address must not be empty"
	baseAddressInvalidMessageTemplate     = "base_address %q is not an absolute URL"
	targetBasePathRequiredMessageConstant = "target_base_path must not be empty"
	invalidPullOptionMessageTemplate      = "pull_option %q must be ssh or https"
	invalidProfileMessageTemplate         = "profile %q is invalid: %w"
	maskedTokenValueConstant              = "********"
	apiHostPrefixConstant                 = "api."
)

// PullOption selects which clone URL a profile uses.
type PullOption string

const (
	// PullOptionSSH clones through the SSH URL.
	PullOptionSSH PullOption = "ssh"
	// PullOptionHTTPS clones through the HTTPS URL.
	PullOptionHTTPS PullOption = "https"
)

// ParsePullOption maps a case-insensitive value onto a PullOption.
func ParsePullOption(raw string) (PullOption, error) {
	normalized := PullOption(strings.ToLower(strings.TrimSpace(raw)))
	switch normalized {
	case PullOptionSSH, PullOptionHTTPS:
		return normalized, nil
	default:
		return "", fmt.Errorf(invalidPullOptionMessageTemplate, raw)
	}
}

// Profile is one provider account configuration.
type Profile struct {
	Name           string                 `yaml:"-" mapstructure:"-" json:"name"`
	Active         bool                   `yaml:"active" mapstructure:"active" json:"active"`
	PullOption     PullOption             `yaml:"pull_option" mapstructure:"pull_option" json:"pull_option"`
	Username       string                 `yaml:"username" mapstructure:"username" json:"username"`
	Email          string                 `yaml:"email" mapstructure:"email" json:"email"`
	BaseAddress    string                 `yaml:"base_address" mapstructure:"base_address" json:"base_address"`
	Provider       providers.ProviderKind `yaml:"provider" mapstructure:"provider" json:"provider"`
	Token          string                 `yaml:"token" mapstructure:"token" json:"token"`
	TargetBasePath string                 `yaml:"target_base_path" mapstructure:"target_base_path" json:"target_base_path"`
}

// Validate reports every problem with the profile at once.
func (profile Profile) Validate() error {
	var validationErrors *multierror.Error

	if len(strings.TrimSpace(profile.Name)) == 0 {
		validationErrors = multierror.Append(validationErrors, errors.New(profileNameRequiredMessageConstant))
	}
	if _, pullOptionError := ParsePullOption(string(profile.PullOption)); pullOptionError != nil {
		validationErrors = multierror.Append(validationErrors, pullOptionError)
	}
	if _, providerError := providers.ParseProviderKind(string(profile.Provider)); providerError != nil {
		validationErrors = multierror.Append(validationErrors, providerError)
	}
	if len(strings.TrimSpace(profile.BaseAddress)) == 0 {
		validationErrors = multierror.Append(validationErrors, errors.New(baseAddressRequiredMessageConstant))
	} else if len(profile.baseAddressHost()) == 0 {
		validationErrors = multierror.Append(validationErrors, fmt.Errorf(baseAddressInvalidMessageTemplate, profile.BaseAddress))
	}
	if len(strings.TrimSpace(profile.TargetBasePath)) == 0 {
		validationErrors = multierror.Append(validationErrors, errors.New(targetBasePathRequiredMessageConstant))
	}

	if combinedError := validationErrors.ErrorOrNil(); combinedError != nil {
		return fmt.Errorf(invalidProfileMessageTemplate, profile.Name, combinedError)
	}
	return nil
}

// ListingRequest converts the profile into a provider listing request for a collection.
func (profile Profile) ListingRequest(collection string, isUser bool) providers.ListingRequest {
	return providers.ListingRequest{
		Kind:        profile.Provider,
		BaseAddress: profile.BaseAddress,
		Collection:  collection,
		IsUser:      isUser,
		Username:    profile.Username,
		Token:       profile.Token,
	}
}

// Masked returns a copy that is safe to print.
func (profile Profile) Masked() Profile {
	if len(profile.Token) > 0 {
		profile.Token = maskedTokenValueConstant
	}
	return profile
}

// MatchesRemote reports whether a repository remote belongs to this profile. The remote
// host is compared with the base address host, ignoring the api. prefix GitHub uses for
// its REST endpoint; when the base address carries no host the provider name is looked
// up in the remote instead.
func (profile Profile) MatchesRemote(remoteURL string) bool {
	profileHost := profile.baseAddressHost()
	if len(profileHost) == 0 {
		return strings.Contains(strings.ToLower(remoteURL), string(profile.Provider))
	}
	remote, parseError := gitrepo.ParseRemoteURL(remoteURL)
	if parseError != nil {
		return false
	}
	remoteHost := remote.Host
	return remoteHost == profileHost || remoteHost == strings.TrimPrefix(profileHost, apiHostPrefixConstant)
}

func (profile Profile) baseAddressHost() string {
	parsedAddress, parseError := url.Parse(strings.TrimSpace(profile.BaseAddress))
	if parseError != nil {
		return ""
	}
	return strings.ToLower(parsedAddress.Hostname())
}
