package profiles_test

import (
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/grgry/internal/profiles"
	"github.com/temirov/grgry/internal/providers"
)

const (
	testProfilesPath     = "/home/tester/.config/grgry/profiles.yaml"
	testProfilesDocument = `profiles:
  work:
    active: true
    pull_option: ssh
    username: jdoe
    email: jdoe@example.com
    base_address: https://gitlab.example.com
    provider: gitlab
    token: glpat-secret
    target_base_path: /home/tester/work
  personal:
    active: false
    pull_option: https
    username: octocat
    email: octocat@example.com
    base_address: https://api.github.com
    provider: github
    token: ""
    target_base_path: /home/tester/personal
`
)

func stubFileSystem(testInstance *testing.T, contents string) afero.Fs {
	fileSystem := afero.NewMemMapFs()
	if len(contents) > 0 {
		require.NoError(testInstance, afero.WriteFile(fileSystem, testProfilesPath, []byte(contents), 0o600))
	}
	stubs := gostub.Stub(&profiles.FsFactory, func() afero.Fs {
		return fileSystem
	})
	testInstance.Cleanup(stubs.Reset)
	return fileSystem
}

func newValidProfile(name string) profiles.Profile {
	return profiles.Profile{
		Name:           name,
		PullOption:     profiles.PullOptionHTTPS,
		Username:       "tester",
		Email:          "tester@example.com",
		BaseAddress:    "https://api.github.com",
		Provider:       providers.ProviderKindGitHub,
		TargetBasePath: "/home/tester/" + name,
	}
}

func TestLoadStoreDecodesProfiles(testInstance *testing.T) {
	stubFileSystem(testInstance, testProfilesDocument)

	store, loadError := profiles.LoadStore(testProfilesPath)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []string{"personal", "work"}, store.Names())

	activeProfile, activeError := store.ActiveProfile()
	require.NoError(testInstance, activeError)
	require.Equal(testInstance, "work", activeProfile.Name)
	require.Equal(testInstance, profiles.PullOptionSSH, activeProfile.PullOption)
	require.Equal(testInstance, providers.ProviderKindGitLab, activeProfile.Provider)
	require.Equal(testInstance, "/home/tester/work", activeProfile.TargetBasePath)
}

func TestLoadStoreMissingFileIsEmpty(testInstance *testing.T) {
	stubFileSystem(testInstance, "")

	store, loadError := profiles.LoadStore(testProfilesPath)
	require.NoError(testInstance, loadError)
	require.Empty(testInstance, store.Names())

	_, activeError := store.ActiveProfile()
	require.ErrorIs(testInstance, activeError, profiles.ErrNoActiveProfile)
}

func TestLoadStoreRejectsInvalidDocuments(testInstance *testing.T) {
	testCases := []struct {
		name     string
		contents string
	}{
		{name: "malformed_yaml", contents: "profiles: [unterminated"},
		{name: "unknown_field", contents: "profiles:\n  work:\n    colour: blue\n"},
		{name: "two_active_profiles", contents: "profiles:\n  a:\n    active: true\n  b:\n    active: true\n"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			stubFileSystem(subtest, testCase.contents)
			_, loadError := profiles.LoadStore(testProfilesPath)
			require.Error(subtest, loadError)
		})
	}
}

func TestStoreActivateKeepsSingleActiveProfile(testInstance *testing.T) {
	fileSystem := stubFileSystem(testInstance, testProfilesDocument)

	store, loadError := profiles.LoadStore(testProfilesPath)
	require.NoError(testInstance, loadError)
	require.NoError(testInstance, store.Activate("personal"))
	require.NoError(testInstance, store.Save())

	reloaded, reloadError := profiles.LoadStoreFromFs(fileSystem, testProfilesPath)
	require.NoError(testInstance, reloadError)
	activeProfile, activeError := reloaded.ActiveProfile()
	require.NoError(testInstance, activeError)
	require.Equal(testInstance, "personal", activeProfile.Name)

	workProfile, exists := reloaded.Profile("work")
	require.True(testInstance, exists)
	require.False(testInstance, workProfile.Active)

	var notFoundError profiles.ProfileNotFoundError
	require.ErrorAs(testInstance, store.Activate("missing"), &notFoundError)
}

func TestStoreAddAndDelete(testInstance *testing.T) {
	fileSystem := stubFileSystem(testInstance, "")

	store, loadError := profiles.LoadStore(testProfilesPath)
	require.NoError(testInstance, loadError)

	require.NoError(testInstance, store.Add(newValidProfile("first"), true))
	require.NoError(testInstance, store.Add(newValidProfile("second"), false))
	require.ErrorAs(testInstance, store.Add(newValidProfile("first"), false), &profiles.ProfileExistsError{})

	activeProfile, activeError := store.ActiveProfile()
	require.NoError(testInstance, activeError)
	require.Equal(testInstance, "first", activeProfile.Name)

	require.NoError(testInstance, store.Delete("first"))
	require.ErrorAs(testInstance, store.Delete("first"), &profiles.ProfileNotFoundError{})
	require.NoError(testInstance, store.Save())

	written, readError := afero.ReadFile(fileSystem, testProfilesPath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(written), "second:")
	require.NotContains(testInstance, string(written), "first:")

	_, activeAfterDeleteError := store.ActiveProfile()
	require.ErrorIs(testInstance, activeAfterDeleteError, profiles.ErrNoActiveProfile)
}

func TestStoreAddRejectsInvalidProfile(testInstance *testing.T) {
	stubFileSystem(testInstance, "")
	store, loadError := profiles.LoadStore(testProfilesPath)
	require.NoError(testInstance, loadError)

	invalidProfile := newValidProfile("broken")
	invalidProfile.Provider = "bitbucket"
	invalidProfile.PullOption = "ftp"
	invalidProfile.TargetBasePath = ""

	addError := store.Add(invalidProfile, true)
	require.Error(testInstance, addError)
	require.Contains(testInstance, addError.Error(), "bitbucket")
	require.Contains(testInstance, addError.Error(), "ftp")
	require.Contains(testInstance, addError.Error(), "target_base_path")
	require.Empty(testInstance, store.Names())
}

func TestFindProfilesByRemote(testInstance *testing.T) {
	stubFileSystem(testInstance, testProfilesDocument)
	store, loadError := profiles.LoadStore(testProfilesPath)
	require.NoError(testInstance, loadError)

	testCases := []struct {
		name          string
		remoteURL     string
		expectedNames []string
	}{
		{name: "gitlab_ssh_remote", remoteURL: "git@gitlab.example.com:platform/api.git", expectedNames: []string{"work"}},
		{name: "github_https_remote_matches_api_host", remoteURL: "https://github.com/octocat/hello.git", expectedNames: []string{"personal"}},
		{name: "unknown_host", remoteURL: "git@bitbucket.org:team/repo.git", expectedNames: []string{}},
		{name: "unparsable_remote", remoteURL: "not a remote", expectedNames: []string{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			matches := store.FindProfilesByRemote(testCase.remoteURL)
			matchedNames := make([]string, 0, len(matches))
			for _, match := range matches {
				matchedNames = append(matchedNames, match.Name)
			}
			require.Equal(subtest, testCase.expectedNames, matchedNames)
		})
	}
}

func TestProfileMaskedHidesToken(testInstance *testing.T) {
	profile := newValidProfile("masked")
	profile.Token = "ghp_secret"

	masked := profile.Masked()
	require.NotEqual(testInstance, profile.Token, masked.Token)
	require.NotContains(testInstance, masked.Token, "secret")
	require.Empty(testInstance, newValidProfile("plain").Masked().Token)
}

func TestProfileListingRequest(testInstance *testing.T) {
	profile := newValidProfile("listing")
	profile.Token = "token"

	request := profile.ListingRequest("acme", true)
	require.Equal(testInstance, providers.ListingRequest{
		Kind:        providers.ProviderKindGitHub,
		BaseAddress: "https://api.github.com",
		Collection:  "acme",
		IsUser:      true,
		Username:    "tester",
		Token:       "token",
	}, request)
}
