package profiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	// NoActiveProfileMessageConstant is shown when a command needs a profile and none is active.
	NoActiveProfileMessageConstant = "One profile needs to be activated. Run \"grgry profile activate\" to choose one"

	profileNotFoundMessageTemplate       = "profile %q does not exist"
	profileExistsMessageTemplate         = "profile %q already exists"
	multipleActiveProfilesTemplate       = "profiles %s are all marked active; only one may be active"
	readProfilesErrorTemplate            = "failed to read profiles file %s: %w"
	parseProfilesErrorTemplate           = "failed to parse profiles file %s: %w"
	decodeProfilesErrorTemplate          = "failed to decode profiles file %s: %w"
	encodeProfilesErrorTemplate          = "failed to encode profiles: %w"
	createProfilesDirectoryErrorTemplate = "failed to create directory for profiles file %s: %w"
	writeProfilesErrorTemplate           = "failed to write profiles file %s: %w"
	profileNamesSeparatorConstant        = ", "
	profilesDirectoryPermissions         = 0o755
	profilesFilePermissions              = 0o600
)

// ErrNoActiveProfile is returned when no profile is marked active.
var ErrNoActiveProfile = errors.New(NoActiveProfileMessageConstant)

// ProfileNotFoundError reports a profile name missing from the store.
type ProfileNotFoundError struct {
	Name string
}

func (notFoundError ProfileNotFoundError) Error() string {
	return fmt.Sprintf(profileNotFoundMessageTemplate, notFoundError.Name)
}

// ProfileExistsError reports an attempt to add a profile under a taken name.
type ProfileExistsError struct {
	Name string
}

func (existsError ProfileExistsError) Error() string {
	return fmt.Sprintf(profileExistsMessageTemplate, existsError.Name)
}

type profilesDocument struct {
	Profiles map[string]Profile `yaml:"profiles" mapstructure:"profiles"`
}

// Store holds every configured profile and persists them to a YAML file.
type Store struct {
	fileSystem afero.Fs
	filePath   string
	profiles   map[string]Profile
}

// LoadStore reads the profiles file through FsFactory. A missing file yields an empty store.
func LoadStore(filePath string) (*Store, error) {
	return LoadStoreFromFs(FsFactory(), filePath)
}

// LoadStoreFromFs reads the profiles file from the provided filesystem.
func LoadStoreFromFs(fileSystem afero.Fs, filePath string) (*Store, error) {
	store := &Store{fileSystem: fileSystem, filePath: filePath, profiles: map[string]Profile{}}

	contents, readError := afero.ReadFile(fileSystem, filePath)
	if readError != nil {
		if errors.Is(readError, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf(readProfilesErrorTemplate, filePath, readError)
	}
	if len(strings.TrimSpace(string(contents))) == 0 {
		return store, nil
	}

	var rawDocument map[string]any
	if unmarshalError := yaml.Unmarshal(contents, &rawDocument); unmarshalError != nil {
		return nil, fmt.Errorf(parseProfilesErrorTemplate, filePath, unmarshalError)
	}

	var document profilesDocument
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &document,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if decoderError != nil {
		return nil, fmt.Errorf(decodeProfilesErrorTemplate, filePath, decoderError)
	}
	if decodeError := decoder.Decode(rawDocument); decodeError != nil {
		return nil, fmt.Errorf(decodeProfilesErrorTemplate, filePath, decodeError)
	}

	for name, profile := range document.Profiles {
		profile.Name = name
		store.profiles[name] = profile
	}
	if activeError := store.checkSingleActive(); activeError != nil {
		return nil, activeError
	}
	return store, nil
}

// FilePath returns the location the store persists to.
func (store *Store) FilePath() string {
	return store.filePath
}

// Save writes every profile back to the YAML file.
func (store *Store) Save() error {
	encoded, encodeError := yaml.Marshal(profilesDocument{Profiles: store.profiles})
	if encodeError != nil {
		return fmt.Errorf(encodeProfilesErrorTemplate, encodeError)
	}
	if directoryError := store.fileSystem.MkdirAll(filepath.Dir(store.filePath), profilesDirectoryPermissions); directoryError != nil {
		return fmt.Errorf(createProfilesDirectoryErrorTemplate, store.filePath, directoryError)
	}
	if writeError := afero.WriteFile(store.fileSystem, store.filePath, encoded, profilesFilePermissions); writeError != nil {
		return fmt.Errorf(writeProfilesErrorTemplate, store.filePath, writeError)
	}
	return nil
}

// Names returns every profile name in lexical order.
func (store *Store) Names() []string {
	names := make([]string, 0, len(store.profiles))
	for name := range store.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profiles returns every profile ordered by name.
func (store *Store) Profiles() []Profile {
	names := store.Names()
	ordered := make([]Profile, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, store.profiles[name])
	}
	return ordered
}

// Profile looks up a profile by name.
func (store *Store) Profile(name string) (Profile, bool) {
	profile, exists := store.profiles[name]
	return profile, exists
}

// ActiveProfile returns the single active profile.
func (store *Store) ActiveProfile() (Profile, error) {
	for _, name := range store.Names() {
		if store.profiles[name].Active {
			return store.profiles[name], nil
		}
	}
	return Profile{}, ErrNoActiveProfile
}

// Activate marks the named profile active and every other profile inactive.
func (store *Store) Activate(name string) error {
	if _, exists := store.profiles[name]; !exists {
		return ProfileNotFoundError{Name: name}
	}
	for profileName, profile := range store.profiles {
		profile.Active = profileName == name
		store.profiles[profileName] = profile
	}
	return nil
}

// Add validates and stores a new profile, optionally making it the active one.
func (store *Store) Add(profile Profile, activate bool) error {
	profile.Name = strings.TrimSpace(profile.Name)
	if _, exists := store.profiles[profile.Name]; exists {
		return ProfileExistsError{Name: profile.Name}
	}
	profile.Active = false
	if validationError := profile.Validate(); validationError != nil {
		return validationError
	}
	store.profiles[profile.Name] = profile
	if activate {
		return store.Activate(profile.Name)
	}
	return nil
}

// Delete removes the named profile.
func (store *Store) Delete(name string) error {
	if _, exists := store.profiles[name]; !exists {
		return ProfileNotFoundError{Name: name}
	}
	delete(store.profiles, name)
	return nil
}

// FindProfilesByRemote returns the profiles whose host matches the remote URL, ordered by name.
func (store *Store) FindProfilesByRemote(remoteURL string) []Profile {
	matches := make([]Profile, 0)
	for _, profile := range store.Profiles() {
		if profile.MatchesRemote(remoteURL) {
			matches = append(matches, profile)
		}
	}
	return matches
}

func (store *Store) checkSingleActive() error {
	activeNames := make([]string, 0, 1)
	for _, name := range store.Names() {
		if store.profiles[name].Active {
			activeNames = append(activeNames, name)
		}
	}
	if len(activeNames) > 1 {
		return fmt.Errorf(multipleActiveProfilesTemplate, strings.Join(activeNames, profileNamesSeparatorConstant))
	}
	return nil
}
