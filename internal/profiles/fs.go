package profiles

import "github.com/spf13/afero"

// FsFactory returns the filesystem the profile store reads and writes.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}
