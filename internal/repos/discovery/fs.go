package discovery

import "github.com/spf13/afero"

// FsFactory returns the filesystem repositories are searched on.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}
