package clone

import "github.com/spf13/afero"

// FsFactory returns the filesystem destinations are inspected and cleaned on.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}
