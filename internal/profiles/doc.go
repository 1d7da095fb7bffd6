// Package profiles stores named provider profiles in a YAML file and tracks which one is active.
package profiles
