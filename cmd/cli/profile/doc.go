// Package profile builds the "grgry profile" commands that activate, add,
// delete, and show provider profiles.
package profile
