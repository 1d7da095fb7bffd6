// Package prompt asks the operator constrained questions on a terminal or any reader.
package prompt
