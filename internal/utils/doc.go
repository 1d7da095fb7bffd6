// Package utils holds the configuration loader and logger factory shared by
// every grgry command. Flag helpers live in utils/flags and path helpers in
// utils/path.
package utils
