// Package cli builds the grgry root command: it loads configuration through
// viper, creates the zap logger, and attaches the clone, mass, quick, alias
// and profile commands.
package cli
