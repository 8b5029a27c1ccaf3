// Package cli provides command-line interface setup and configuration
// for the wordgarden application. It handles flag parsing, command
// creation, configuration management using cobra and viper, and builds
// the zap logger every other package receives.
package cli
