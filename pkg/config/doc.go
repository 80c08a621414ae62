// Package config loads stowng settings. Embedded defaults are overlaid by
// the user's config files, the config file in the working directory,
// environment variables and finally command line flags.
package config
