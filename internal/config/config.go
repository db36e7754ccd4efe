// Package config centralizes the defaults viper falls back to when
// .dwarfdeclrc (or the matching DWARFDECL_* environment variable) doesn't
// set them, and the typed accessors cmd/ reads them through.
package config

import "github.com/spf13/viper"

// SetDefaults registers every key this tool reads from viper, so a bare
// invocation with no config file and no flags still behaves predictably.
func SetDefaults() {
	viper.SetDefault("format", "cpp")
	viper.SetDefault("output", "output")
	viper.SetDefault("includes", true)
}

// Format is the renderer to use when --format isn't passed explicitly.
func Format() string {
	return viper.GetString("format")
}

// OutputDir is the directory rendered headers are written under when
// --output isn't passed explicitly.
func OutputDir() string {
	return viper.GetString("output")
}

// Includes reports whether include inference is on by default.
func Includes() bool {
	return viper.GetBool("includes")
}
