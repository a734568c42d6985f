// Package config provides configuration structures and utilities for the refiner.
// It defines where export documents are read from, where refined artifacts are
// written and published, how the database is sealed, and report preferences.
//
// Values are resolved in three layers: NewConfig defaults, then the optional
// .refiner YAML file (Config.Apply), then explicitly set CLI flags.
package config
