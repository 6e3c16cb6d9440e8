// Package config provides configuration structures and utilities for
// storescan. It defines the clearance service endpoint settings, batch run
// options, and per-site extraction rules loaded from the settings file.
package config
