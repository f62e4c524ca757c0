// Package config provides configuration loading, merging, and validation
// facilities for the repository sync client.
//
// Configuration is assembled from multiple sources; a field set by an earlier
// source is kept:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry points are [BindFlags], which registers the flags on a
// command, and [GetClientConfig], which merges everything into a validated
// [ClientConfig].
package config
