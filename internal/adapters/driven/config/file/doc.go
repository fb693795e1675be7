// Package file provides the TOML-backed settings store.
//
// Settings live in ~/.stereo/config.toml by default. Keys absent from the
// file keep their default values, and a handful of environment variables
// override the file for secrets and endpoints.
package file
