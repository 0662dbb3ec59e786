// Package config defines staging settings used by the vocstage binary and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the archive mirror URL, the scratch and output
// directories, and the external preparation command.
package config
