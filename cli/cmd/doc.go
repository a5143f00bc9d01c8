// Package cmd implements the shapescript subcommands.
//
// Every command reads scripts named on the command line. A name of "-"
// reads stdin. A bare name that does not exist relative to the working
// directory is looked up in the directories given by --path and then in
// $SHAPESCRIPT_PATH, in that order. The ".shape" extension may be
// omitted.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)

// PathEnv names the environment variable listing script directories.
const PathEnv = "SHAPESCRIPT_PATH"

// Ext is the conventional script file extension.
const Ext = ".shape"
