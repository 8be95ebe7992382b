// Package files finds sales export files on disk.
//
// Discovery lists .xlsx and .csv inputs of a directory, skipping office lock
// files (~$name.xlsx) and hidden files, and resolves a command line input
// that may name either a file or a directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.BaseDir, logger)
//	input, err := discovery.ResolveInput("data")
package files
