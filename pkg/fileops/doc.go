// Package fileops holds small filesystem helpers shared by the command line
// and the rules sources.
//
// Paths given by users, in flags, environment variables or the config file,
// go through ExpandPath before they are opened so that "~/RULES.md" works the
// same everywhere.
package fileops
