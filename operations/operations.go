/*
Package operations contains the integration between the core release
functionality and the user-exposed command line interface.

The public functions in this package return cli.Command objects that
are registered by the main package. Core behavior lives in the gitcli,
bundle, and mirror packages; this package wires configuration, paths,
and prompts into them.
*/
package operations

// This file is documentation only.
