/*
Package releaser is a tool for packaging and publishing releases of the
Writing3D distribution to S3 buckets.

# Architecture and Organization

The w3d-releaser binary is built from the "cmd/w3d-releaser" package,
with a command that resembles the following:

	go build -o w3d-releaser ./cmd/w3d-releaser

The command line interface uses the urfave/cli package, with the
implementation of entry points in the "operations" package. The "gitcli"
package wraps the git porcelain, the "bundle" package produces the
per-platform distribution trees and archives, and the "mirror" package
pushes the build directory to the release bucket.
*/
package releaser
