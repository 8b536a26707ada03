/*
Package mirror publishes the local build directory to the release
bucket. The sync is a destructive one-way mirror: after a successful
push the remote prefix matches the local tree exactly, and remote
objects with no local counterpart are removed. That is intentional —
the bucket is the canonical release mirror, not an append-only log.

Credentials come from the environment or the shared AWS credentials
file; this package does not manage them.
*/
package mirror

import (
	"context"
	"os"
	"time"

	"github.com/evergreen-ci/pail"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"github.com/writing3d/releaser/bundle"
)

// Options describe one mirror run.
type Options struct {
	// BuildDir is the local directory whose contents become the
	// authoritative remote state.
	BuildDir string

	// Remote identifies the target bucket.
	Remote bundle.RemoteOptions

	// DryRun logs the operations without mutating the bucket.
	DryRun bool
}

// Validate checks that the options describe a runnable sync. The
// build directory must exist: pushing a missing local directory would
// read as an empty tree and wipe the remote mirror.
func (o *Options) Validate() error {
	if o.Remote.Bucket == "" {
		return errors.New("no release bucket configured")
	}

	stat, err := os.Stat(o.BuildDir)
	if os.IsNotExist(err) {
		return errors.Errorf("build directory %s does not exist", o.BuildDir)
	}
	if err != nil {
		return errors.Wrapf(err, "problem checking build directory %s", o.BuildDir)
	}
	if !stat.IsDir() {
		return errors.Errorf("build directory %s is not a directory", o.BuildDir)
	}

	if o.Remote.Permissions == "" {
		o.Remote.Permissions = string(pail.S3PermissionsPrivate)
	}

	return nil
}

// Push mirrors the build directory to the configured bucket.
func Push(ctx context.Context, opts Options) error {
	if err := opts.Validate(); err != nil {
		return errors.WithStack(err)
	}

	httpClient := utility.GetHTTPClient()
	defer utility.PutHTTPClient(httpClient)

	bucket, err := pail.NewS3BucketWithHTTPClient(ctx, httpClient,
		pail.S3Options{
			SharedCredentialsProfile: opts.Remote.Profile,
			Region:                   opts.Remote.Region,
			Name:                     opts.Remote.Bucket,
			Permissions:              pail.S3Permissions(opts.Remote.Permissions),
			MaxRetries:               utility.ToIntPtr(10),
			DeleteOnSync:             true,
			DryRun:                   opts.DryRun,
			Verbose:                  true,
		})
	if err != nil {
		return errors.Wrap(err, "constructing bucket client")
	}

	startAt := time.Now()

	err = bucket.Push(ctx, pail.SyncOptions{
		Local:  opts.BuildDir,
		Remote: opts.Remote.Prefix,
	})

	msg := message.Fields{
		"local":    opts.BuildDir,
		"bucket":   opts.Remote.Bucket,
		"prefix":   opts.Remote.Prefix,
		"dry_run":  opts.DryRun,
		"dur_secs": time.Since(startAt).Seconds(),
	}
	grip.InfoWhen(err == nil, msg)
	grip.Error(message.WrapError(err, msg))

	return errors.Wrap(err, "problem syncing build directory")
}
