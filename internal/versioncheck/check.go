// Package versioncheck compares the local template commit with the latest
// commit on the upstream branch. Every failure here is advisory.
package versioncheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	oerrors "github.com/projgen/cli/internal/errors"
)

// Commit identifies a commit. Date is normalised by FixTimestamp and may be
// empty when only the hash is known.
type Commit struct {
	Hash string
	Date string
}

// Result is the outcome of a version check.
type Result struct {
	Repository string
	Branch     string
	Local      Commit
	Remote     Commit
	Behind     int
}

// UpToDate reports whether the local commit has nothing to catch up on.
func (r *Result) UpToDate() bool {
	return r.Behind <= 0
}

// Message describes how far behind the local template is.
func (r *Result) Message() string {
	local := r.Local.Date
	if local == "" {
		local = shortHash(r.Local.Hash)
	}
	return fmt.Sprintf("projgen template is %d %s behind %s@%s (local %s, remote %s)",
		r.Behind, Pluralize("commit", r.Behind), r.Repository, r.Branch, local, r.Remote.Date)
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

// Check compares the commit of the template checkout at dir (or the build
// commit, see LocalCommit) with the head of the client's branch. Errors wrap
// ErrAdvisory.
func Check(ctx context.Context, client *Client, dir string) (*Result, error) {
	local, err := LocalCommit(dir)
	if err != nil {
		return nil, oerrors.Wrapf(oerrors.ErrAdvisory, err, "local commit")
	}

	remote, err := client.RemoteCommit(ctx)
	if err != nil {
		return nil, oerrors.Wrapf(oerrors.ErrAdvisory, err, "remote commit")
	}

	result := &Result{
		Repository: client.Repository(),
		Branch:     client.Branch(),
		Local:      local,
		Remote:     remote,
	}
	if local.Hash == remote.Hash {
		return result, nil
	}

	behind, err := client.CommitsBehind(ctx, local.Hash, remote.Hash)
	if err != nil {
		return nil, oerrors.Wrapf(oerrors.ErrAdvisory, err, "comparing commits")
	}
	result.Behind = behind
	return result, nil
}

// IsNetworkError reports whether err came from the transport rather than
// from an API response.
func IsNetworkError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
