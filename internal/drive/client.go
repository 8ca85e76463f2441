// Package drive grants read access on team folders in Google Drive and lists
// their recent files.
package drive

import (
	"context"
	"errors"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/driveaccess/internal/logging"
	"github.com/sethvargo/go-retry"
)

const defaultFileLimit = 5

type File struct {
	ID   string
	Name string
	Link string
}

// remote is the slice of the Drive API the client needs.
type remote interface {
	CreatePermission(ctx context.Context, folderID, email string) error
	ListChildren(ctx context.Context, folderID string, limit int) ([]File, error)
}

type Options struct {
	MaxAttempts    int
	BackoffUnit    time.Duration
	BackoffCap     time.Duration
	AttemptTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxAttempts:    3,
		BackoffUnit:    1500 * time.Millisecond,
		BackoffCap:     5 * time.Second,
		AttemptTimeout: 20 * time.Second,
	}
}

type Client struct {
	folders Folders
	opts    Options
	logger  logging.Logger

	// connect returns the shared Drive handle, building it on first use.
	connect    func() (remote, error)
	newBackoff func() retry.Backoff
}

// NewClient returns a client that authenticates with the service-account
// credentials on first use.
func NewClient(folders Folders, creds Credentials, opts Options, logger logging.Logger) *Client {
	connect := sync.OnceValues(func() (remote, error) {
		return newGoogleAPI(context.Background(), creds, logger)
	})
	return newClient(folders, connect, opts, logger)
}

func newClient(folders Folders, connect func() (remote, error), opts Options, logger logging.Logger) *Client {
	def := DefaultOptions()
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.BackoffUnit <= 0 {
		opts.BackoffUnit = def.BackoffUnit
	}
	if opts.BackoffCap <= 0 {
		opts.BackoffCap = def.BackoffCap
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = def.AttemptTimeout
	}

	c := &Client{
		folders: folders,
		opts:    opts,
		logger:  logger.With("module", "drive"),
		connect: connect,
	}
	c.newBackoff = func() retry.Backoff {
		return linearBackoff(c.opts.BackoffUnit, c.opts.BackoffCap, c.opts.MaxAttempts)
	}
	return c
}

// GrantAccess gives email reader access to the team's folder and returns the
// folder id. An existing permission counts as success. On failure the error
// is a *GrantFailure.
func (c *Client) GrantAccess(ctx context.Context, team, email string) (string, error) {
	folderID, err := c.folders.Resolve(team)
	if err != nil {
		return "", c.fail(ctx, &GrantFailure{Kind: KindConfiguration, Reason: "no_folder", UserMessage: MsgGeneric, Cause: err}, team, email)
	}

	api, err := c.connect()
	if err != nil {
		return "", c.fail(ctx, &GrantFailure{Kind: KindConfiguration, Reason: "credentials", UserMessage: MsgGeneric, Cause: err}, team, email)
	}

	c.logger.Info(ctx, "sharing folder", "folder_id", folderID, "email", email)

	attempts := 0
	var last *GrantFailure
	err = retry.Do(ctx, c.newBackoff(), func(ctx context.Context) error {
		attempts++

		actx, cancel := context.WithTimeout(ctx, c.opts.AttemptTimeout)
		err := api.CreatePermission(actx, folderID, email)
		cancel()

		if err == nil {
			return nil
		}
		if isConflict(err) {
			c.logger.Info(ctx, "permission already exists", "folder_id", folderID, "email", email)
			return nil
		}

		last = classify(err)
		if ctx.Err() != nil {
			return last
		}
		if !last.Kind.retryable() {
			return last
		}

		c.logger.Warn(ctx, "grant attempt failed",
			"attempt", attempts,
			"max_attempts", c.opts.MaxAttempts,
			"folder_id", folderID,
			"status", last.Status,
			"reason", last.Reason,
			"error", err,
		)
		return retry.RetryableError(last)
	})
	if err == nil {
		c.logger.Info(ctx, "folder shared", "folder_id", folderID, "email", email, "attempts", attempts)
		return folderID, nil
	}

	failure := last
	if failure == nil || (ctx.Err() != nil && !errors.Is(err, last)) {
		failure = &GrantFailure{Kind: KindTransient, Reason: "cancelled", UserMessage: MsgNetwork, Cause: err}
	}
	failure.Attempts = attempts
	return "", c.fail(ctx, failure, team, email)
}

func (c *Client) fail(ctx context.Context, f *GrantFailure, team, email string) *GrantFailure {
	c.logger.Error(ctx, "grant failed",
		"team", team,
		"email", email,
		"kind", f.Kind.String(),
		"attempts", f.Attempts,
		"cause", f.Cause,
		"envelope", f.ToServiceError(),
	)
	return f
}

// ListRecentFiles returns the newest non-trashed files in the team folder.
// The remote call happens on first iteration; the sequence can be ranged
// over once. A failure is yielded as a single error.
func (c *Client) ListRecentFiles(ctx context.Context, team string, limit int) iter.Seq2[File, error] {
	if limit <= 0 {
		limit = defaultFileLimit
	}

	var used atomic.Bool
	return func(yield func(File, error) bool) {
		if used.Swap(true) {
			return
		}

		folderID, err := c.folders.Resolve(team)
		if err != nil {
			yield(File{}, err)
			return
		}

		api, err := c.connect()
		if err != nil {
			yield(File{}, err)
			return
		}

		files, err := api.ListChildren(ctx, folderID, limit)
		if err != nil {
			c.logger.Warn(ctx, "listing files failed", "folder_id", folderID, "error", err)
			yield(File{}, err)
			return
		}

		for _, f := range files {
			if !yield(f, nil) {
				return
			}
		}
	}
}

// FolderURL returns the browser link of the team's folder.
func (c *Client) FolderURL(team string) (string, error) {
	id, err := c.folders.Resolve(team)
	if err != nil {
		return "", err
	}
	return folderURL(id), nil
}
