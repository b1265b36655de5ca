package download

import (
	"errors"
	"hash"
)

// Option defines optional settings for downloading files.
// WithChecksum enables checksum validation of the downloaded file.
// h is a hash.Hash instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
//
// WithProgress enables periodic download progress logging via the
// logger supplied to Handle.
//
// WithSkipExisting causes Handle to return nil immediately when
// the destination file already exists, avoiding a redundant download.
//
// WithBatch groups concurrent async downloads under one concurrency
// limit; it only has an effect on a client's DownloadAsync.
type Option func(*options) error

type options struct {
	checksum     *checksumVerifier
	progress     bool
	skipExisting bool
	group        *Group
}

func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}

// WithBatch creates a download group with the given concurrency limit.
// If maxConcurrent <= 0, concurrency is unlimited.
func WithBatch(maxConcurrent int) Option {
	return func(opts *options) error {
		if opts.group != nil {
			return errors.New("batch already configured")
		}

		opts.group = NewGroup(maxConcurrent)
		return nil
	}
}

// withBatch rebinds an existing group, used by [Result.Add] to keep
// follow-up downloads in the batch they were added to.
func withBatch(g *Group) Option {
	return func(opts *options) error {
		if opts.group != nil {
			return errors.New("batch already configured")
		}

		opts.group = g
		return nil
	}
}

// GroupOf resolves the [Group] configured via [WithBatch], creating an
// unbounded one when the options carry none.
func GroupOf(optFns ...Option) (*Group, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, err
		}
	}

	if opts.group == nil {
		return NewGroup(0), nil
	}

	return opts.group, nil
}
