// Package loader implements the loader dispatcher: an ordered list of
// callbacks, consulted when the resolver produces a SUN the VFS does
// not already hold.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethsol/svfs/internal/obslog"
	"github.com/ethsol/svfs/vfs"
)

// ErrFileNotFound is returned when every callback (and every URL, if
// any) reports not-found for a SUN.
var ErrFileNotFound = errors.New("source unit not found")

// Result is the outcome of a callback invocation.
type Result struct {
	Contents []byte
	NotFound bool
	Err      error
}

// Callback is the pluggable import-callback signature.
type Callback func(ctx context.Context, sun vfs.SUN) Result

// NotFound is a convenience constructor for a not-found Result.
func NotFound() Result { return Result{NotFound: true} }

// Found is a convenience constructor for a successful Result.
func Found(contents []byte) Result { return Result{Contents: contents} }

// Failed is a convenience constructor for an error Result.
func Failed(err error) Result { return Result{Err: err} }

// Dispatcher owns the VFS and the ordered callback list for one
// session. Apart from the session's initial population of inputs, it is
// the only component that writes to the VFS.
type Dispatcher struct {
	vfs       *vfs.VFS
	callbacks []Callback
	// urls maps a SUN declared with a json "urls" list to that list,
	// consulted before falling back to plain sun-based dispatch.
	urls map[vfs.SUN][]string
}

// New creates a dispatcher over vfs with no callbacks registered yet.
func New(v *vfs.VFS) *Dispatcher {
	return &Dispatcher{vfs: v, urls: make(map[vfs.SUN][]string)}
}

// Register appends a callback. The default CLI host registers the Host
// Filesystem Loader last, so it only runs after every user-supplied
// callback has had a chance to answer.
func (d *Dispatcher) Register(cb Callback) {
	d.callbacks = append(d.callbacks, cb)
}

// RegisterURLs associates a urls fallback list with sun, as produced by
// a standard-JSON "urls" source entry.
func (d *Dispatcher) RegisterURLs(sun vfs.SUN, urls []string) {
	d.urls[sun] = urls
}

// Load returns the bytes for sun, loading it via the registered
// callbacks if it is not already present. The first successful load
// for a SUN is the one stored; later calls for the same SUN are served
// from the VFS without invoking any callback again.
func (d *Dispatcher) Load(ctx context.Context, sun vfs.SUN) ([]byte, error) {
	if content, ok := d.vfs.Get(sun); ok {
		return content, nil
	}

	if urls, ok := d.urls[sun]; ok {
		for _, url := range urls {
			content, err := d.tryCallbacks(ctx, vfs.SUN(url))
			if err != nil {
				return nil, err
			}
			if content != nil {
				return d.store(sun, content)
			}
		}
		obslog.Debug("all urls exhausted", map[string]any{"sun": string(sun), "urls": urls})
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, sun)
	}

	content, err := d.tryCallbacks(ctx, sun)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, sun)
	}
	return d.store(sun, content)
}

// tryCallbacks runs every registered callback against key in order,
// returning the first successful payload. A not_found result advances
// to the next callback; an error result aborts immediately.
func (d *Dispatcher) tryCallbacks(ctx context.Context, key vfs.SUN) ([]byte, error) {
	for _, cb := range d.callbacks {
		res := cb(ctx, key)
		if res.Err != nil {
			return nil, res.Err
		}
		if res.NotFound {
			continue
		}
		return res.Contents, nil
	}
	return nil, nil
}

func (d *Dispatcher) store(sun vfs.SUN, content []byte) ([]byte, error) {
	if err := d.vfs.Insert(sun, content, vfs.OriginCallback); err != nil {
		return nil, err
	}
	return content, nil
}
