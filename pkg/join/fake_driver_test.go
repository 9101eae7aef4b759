package join

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/autojoin/pkg/browser"
)

var errDisconnected = errors.New("target closed: browser has disconnected")

// fakeDriver is a scripted browser.Driver. Elements are found unless listed
// in missing or failing; markers are absent unless listed in present.
type fakeDriver struct {
	mu sync.Mutex

	navigateErr error
	missing     map[browser.Locator]bool
	nilElement  map[browser.Locator]bool
	findErr     map[browser.Locator]error
	actErr      map[browser.Locator]error
	present     map[browser.Locator]bool
	markerErr   map[browser.Locator]error
	shotErr     error
	// shotDelay makes Screenshot take this long, or until ctx is done.
	shotDelay time.Duration

	// blockFind makes Find wait for ctx cancellation.
	blockFind bool

	calls       []string
	acts        []actCall
	screenshots int
	closes      int
}

type actCall struct {
	loc    browser.Locator
	action browser.Action
}

type fakeElement struct {
	loc browser.Locator
}

func (e fakeElement) Locator() browser.Locator { return e.loc }

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		missing:    make(map[browser.Locator]bool),
		nilElement: make(map[browser.Locator]bool),
		findErr:    make(map[browser.Locator]error),
		actErr:     make(map[browser.Locator]error),
		present:    make(map[browser.Locator]bool),
		markerErr:  make(map[browser.Locator]error),
	}
}

func (d *fakeDriver) record(call string) {
	d.calls = append(d.calls, call)
}

func (d *fakeDriver) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("navigate " + url)
	return d.navigateErr
}

func (d *fakeDriver) Find(ctx context.Context, loc browser.Locator, timeout time.Duration) (browser.Element, error) {
	d.mu.Lock()
	d.record("find " + loc.String())
	block := d.blockFind
	d.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.findErr[loc]; ok {
		return nil, err
	}
	if d.missing[loc] {
		return nil, browser.ErrTimeout
	}
	if d.nilElement[loc] {
		return nil, nil
	}
	return fakeElement{loc: loc}, nil
}

func (d *fakeDriver) Act(ctx context.Context, el browser.Element, action browser.Action) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	loc := el.Locator()
	d.record("act " + action.String() + " " + loc.String())
	d.acts = append(d.acts, actCall{loc: loc, action: action})
	return d.actErr[loc]
}

func (d *fakeDriver) WaitForMarker(ctx context.Context, loc browser.Locator, timeout time.Duration) (browser.Marker, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("wait " + loc.String())
	if err, ok := d.markerErr[loc]; ok {
		return browser.MarkerAbsent, err
	}
	if d.present[loc] {
		return browser.MarkerPresent, nil
	}
	return browser.MarkerAbsent, nil
}

func (d *fakeDriver) Screenshot(ctx context.Context, path string) error {
	d.mu.Lock()
	d.screenshots++
	delay, err := d.shotDelay, d.shotErr
	d.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (d *fakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closes++
	return nil
}

func (d *fakeDriver) callCount(prefix string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (d *fakeDriver) actsOn(loc browser.Locator) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, a := range d.acts {
		if a.loc == loc {
			n++
		}
	}
	return n
}

func (d *fakeDriver) findsOf(loc browser.Locator) int {
	return d.callCount("find " + loc.String())
}

func (d *fakeDriver) closeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

func (d *fakeDriver) screenshotCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.screenshots
}
