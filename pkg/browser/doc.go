// Package browser provides the browser capability used by the join workflow.
//
// The package has two halves:
//
//  1. Driver: a small interface (navigate, find, act, wait for a marker,
//     screenshot, close) that the join workflow is written against.
//  2. Session: the Playwright implementation of Driver. Each Session owns
//     its own Playwright process, Chromium instance, context and page, so
//     meeting attempts never share a browser.
//
// # Locators
//
// Elements are located the way a user would describe them rather than by CSS
// selector:
//
//   - ByRole("button", "Join Meeting")
//   - ByPlaceholder("User identifier")
//   - ByText("Authentication required")
//   - ByTag("video")
//
// # Concurrency
//
// A Session is not safe for concurrent use. The join orchestrator is its
// only caller for the lifetime of an attempt. Close is idempotent.
//
// # Example Usage
//
//	session, err := browser.Launch(browser.SessionOptions{
//	    Headless: true,
//	    Install:  true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	err = session.Navigate(ctx, "https://meet.jit.si/standup", 30*time.Second)
package browser
