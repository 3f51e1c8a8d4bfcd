// Package planner handles the git side of every dfm command.
//
// A command describes what it needs (initialize the mirror, register a remote,
// pull, commit and push, unregister the remote) on a Builder, which freezes
// the request into an immutable GitPlan. The Executor then runs the plan's
// steps in a fixed order and stops at the first failure.
//
// Key responsibilities:
//   - Derive the ordered git argument vectors for a request
//   - Pull before any commit so pushes are never rejected as stale
//   - Stop at the first failing step and report which step failed
//   - Run the remote-remove compensation last, when requested
package planner
