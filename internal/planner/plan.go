package planner

import (
	"errors"
	"fmt"
)

// Step operation names, matching gitx.OpName for the step's arguments.
const (
	OpInit         = "init"
	OpAddRemote    = "remote add"
	OpPull         = "pull"
	OpStage        = "add"
	OpCommit       = "commit"
	OpPush         = "push"
	OpRemoveRemote = "remote remove"
)

// ErrInvalidPlan is returned by Build when a request is incomplete.
var ErrInvalidPlan = errors.New("invalid git plan")

// Step is a single git invocation.
type Step struct {
	// Op is the short operation name
	Op string

	// Args is the argument vector passed to git
	Args []string
}

// GitPlan is an immutable description of the git work a command needs.
// The zero value is an empty plan.
type GitPlan struct {
	remote string
	branch string

	initialize bool
	seed       string
	link       string
	pull       bool
	message    string
	push       bool
	unregister bool
}

// Initializes reports whether the plan creates a repository.
func (p GitPlan) Initializes() bool {
	return p.initialize
}

// Link returns the remote link the plan registers, if any.
func (p GitPlan) Link() string {
	return p.link
}

// Pulls reports whether the plan pulls from the remote.
// A commit always pulls first.
func (p GitPlan) Pulls() bool {
	return p.pull || p.message != ""
}

// CommitMessage returns the message of the published commit, if any.
func (p GitPlan) CommitMessage() string {
	return p.message
}

// Pushes reports whether the plan pushes to the remote.
// A commit always pushes.
func (p GitPlan) Pushes() bool {
	return p.push || p.message != ""
}

// RemovesRemote reports whether the plan ends by unregistering the remote.
func (p GitPlan) RemovesRemote() bool {
	return p.unregister
}

// Empty reports whether the plan runs nothing.
func (p GitPlan) Empty() bool {
	return len(p.Steps()) == 0
}

// Steps returns the plan's git invocations in execution order:
// init, remote add, pull, add, commit, push, remote remove.
func (p GitPlan) Steps() []Step {
	var steps []Step

	if p.initialize {
		steps = append(steps, Step{Op: OpInit, Args: []string{"init", "-b", p.branch}})
		if p.seed != "" {
			steps = append(steps, stageStep(), commitStep(p.seed))
		}
	}

	if p.link != "" {
		steps = append(steps, Step{Op: OpAddRemote, Args: []string{"remote", "add", p.remote, p.link}})
	}

	if p.Pulls() {
		steps = append(steps, Step{Op: OpPull, Args: []string{
			"pull", "--no-rebase", "--no-edit", "--allow-unrelated-histories", p.remote, p.branch,
		}})
	}

	if p.message != "" {
		steps = append(steps, stageStep(), commitStep(p.message))
	}

	if p.Pushes() {
		steps = append(steps, Step{Op: OpPush, Args: []string{"push", p.remote, p.branch}})
	}

	if p.unregister {
		steps = append(steps, Step{Op: OpRemoveRemote, Args: []string{"remote", "remove", p.remote}})
	}

	return steps
}

// Ops returns the operation names of the plan's steps.
func (p GitPlan) Ops() []string {
	steps := p.Steps()
	ops := make([]string, 0, len(steps))
	for _, s := range steps {
		ops = append(ops, s.Op)
	}
	return ops
}

func stageStep() Step {
	return Step{Op: OpStage, Args: []string{"add", "."}}
}

func commitStep(message string) Step {
	return Step{Op: OpCommit, Args: []string{"commit", "-m", message}}
}

// Builder accumulates a git request. Methods may be called in any order;
// the resulting plan's order is fixed.
type Builder struct {
	plan GitPlan
	errs []error
}

// NewBuilder creates a Builder for the given remote and branch.
func NewBuilder(remote, branch string) *Builder {
	return &Builder{plan: GitPlan{remote: remote, branch: branch}}
}

// Initialize requests a new repository. A non-empty seed commits whatever is
// already in the work tree with that message, locally.
func (b *Builder) Initialize(seed string) *Builder {
	b.plan.initialize = true
	b.plan.seed = seed
	return b
}

// AddRemote requests registering link under the builder's remote name.
func (b *Builder) AddRemote(link string) *Builder {
	if link == "" {
		b.errs = append(b.errs, fmt.Errorf("%w: empty remote link", ErrInvalidPlan))
	}
	b.plan.link = link
	return b
}

// Pull requests a pull from the remote.
func (b *Builder) Pull() *Builder {
	b.plan.pull = true
	return b
}

// Commit requests staging everything, committing with message and pushing.
func (b *Builder) Commit(message string) *Builder {
	if message == "" {
		b.errs = append(b.errs, fmt.Errorf("%w: empty commit message", ErrInvalidPlan))
	}
	b.plan.message = message
	return b
}

// Push requests pushing the branch without committing anything new.
// Commits left behind by an earlier failed push are published this way.
func (b *Builder) Push() *Builder {
	b.plan.push = true
	return b
}

// RemoveRemote requests unregistering the remote after everything else.
func (b *Builder) RemoveRemote() *Builder {
	b.plan.unregister = true
	return b
}

// Build freezes the request.
func (b *Builder) Build() (GitPlan, error) {
	if len(b.errs) > 0 {
		return GitPlan{}, errors.Join(b.errs...)
	}

	needsRemote := b.plan.link != "" || b.plan.Pulls() || b.plan.Pushes() || b.plan.unregister
	if needsRemote && b.plan.remote == "" {
		return GitPlan{}, fmt.Errorf("%w: remote name is required", ErrInvalidPlan)
	}
	if (b.plan.initialize || b.plan.Pulls() || b.plan.Pushes()) && b.plan.branch == "" {
		return GitPlan{}, fmt.Errorf("%w: branch name is required", ErrInvalidPlan)
	}

	return b.plan, nil
}
