package mappings

import (
	"fmt"
	"time"

	"moneymapper/internal/taxonomy"
)

// Action is an operator decision on one conflict.
type Action string

const (
	// ActionKeep discards the candidate and keeps the existing entry
	// (cross-file conflicts).
	ActionKeep Action = "keep"
	// ActionReplace removes the existing entry and files the candidate
	// under its intended scope (cross-file conflicts).
	ActionReplace Action = "replace"
	// ActionUpdateScope moves the existing entry to the candidate's
	// intended scope, keeping the existing fields (cross-file conflicts).
	ActionUpdateScope Action = "update-scope"
	// ActionSkip discards the candidate (same-file conflicts).
	ActionSkip Action = "skip"
	// ActionOverwrite replaces the existing entry with the candidate
	// (same-file conflicts).
	ActionOverwrite Action = "overwrite"
	// ActionAbort cancels the entire batch. Nothing reaches disk.
	ActionAbort Action = "abort"
)

// ConflictKind distinguishes where the colliding entry lives relative to the
// candidate's intended scope.
type ConflictKind string

const (
	// ConflictCrossFile: the pattern exists in the other scope's file.
	ConflictCrossFile ConflictKind = "cross_file"
	// ConflictSameFile: the pattern exists in the candidate's own file.
	ConflictSameFile ConflictKind = "same_file"
)

// Conflict is one pattern collision between a candidate and a stored entry.
// When the pattern is filed in more than one place, Existing is the
// occurrence the action resolves against and Others holds the remaining
// collisions for the operator's report.
type Conflict struct {
	Kind      ConflictKind
	Candidate PatternRef
	Existing  Occurrence
	Others    []Occurrence
}

func (c Conflict) String() string {
	s := fmt.Sprintf("%s conflict on %q: candidate %s vs existing %s:%s",
		c.Kind, c.Candidate.Pattern, c.Candidate.Path(), c.Existing.File, c.Existing.Ref.Path())
	for _, o := range c.Others {
		s += fmt.Sprintf(", also filed at %s:%s", o.File, o.Ref.Path())
	}
	return s
}

// allowedActions lists the legal decisions per conflict kind. Abort is always
// legal.
var allowedActions = map[ConflictKind][]Action{
	ConflictCrossFile: {ActionKeep, ActionReplace, ActionUpdateScope},
	ConflictSameFile:  {ActionSkip, ActionOverwrite},
}

// Decide maps one conflict and one action to the mutations that settle it.
// Pure: it inspects nothing and touches nothing, so decisions are testable
// without a store. ActionAbort is handled by the batch, not here.
func Decide(c Conflict, action Action) (Decision, error) {
	legal := false
	for _, a := range allowedActions[c.Kind] {
		if a == action {
			legal = true
			break
		}
	}
	if !legal {
		return Decision{}, fmt.Errorf("action %q not valid for %s conflict on %q", action, c.Kind, c.Candidate.Pattern)
	}

	switch action {
	case ActionKeep, ActionSkip:
		return Decision{}, nil
	case ActionReplace:
		return Decision{
			RemoveExisting: true,
			Insert:         &c.Candidate,
		}, nil
	case ActionUpdateScope:
		moved := c.Existing.Ref
		moved.Entry.Scope = c.Candidate.Entry.Scope
		return Decision{
			RemoveExisting: true,
			Insert:         &moved,
		}, nil
	case ActionOverwrite:
		return Decision{
			RemoveExisting: true,
			Insert:         &c.Candidate,
		}, nil
	}
	return Decision{}, fmt.Errorf("unknown action %q", action)
}

// Decision is the settled outcome of one conflict: optionally drop the
// existing entry, optionally insert a ref under its entry's scope.
type Decision struct {
	RemoveExisting bool
	Insert         *PatternRef
}

// State tracks a batch through ingestion. Transitions only move forward;
// calling a step out of order is an error.
type State string

const (
	StatePending         State = "PENDING"
	StateValidated       State = "VALIDATED"
	StateConflictChecked State = "CONFLICT_CHECKED"
	StateResolved        State = "RESOLVED"
	StateAborted         State = "ABORTED"
	StatePersisted       State = "PERSISTED"
)

// Batch ingests new mapping entries against a store. All mutations are
// buffered on cloned tables; the live store and its files change only in
// Persist, after every conflict in the batch is decided.
type Batch struct {
	store      *Store
	state      State
	candidates []PatternRef
	rejected   []ValidationIssue
	conflicts  []Conflict

	private Table
	public  Table

	now func() time.Time
}

// NewBatch starts a PENDING batch of candidate entries. Each candidate's
// Entry.Scope names the table it is intended for.
func NewBatch(store *Store, candidates []PatternRef) *Batch {
	return &Batch{
		store:      store,
		state:      StatePending,
		candidates: candidates,
		private:    store.Private.Clone(),
		public:     store.Public.Clone(),
		now:        time.Now,
	}
}

func (b *Batch) State() State { return b.state }

func (b *Batch) Rejected() []ValidationIssue { return b.rejected }

func (b *Batch) Conflicts() []Conflict { return b.conflicts }

func (b *Batch) require(state State, step string) error {
	if b.state != state {
		return fmt.Errorf("%s requires state %s, batch is %s", step, state, b.state)
	}
	return nil
}

// Validate checks each candidate independently. A failing candidate is
// dropped from the batch with its issues recorded; siblings proceed.
func (b *Batch) Validate() error {
	if err := b.require(StatePending, "validate"); err != nil {
		return err
	}
	kept := b.candidates[:0]
	for _, ref := range b.candidates {
		issues := validateCandidate(ref)
		if len(issues) == 0 {
			kept = append(kept, ref)
			continue
		}
		b.rejected = append(b.rejected, issues...)
	}
	b.candidates = kept
	b.state = StateValidated
	return nil
}

func validateCandidate(ref PatternRef) []ValidationIssue {
	var issues []ValidationIssue
	report := func(problem string) {
		issues = append(issues, ValidationIssue{File: "candidate", Ref: ref, Problem: problem})
	}
	e := ref.Entry
	if ref.Pattern == "" {
		report("empty pattern")
	}
	if e.Name == "" {
		report("missing name")
	}
	if e.Scope != ScopePrivate && e.Scope != ScopePublic {
		report(fmt.Sprintf("unknown scope %q", e.Scope))
	}
	if !taxonomy.Valid(e.Category, e.Subcategory) {
		report(fmt.Sprintf("unknown taxonomy pair %s.%s", e.Category, e.Subcategory))
	}
	return issues
}

// CheckConflicts indexes the working tables and records a conflict for every
// candidate whose pattern is already filed. Conflict-free candidates are
// inserted into the working tables immediately; conflicted ones wait for
// Resolve.
func (b *Batch) CheckConflicts() error {
	if err := b.require(StateValidated, "conflict check"); err != nil {
		return err
	}

	// Every occurrence is indexed: a pattern filed in both tables must
	// classify against its own file's entry, not whichever one indexed last.
	index := make(map[string][]Occurrence)
	for _, ref := range b.private.Flatten() {
		index[ref.Pattern] = append(index[ref.Pattern], Occurrence{File: b.store.PrivatePath, Ref: ref})
	}
	for _, ref := range b.public.Flatten() {
		index[ref.Pattern] = append(index[ref.Pattern], Occurrence{File: b.store.PublicPath, Ref: ref})
	}

	var pending []PatternRef
	for _, ref := range b.candidates {
		occurrences := index[ref.Pattern]
		if len(occurrences) == 0 {
			b.tableFor(ref.Entry.Scope).Set(ref.Primary, ref.Detailed, ref.Pattern, ref.Entry)
			index[ref.Pattern] = []Occurrence{{File: b.store.PathFor(ref.Entry.Scope), Ref: ref}}
			continue
		}
		c := Conflict{Kind: ConflictCrossFile, Candidate: ref, Existing: occurrences[0]}
		for _, o := range occurrences {
			if c.Kind == ConflictCrossFile && o.Ref.Entry.Scope == ref.Entry.Scope {
				c.Kind = ConflictSameFile
				c.Existing = o
			}
		}
		for _, o := range occurrences {
			if o != c.Existing {
				c.Others = append(c.Others, o)
			}
		}
		b.conflicts = append(b.conflicts, c)
		pending = append(pending, ref)
	}
	b.candidates = pending
	b.state = StateConflictChecked
	return nil
}

// Resolve settles every recorded conflict with the supplied actions, keyed
// by pattern. A missing action or an illegal one fails the call without
// changing state, so the operator can retry. Any ActionAbort moves the batch
// to ABORTED and discards all buffered work.
func (b *Batch) Resolve(actions map[string]Action) error {
	if err := b.require(StateConflictChecked, "resolve"); err != nil {
		return err
	}

	for _, c := range b.conflicts {
		if actions[c.Candidate.Pattern] == ActionAbort {
			b.state = StateAborted
			b.private = nil
			b.public = nil
			return nil
		}
	}

	type step struct {
		conflict Conflict
		decision Decision
	}
	steps := make([]step, 0, len(b.conflicts))
	for _, c := range b.conflicts {
		action, ok := actions[c.Candidate.Pattern]
		if !ok {
			return fmt.Errorf("no action for conflict on %q", c.Candidate.Pattern)
		}
		decision, err := Decide(c, action)
		if err != nil {
			return err
		}
		steps = append(steps, step{conflict: c, decision: decision})
	}

	for _, s := range steps {
		if s.decision.RemoveExisting {
			ex := s.conflict.Existing.Ref
			b.tableFor(ex.Entry.Scope).Remove(ex.Primary, ex.Detailed, ex.Pattern)
		}
		if ins := s.decision.Insert; ins != nil {
			b.tableFor(ins.Entry.Scope).Set(ins.Primary, ins.Detailed, ins.Pattern, ins.Entry)
		}
	}
	b.state = StateResolved
	return nil
}

// Persist backs up both live files, writes the buffered tables, and swaps
// them into the store. Only a RESOLVED batch persists; an ABORTED one never
// touches disk.
func (b *Batch) Persist() error {
	if err := b.require(StateResolved, "persist"); err != nil {
		return err
	}

	now := b.now()
	if _, err := Backup(b.store.PrivatePath, now); err != nil {
		return err
	}
	if _, err := Backup(b.store.PublicPath, now); err != nil {
		return err
	}

	if err := WriteTable(b.store.PrivatePath, b.private, ScopePrivate); err != nil {
		return err
	}
	if err := WriteTable(b.store.PublicPath, b.public, ScopePublic); err != nil {
		return err
	}

	b.store.Private = b.private
	b.store.Public = b.public
	b.state = StatePersisted
	return nil
}

func (b *Batch) tableFor(scope Scope) Table {
	if scope == ScopePrivate {
		return b.private
	}
	return b.public
}
