// Package importer implements the delimited-text bulk creation flow: a
// text blob with one "name | attribute" candidate per line is parsed,
// validated against a resolver, confirmed by the user as an aggregate
// count, and then submitted sequentially through a resource controller.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicore/crm_admin_app/internal/core/domain"
	"github.com/clinicore/crm_admin_app/internal/logging"
)

// State is the bulk-add dialog state.
type State int

const (
	StateIdle State = iota
	StateTextEntered
	StateLinesParsed
	StateSubmitting
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTextEntered:
		return "text-entered"
	case StateLinesParsed:
		return "lines-parsed"
	case StateSubmitting:
		return "submitting"
	}
	return "unknown"
}

// Candidate is one accepted line, with its second field already resolved
// (enum value normalized, or reference name replaced by its id).
type Candidate struct {
	Name string
	Attr string
}

// Skipped describes a rejected line. The original flow dropped these
// silently; they are reported here so imports cannot lose data unnoticed.
type Skipped struct {
	Line   int
	Raw    string
	Reason string
}

// Result is the aggregate outcome of a submitted batch.
type Result struct {
	BatchID string
	Created int
	Failed  int
	Skipped int
}

// Resolver validates and normalizes the second field of a line.
type Resolver func(raw string) (string, error)

// EnumResolver resolves against a fixed set of allowed values,
// case-insensitively after trimming.
func EnumResolver(allowed ...string) Resolver {
	return func(raw string) (string, error) {
		needle := strings.ToLower(strings.TrimSpace(raw))
		for _, v := range allowed {
			if needle == strings.ToLower(v) {
				return v, nil
			}
		}
		return "", fmt.Errorf("%q is not one of %s", raw, strings.Join(allowed, "/"))
	}
}

// LedgerTypeResolver resolves "income"/"expense" text to a LedgerType value.
func LedgerTypeResolver() Resolver {
	return func(raw string) (string, error) {
		t, ok := domain.ParseLedgerType(raw)
		if !ok {
			return "", fmt.Errorf("%q is not a ledger type", raw)
		}
		return string(t), nil
	}
}

// ReferenceResolver resolves a display name to an id via the given lookup,
// case-insensitively after trimming. Used to turn a ledger name into its
// id when importing sub-ledgers.
func ReferenceResolver(lookup map[string]string) Resolver {
	folded := make(map[string]string, len(lookup))
	for name, id := range lookup {
		folded[strings.ToLower(strings.TrimSpace(name))] = id
	}
	return func(raw string) (string, error) {
		id, ok := folded[strings.ToLower(strings.TrimSpace(raw))]
		if !ok {
			return "", fmt.Errorf("%q does not match any existing record", raw)
		}
		return id, nil
	}
}

// Submitter is the controller slice the importer needs: the sequential
// bulk-create path.
type Submitter[T any] interface {
	BulkCreate(ctx context.Context, records []T) (int, error)
}

// Importer drives one bulk-add flow for records of type T.
type Importer[T any] struct {
	submitter Submitter[T]
	resolver  Resolver
	build     func(name, attr string) T

	state      State
	text       string
	candidates []Candidate
	skipped    []Skipped
}

// New creates an Importer. build turns an accepted candidate into the
// record handed to the controller.
func New[T any](submitter Submitter[T], resolver Resolver, build func(name, attr string) T) *Importer[T] {
	return &Importer[T]{submitter: submitter, resolver: resolver, build: build}
}

// State returns the current dialog state.
func (i *Importer[T]) State() State { return i.state }

// SetText stores the raw blob and moves Idle -> TextEntered.
// Entering new text discards any previous parse.
func (i *Importer[T]) SetText(text string) error {
	if i.state == StateSubmitting {
		return fmt.Errorf("cannot edit text while submitting")
	}
	i.text = text
	i.candidates = nil
	i.skipped = nil
	i.state = StateTextEntered
	return nil
}

// Parse splits the blob into candidates and moves TextEntered ->
// LinesParsed. Blank lines are dropped; lines that do not have exactly two
// pipe-delimited fields, or whose second field the resolver rejects, are
// skipped with a recorded reason. The accepted count is what the user
// confirms before Submit.
func (i *Importer[T]) Parse() (int, []Skipped, error) {
	if i.state != StateTextEntered {
		return 0, nil, fmt.Errorf("nothing to parse in state %s", i.state)
	}

	i.candidates = nil
	i.skipped = nil
	for n, line := range strings.Split(i.text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 2 {
			i.skip(n+1, line, "expected exactly 2 pipe-delimited fields")
			continue
		}
		name := strings.TrimSpace(parts[0])
		if name == "" {
			i.skip(n+1, line, "name is empty")
			continue
		}
		attr, err := i.resolver(parts[1])
		if err != nil {
			i.skip(n+1, line, err.Error())
			continue
		}
		i.candidates = append(i.candidates, Candidate{Name: name, Attr: attr})
	}

	i.state = StateLinesParsed
	return len(i.candidates), i.skipped, nil
}

// Candidates returns the accepted lines of the last parse.
func (i *Importer[T]) Candidates() []Candidate {
	out := make([]Candidate, len(i.candidates))
	copy(out, i.candidates)
	return out
}

// Submit sends every accepted candidate through the controller's
// sequential bulk-create path and returns the aggregate result. Moves
// LinesParsed -> Submitting -> Idle. There is no partial cancel once
// submission has started.
func (i *Importer[T]) Submit(ctx context.Context) (Result, error) {
	if i.state != StateLinesParsed {
		return Result{}, fmt.Errorf("nothing confirmed to submit in state %s", i.state)
	}
	i.state = StateSubmitting

	result := Result{
		BatchID: uuid.NewString(),
		Skipped: len(i.skipped),
	}
	logger := logging.FromCtx(ctx).With(slog.String("batch_id", result.BatchID))
	for _, skipped := range i.skipped {
		logger.Warn("Import line skipped",
			slog.Int("line", skipped.Line),
			slog.String("raw", skipped.Raw),
			slog.String("reason", skipped.Reason))
	}

	records := make([]T, len(i.candidates))
	for n, cand := range i.candidates {
		records[n] = i.build(cand.Name, cand.Attr)
	}

	created, err := i.submitter.BulkCreate(ctx, records)
	result.Created = created
	result.Failed = len(records) - created

	i.reset()
	logger.Info("Import batch finished",
		slog.Int("created", result.Created),
		slog.Int("failed", result.Failed),
		slog.Int("skipped", result.Skipped))
	return result, err
}

// Cancel returns to Idle from any state except mid-submission, which
// cannot be interrupted.
func (i *Importer[T]) Cancel() error {
	if i.state == StateSubmitting {
		return fmt.Errorf("cannot cancel while submitting")
	}
	i.reset()
	return nil
}

func (i *Importer[T]) reset() {
	i.state = StateIdle
	i.text = ""
	i.candidates = nil
	i.skipped = nil
}

func (i *Importer[T]) skip(line int, raw, reason string) {
	i.skipped = append(i.skipped, Skipped{Line: line, Raw: raw, Reason: reason})
}
