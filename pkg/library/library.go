// Package library keeps named tune sources in a local database, so they can
// be compiled, played or exported later by name.
//
// Records are msgpack encoded and stored in BadgerDB under "tune:<name>".
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/tonescribe/pkg/audio/songs"
	"github.com/haivivi/tonescribe/pkg/song"
)

// ErrNotFound is returned when no tune has the requested name.
var ErrNotFound = errors.New("library: not found")

const keyPrefix = "tune:"

// Tune is a stored tune.
type Tune struct {
	ID      string    `msgpack:"id" json:"id" yaml:"id"`
	Name    string    `msgpack:"name" json:"name" yaml:"name"`
	Grammar string    `msgpack:"grammar" json:"grammar" yaml:"grammar"`
	Source  string    `msgpack:"source" json:"source" yaml:"source"`
	Created time.Time `msgpack:"created" json:"created" yaml:"created"`
	Updated time.Time `msgpack:"updated" json:"updated" yaml:"updated"`
}

// Compile compiles the whole tune with the compiler for its grammar.
func (t *Tune) Compile() (*song.Song, error) {
	return songs.Tune{ID: t.Name, Name: t.Name, Grammar: t.Grammar, Source: t.Source}.Compile()
}

// Options configures Open.
type Options struct {
	// Dir is the database directory. Required unless InMemory is set.
	Dir string

	// InMemory keeps the database in memory only.
	InMemory bool
}

// Library is a tune database. It is safe for concurrent use.
type Library struct {
	db  store
	now func() time.Time
}

// Open opens or creates a library.
func Open(opts Options) (*Library, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("library: Options.Dir is required")
	}
	db, err := openBadger(opts.Dir, opts.InMemory)
	if err != nil {
		return nil, fmt.Errorf("library: open %s: %w", opts.Dir, err)
	}
	return &Library{db: db, now: time.Now}, nil
}

// NewMemory returns a library backed by a plain map, for tests and one-off
// runs.
func NewMemory() *Library {
	return &Library{db: newMemoryStore(), now: time.Now}
}

func key(name string) []byte {
	return []byte(keyPrefix + name)
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("library: empty tune name")
	}
	if strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("library: tune name %q has a line break", name)
	}
	return nil
}

// Put stores source under name, replacing any tune of that name but keeping
// its id and creation time.
func (l *Library) Put(ctx context.Context, name, grammar, source string) (*Tune, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if _, err := songs.Compiler(grammar); err != nil {
		return nil, fmt.Errorf("library: %w", err)
	}
	if grammar == "" {
		grammar = songs.MusicString
	}

	now := l.now().UTC()
	t, err := l.Get(ctx, name)
	switch {
	case errors.Is(err, ErrNotFound):
		t = &Tune{ID: uuid.NewString(), Name: name, Created: now}
	case err != nil:
		return nil, err
	}
	t.Grammar, t.Source, t.Updated = grammar, source, now

	data, err := msgpack.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("library: encode %s: %w", name, err)
	}
	if err := l.db.set(ctx, key(name), data); err != nil {
		return nil, fmt.Errorf("library: put %s: %w", name, err)
	}
	return t, nil
}

// Get returns the tune called name.
func (l *Library) Get(ctx context.Context, name string) (*Tune, error) {
	data, err := l.db.get(ctx, key(name))
	if errors.Is(err, errNoKey) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("library: get %s: %w", name, err)
	}
	var t Tune
	if err := msgpack.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("library: decode %s: %w", name, err)
	}
	return &t, nil
}

// Delete removes the tune called name.
func (l *Library) Delete(ctx context.Context, name string) error {
	err := l.db.delete(ctx, key(name))
	if errors.Is(err, errNoKey) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}

// List returns every tune sorted by name.
func (l *Library) List(ctx context.Context) ([]*Tune, error) {
	var tunes []*Tune
	for data, err := range l.db.scan(ctx, []byte(keyPrefix)) {
		if err != nil {
			return nil, fmt.Errorf("library: list: %w", err)
		}
		var t Tune
		if err := msgpack.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("library: decode: %w", err)
		}
		tunes = append(tunes, &t)
	}
	return tunes, nil
}

// Close closes the database.
func (l *Library) Close() error {
	return l.db.close()
}
