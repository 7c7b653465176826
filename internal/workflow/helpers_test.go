package workflow

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"booktracker/internal/records"
	"booktracker/internal/store"
)

var dune = records.Fields{Section: "A1", Title: "Dune", Genre: "SciFi", Date: "2024-05-01"}

// spyStore counts calls into a memory store and can fail chosen operations.
type spyStore struct {
	*store.Memory
	mu      sync.Mutex
	calls   map[string]int
	updates []records.Fields
	fail    map[string]error
}

func newSpyStore() *spyStore {
	return &spyStore{Memory: store.NewMemory(nil), calls: map[string]int{}, fail: map[string]error{}}
}

func (s *spyStore) hit(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	return s.fail[op]
}

func (s *spyStore) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *spyStore) remoteCalls() int {
	return s.count("create") + s.count("update") + s.count("delete")
}

func (s *spyStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

func (s *spyStore) Create(ctx context.Context, f records.Fields) (string, error) {
	if err := s.hit("create"); err != nil {
		return "", err
	}
	return s.Memory.Create(ctx, f)
}

func (s *spyStore) ListAll(ctx context.Context) ([]records.Record, error) {
	if err := s.hit("list"); err != nil {
		return nil, err
	}
	return s.Memory.ListAll(ctx)
}

func (s *spyStore) UpdateByID(ctx context.Context, id string, f records.Fields) error {
	if err := s.hit("update"); err != nil {
		return err
	}
	s.mu.Lock()
	s.updates = append(s.updates, f)
	s.mu.Unlock()
	return s.Memory.UpdateByID(ctx, id, f)
}

func (s *spyStore) DeleteByID(ctx context.Context, id string) error {
	if err := s.hit("delete"); err != nil {
		return err
	}
	return s.Memory.DeleteByID(ctx, id)
}

// recorder keeps every reported Result.
type recorder struct {
	mu      sync.Mutex
	results []Result
}

func (r *recorder) Report(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) all() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.results...)
}

// scripted answers prompts from a fixed list.
type scripted struct {
	answers []Answer
	confirm bool
	asked   []Prompt
	err     error
}

func (s *scripted) Ask(_ context.Context, p Prompt) (Answer, error) {
	s.asked = append(s.asked, p)
	if len(s.answers) == 0 {
		return Answer{}, errors.New("no scripted answer left")
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *scripted) Confirm(context.Context, Confirmation) (bool, error) {
	return s.confirm, s.err
}

func seed(s *spyStore, f records.Fields) string {
	id, err := s.Memory.Create(context.Background(), f)
	if err != nil {
		panic(err)
	}
	return id
}
