// Copyright (c) 2025 Veldt Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

// ErrNotFound reports a pet id with no matching record.
var ErrNotFound = errors.New("no pet with that id")

// Store is an in-memory pet registry. Safe for concurrent use.
type Store struct {
	mu sync.Mutex
	m  map[string]Pet
}

func NewStore() *Store {
	return &Store{
		m: make(map[string]Pet),
	}
}

func (s *Store) Register(ctx context.Context, name string, kind Kind) (Pet, error) {
	_, span := otel.Tracer("pet").Start(ctx, "Store.Register")
	defer span.End()

	uid, err := uuid.NewRandom()
	if err != nil {
		return Pet{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Pet{
		Id:           uid.String(),
		Name:         name,
		Kind:         kind,
		RegisteredAt: time.Now(),
	}
	s.m[p.Id] = p
	return p, nil
}

func (s *Store) Find(ctx context.Context, id string) (Pet, error) {
	_, span := otel.Tracer("pet").Start(ctx, "Store.Find")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.m[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *Store) List(ctx context.Context) ([]Pet, error) {
	_, span := otel.Tracer("pet").Start(ctx, "Store.List")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	pets := make([]Pet, 0, len(s.m))
	for _, p := range s.m {
		pets = append(pets, p)
	}
	return pets, nil
}

func (s *Store) Adopt(ctx context.Context, id string) (Pet, error) {
	_, span := otel.Tracer("pet").Start(ctx, "Store.Adopt")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.m[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	p.Adopted = true
	s.m[id] = p
	return p, nil
}
