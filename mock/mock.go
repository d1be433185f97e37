// Package mock provides test doubles for interview interfaces using function fields.
package mock

import (
	"context"

	"github.com/hireloop/interview"
)

// Interface compliance checks.
var (
	_ interview.Generator = (*Generator)(nil)
	_ interview.Store     = (*Store)(nil)
)

// Generator is a test double for interview.Generator.
// Set GenerateFn before calling Generate.
type Generator struct {
	GenerateFn func(ctx context.Context, turns []interview.Turn) (string, error)
}

// Generate delegates to GenerateFn.
func (g *Generator) Generate(ctx context.Context, turns []interview.Turn) (string, error) {
	return g.GenerateFn(ctx, turns)
}

// Store is a test double for interview.Store.
// Set the function fields for the methods you need.
type Store struct {
	CreateFn func(s *interview.Session) error
	GetFn    func(id string) (*interview.Session, bool)
	MutateFn func(id string, fn func(*interview.Session) error) error
	DeleteFn func(id string)
}

// Create delegates to CreateFn.
func (s *Store) Create(sess *interview.Session) error {
	return s.CreateFn(sess)
}

// Get delegates to GetFn.
func (s *Store) Get(id string) (*interview.Session, bool) {
	return s.GetFn(id)
}

// Mutate delegates to MutateFn.
func (s *Store) Mutate(id string, fn func(*interview.Session) error) error {
	return s.MutateFn(id, fn)
}

// Delete delegates to DeleteFn.
func (s *Store) Delete(id string) {
	s.DeleteFn(id)
}
