package project

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sliced/pkg/errors"
)

// ErrNotFound is returned when a project does not exist.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "project not found")

// Project is a named, persisted state together with the layout options the
// user last rendered it with. Options holds the encoded pipeline options.
type Project struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	State     State           `json:"state"`
	Options   json.RawMessage `json:"options,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// New creates an empty project with a random id.
func New(name string) (*Project, error) {
	if err := errors.ValidateProjectName(name); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Project{
		ID:        uuid.NewString(),
		Name:      name,
		State:     State{Images: []Image{}},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply runs action on the project state and bumps UpdatedAt.
func (p *Project) Apply(action Action) {
	p.State = action(p.State)
	p.UpdatedAt = time.Now().UTC()
}

// Store persists projects.
type Store interface {
	// Get returns the project with the given id, or an error wrapping
	// ErrNotFound.
	Get(ctx context.Context, id string) (*Project, error)

	// Put creates or replaces a project.
	Put(ctx context.Context, p *Project) error

	// Delete removes a project. Deleting a missing project is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all projects, most recently updated first.
	List(ctx context.Context) ([]*Project, error)

	// Close releases resources held by the store.
	Close() error
}

// Resolve finds a project by id, unique id prefix, or exact name.
func Resolve(ctx context.Context, s Store, ref string) (*Project, error) {
	if _, err := uuid.Parse(ref); err == nil {
		return s.Get(ctx, ref)
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*Project
	for _, p := range all {
		if p.Name == ref {
			return p, nil
		}
		if len(ref) >= 4 && len(p.ID) >= len(ref) && p.ID[:len(ref)] == ref {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "project reference %q is ambiguous", ref)
	}
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid project id %q", id)
	}
	return nil
}
