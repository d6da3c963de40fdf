package person

import (
	"context"
	"errors"
	"time"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/domain/post"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/clock"
)

var (
	today     = clock.Date(2024, time.March, 10)
	errBroken = errors.New("store unavailable")
)

// faultyRepo wraps a Repository and fails the selected operations.
type faultyRepo struct {
	Repository
	failCreate error
	failUpdate error
	failDelete error
}

func (f *faultyRepo) Create(ctx context.Context, p *Person) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	return f.Repository.Create(ctx, p)
}

func (f *faultyRepo) Update(ctx context.Context, p *Person) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	return f.Repository.Update(ctx, p)
}

func (f *faultyRepo) Delete(ctx context.Context, id string) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	return f.Repository.Delete(ctx, id)
}

type mockPosts struct {
	items map[string]*post.Post
}

func (m *mockPosts) GetPost(_ context.Context, id string) (*post.Post, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("post", id)
	}
	return p, nil
}

func newMockPosts() *mockPosts {
	return &mockPosts{items: map[string]*post.Post{
		"post-1": {ID: "post-1", DisasterID: "d-1", Name: "Posko", Address: "Cianjur", Capacity: 100, Status: post.StatusActive},
	}}
}

func sampleVictim() *Person {
	return NewVictim("Siti", "Cugenang", SexFemale, clock.Date(1990, time.May, 1), VictimDetails{
		Triage:    TriageYellow,
		Condition: "fractured arm",
		FoundAt:   "collapsed house",
		PostID:    "post-1",
	})
}

func sampleStaff() *Person {
	return NewStaff("Dr. Andi", "Bandung", SexMale, clock.Date(1985, time.January, 2), StaffDetails{
		License:        "SIP-001",
		Role:           RoleDoctor,
		Specialization: "emergency medicine",
		PostID:         "post-1",
	})
}
