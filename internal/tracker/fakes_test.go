package tracker_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobmate/application-tracker/internal/application"
	"jobmate/application-tracker/internal/events"
	"jobmate/application-tracker/internal/store"
)

var (
	userID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	// 2024-03-13 is a Wednesday.
	fixedNow = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
)

func clock() time.Time { return fixedNow }

// fakeStore keeps applications in memory, newest first.
type fakeStore struct {
	mu       sync.Mutex
	apps     []application.JobApplication
	err      error
	lastOpts store.ListOptions
}

func (f *fakeStore) List(_ context.Context, uid uuid.UUID, opts store.ListOptions) ([]application.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	out := make([]application.JobApplication, 0)
	for _, a := range f.apps {
		if a.UserID != uid {
			continue
		}
		if opts.Status != nil && a.Status != *opts.Status {
			continue
		}
		if opts.JobType != nil && a.JobType != *opts.JobType {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, uid, id uuid.UUID) (*application.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.ID == id && a.UserID == uid {
			return &a, nil
		}
	}
	return nil, application.ErrNotFound
}

func (f *fakeStore) Create(_ context.Context, uid uuid.UUID, in application.Input) (*application.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	app := application.JobApplication{ID: uuid.New(), UserID: uid, CreatedAt: fixedNow, UpdatedAt: fixedNow}
	in.Apply(&app)
	f.apps = slices.Insert(f.apps, 0, app)
	return &app, nil
}

func (f *fakeStore) Update(_ context.Context, uid, id uuid.UUID, in application.Input) (*application.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.apps {
		if f.apps[i].ID == id && f.apps[i].UserID == uid {
			in.Apply(&f.apps[i])
			f.apps[i].UpdatedAt = fixedNow.Add(time.Minute)
			app := f.apps[i]
			return &app, nil
		}
	}
	return nil, application.ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, uid, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.apps {
		if f.apps[i].ID == id && f.apps[i].UserID == uid {
			f.apps = slices.Delete(f.apps, i, i+1)
			return nil
		}
	}
	return application.ErrNotFound
}

func (f *fakeStore) add(app application.JobApplication) application.JobApplication {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.UserID == uuid.Nil {
		app.UserID = userID
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = fixedNow
		app.UpdatedAt = fixedNow
	}
	f.apps = append(f.apps, app)
	return app
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeDismissals struct {
	set map[uuid.UUID]bool
	err error
}

func (d *fakeDismissals) Dismiss(_ context.Context, _, appID uuid.UUID) error {
	if d.set == nil {
		d.set = map[uuid.UUID]bool{}
	}
	d.set[appID] = true
	return nil
}

func (d *fakeDismissals) Dismissed(context.Context, uuid.UUID) (map[uuid.UUID]bool, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.set, nil
}

var errBoom = errors.New("boom")

func mkApp(company string, status application.Status, applied string, followUp string) application.JobApplication {
	app := application.JobApplication{
		CompanyName:     company,
		JobRole:         "Engineer",
		JobType:         application.JobTypeFullTime,
		Status:          status,
		ApplicationDate: application.MustParseDate(applied),
	}
	if followUp != "" {
		d := application.MustParseDate(followUp)
		app.FollowUpDate = &d
	}
	return app
}

func validInput() application.Input {
	return application.Input{
		CompanyName:     "  Acme  ",
		JobRole:         "Backend Engineer",
		JobType:         application.JobTypeFullTime,
		Status:          application.StatusApplied,
		ApplicationDate: application.MustParseDate("2024-03-10"),
	}
}
