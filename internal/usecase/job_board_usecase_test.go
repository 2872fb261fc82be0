package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"labor-board/internal/domain/job"
	"labor-board/internal/domain/profile"
)

type fakeJobRepo struct {
	jobs      map[uuid.UUID]job.Job
	order     []uuid.UUID
	listErr   error
	updateErr error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uuid.UUID]job.Job{}}
}

func (f *fakeJobRepo) add(j job.Job) job.Job {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	f.jobs[j.ID] = j
	f.order = append(f.order, j.ID)
	return j
}

func (f *fakeJobRepo) ListAll(context.Context) ([]job.Job, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]job.Job, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.jobs[id])
	}
	return out, nil
}

func (f *fakeJobRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]job.Job, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []job.Job{}
	for _, id := range f.order {
		if f.jobs[id].ClientID == clientID {
			out = append(out, f.jobs[id])
		}
	}
	return out, nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (f *fakeJobRepo) Insert(_ context.Context, j job.Job) (job.Job, error) {
	return f.add(j.StripJoins()), nil
}

func (f *fakeJobRepo) UpdateStatus(_ context.Context, id uuid.UUID, status job.Status) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	j, ok := f.jobs[id]
	if !ok {
		return job.ErrNotFound
	}
	j.Status = status
	f.jobs[id] = j
	return nil
}

type fakeAppRepo struct {
	apps      map[uuid.UUID]job.Application
	insertErr error
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: map[uuid.UUID]job.Application{}}
}

func (f *fakeAppRepo) GetByID(_ context.Context, id uuid.UUID) (job.Application, error) {
	a, ok := f.apps[id]
	if !ok {
		return job.Application{}, job.ErrApplicationNotFound
	}
	return a, nil
}

func (f *fakeAppRepo) Insert(_ context.Context, a job.Application) (job.Application, error) {
	if f.insertErr != nil {
		return job.Application{}, f.insertErr
	}
	for _, existing := range f.apps {
		if existing.JobID == a.JobID && existing.ApplicantID == a.ApplicantID {
			return job.Application{}, job.ErrDuplicateApplication
		}
	}
	a.ID = uuid.New()
	f.apps[a.ID] = a
	return a, nil
}

func (f *fakeAppRepo) UpdateStatus(_ context.Context, id uuid.UUID, status job.ApplicationStatus) error {
	a, ok := f.apps[id]
	if !ok {
		return job.ErrApplicationNotFound
	}
	a.Status = status
	f.apps[id] = a
	return nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]profile.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]profile.Profile{}}
}

func (f *fakeProfileRepo) add(role profile.Role) profile.Profile {
	p := profile.Profile{ID: uuid.New(), FullName: "Test User", Role: role}
	f.profiles[p.ID] = p
	return p
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p profile.Profile) error {
	f.profiles[p.ID] = p
	return nil
}

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) BoardChanged() { n.calls++ }

type boardFixture struct {
	board    *Board
	jobs     *fakeJobRepo
	apps     *fakeAppRepo
	profiles *fakeProfileRepo
	notifier *countingNotifier
}

func newBoardFixture() boardFixture {
	jobs := newFakeJobRepo()
	apps := newFakeAppRepo()
	profiles := newFakeProfileRepo()
	notifier := &countingNotifier{}
	board := NewBoard(jobs, apps, profiles, ContextIdentity{}, notifier)
	return boardFixture{board: board, jobs: jobs, apps: apps, profiles: profiles, notifier: notifier}
}

func asViewer(id uuid.UUID) context.Context {
	return WithViewer(context.Background(), id)
}

func TestBoard_PostJob_ClientOnly(t *testing.T) {
	fx := newBoardFixture()
	laborer := fx.profiles.add(profile.RoleLaborer)

	_, _, err := fx.board.PostJob(asViewer(laborer.ID), PostJobInput{
		Title: "t", Description: "d", Category: "c", Location: "l",
	})
	if !errors.Is(err, job.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for laborer, got %v", err)
	}
}

func TestBoard_PostJob_ReturnsFreshSnapshot(t *testing.T) {
	fx := newBoardFixture()
	client := fx.profiles.add(profile.RoleClient)

	created, snapshot, err := fx.board.PostJob(asViewer(client.ID), PostJobInput{
		Title: "Fix roof", Description: "Replace tiles", Category: "construction", Location: "Oslo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("created job has no id")
	}
	if len(snapshot) != 1 || snapshot[0].ID != created.ID {
		t.Fatalf("snapshot does not contain the new job")
	}
	if fx.notifier.calls != 1 {
		t.Fatalf("expected 1 board notification, got %d", fx.notifier.calls)
	}
}

func TestBoard_MutationsRequireRegisteredProfile(t *testing.T) {
	fx := newBoardFixture()

	// No identity on the context at all.
	_, _, err := fx.board.PostJob(context.Background(), PostJobInput{Title: "t", Description: "d", Category: "c", Location: "l"})
	if !errors.Is(err, job.ErrForbidden) {
		t.Fatalf("anonymous post: expected ErrForbidden, got %v", err)
	}

	// Identity present but no profile row.
	_, err = fx.board.Apply(asViewer(uuid.New()), uuid.New())
	if !errors.Is(err, job.ErrForbidden) {
		t.Fatalf("profile-less apply: expected ErrForbidden, got %v", err)
	}

	// Profile exists but registration never completed.
	bare := profile.Profile{ID: uuid.New(), Role: profile.RoleClient}
	fx.profiles.profiles[bare.ID] = bare
	_, err = fx.board.ToggleJobStatus(asViewer(bare.ID), uuid.New())
	if !errors.Is(err, job.ErrForbidden) {
		t.Fatalf("unregistered toggle: expected ErrForbidden, got %v", err)
	}
}

func TestBoard_ListJobs_OwnerWithoutIdentityIsEmpty(t *testing.T) {
	fx := newBoardFixture()
	client := fx.profiles.add(profile.RoleClient)
	fx.jobs.add(job.Job{ClientID: client.ID, Status: job.StatusOpen})

	got, err := fx.board.ListJobs(context.Background(), profile.RoleClient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("anonymous client listing should be empty, got %d", len(got))
	}
}

func TestBoard_ListJobs_UnknownRole(t *testing.T) {
	fx := newBoardFixture()
	_, err := fx.board.ListJobs(context.Background(), profile.Role("admin"))
	if !errors.Is(err, job.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestBoard_ListJobs_StorageFailure(t *testing.T) {
	fx := newBoardFixture()
	fx.jobs.listErr = errors.New("connection refused")

	_, err := fx.board.ListJobs(context.Background(), profile.RoleLaborer)
	if !errors.Is(err, job.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestBoard_ApplyApproveRequery(t *testing.T) {
	fx := newBoardFixture()
	client := fx.profiles.add(profile.RoleClient)
	laborer := fx.profiles.add(profile.RoleLaborer)
	posted := fx.jobs.add(job.Job{ClientID: client.ID, Status: job.StatusOpen, Title: "Dig trench"})

	if _, err := fx.board.Apply(asViewer(laborer.ID), posted.ID); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	var appID uuid.UUID
	for id, a := range fx.apps.apps {
		if a.JobID == posted.ID && a.ApplicantID == laborer.ID {
			appID = id
		}
	}
	if appID == uuid.Nil {
		t.Fatalf("application not persisted")
	}

	snapshot, err := fx.board.DecideApplication(asViewer(client.ID), appID, job.ApplicationApproved)
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if len(snapshot) != 1 {
		t.Fatalf("owner snapshot should have 1 job, got %d", len(snapshot))
	}
	if got := fx.apps.apps[appID].Status; got != job.ApplicationApproved {
		t.Fatalf("expected approved, got %s", got)
	}
	// Apply and decide each refreshed the board.
	if fx.notifier.calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", fx.notifier.calls)
	}
}

func TestBoard_Apply_LaborerOnly(t *testing.T) {
	fx := newBoardFixture()
	client := fx.profiles.add(profile.RoleClient)
	posted := fx.jobs.add(job.Job{ClientID: client.ID, Status: job.StatusOpen})

	_, err := fx.board.Apply(asViewer(client.ID), posted.ID)
	if !errors.Is(err, job.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestBoard_Apply_DuplicateConflict(t *testing.T) {
	fx := newBoardFixture()
	client := fx.profiles.add(profile.RoleClient)
	laborer := fx.profiles.add(profile.RoleLaborer)
	posted := fx.jobs.add(job.Job{ClientID: client.ID, Status: job.StatusOpen})

	if _, err := fx.board.Apply(asViewer(laborer.ID), posted.ID); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	// The job row the engine sees is re-fetched without the new application
	// join, so the conflict comes back from the store's constraint.
	_, err := fx.board.Apply(asViewer(laborer.ID), posted.ID)
	if !errors.Is(err, job.ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication, got %v", err)
	}
}

func TestBoard_ToggleJobStatus_OwnerFlips(t *testing.T) {
	fx := newBoardFixture()
	client := fx.profiles.add(profile.RoleClient)
	posted := fx.jobs.add(job.Job{ClientID: client.ID, Status: job.StatusOpen})

	snapshot, err := fx.board.ToggleJobStatus(asViewer(client.ID), posted.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if fx.jobs.jobs[posted.ID].Status != job.StatusCompleted {
		t.Fatalf("status not persisted")
	}
	// The owner still sees their own completed job.
	if len(snapshot) != 1 || snapshot[0].Status != job.StatusCompleted {
		t.Fatalf("owner snapshot wrong after toggle")
	}
}

func TestBoard_ToggleJobStatus_NonOwnerForbidden(t *testing.T) {
	fx := newBoardFixture()
	client := fx.profiles.add(profile.RoleClient)
	other := fx.profiles.add(profile.RoleContractor)
	posted := fx.jobs.add(job.Job{ClientID: client.ID, Status: job.StatusOpen})

	_, err := fx.board.ToggleJobStatus(asViewer(other.ID), posted.ID)
	if !errors.Is(err, job.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestBoard_DecideApplication_MissingApplication(t *testing.T) {
	fx := newBoardFixture()
	client := fx.profiles.add(profile.RoleClient)

	_, err := fx.board.DecideApplication(asViewer(client.ID), uuid.New(), job.ApplicationApproved)
	if !errors.Is(err, job.ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestContextIdentity(t *testing.T) {
	var ident ContextIdentity

	if _, ok := ident.CurrentUserID(context.Background()); ok {
		t.Fatalf("bare context should carry no identity")
	}

	id := uuid.New()
	got, ok := ident.CurrentUserID(WithViewer(context.Background(), id))
	if !ok || got != id {
		t.Fatalf("stamped identity not read back")
	}

	if _, ok := ident.CurrentUserID(WithViewer(context.Background(), uuid.Nil)); ok {
		t.Fatalf("nil uuid should not count as an identity")
	}
}
