package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompt-future/backend/internal/models"
	"github.com/prompt-future/backend/pkg/queue"
)

type fakeQueue struct {
	mu       sync.Mutex
	jobs     []*queue.Job
	dequeues []time.Time
	retried  []*queue.Job
	cancel   context.CancelFunc
}

func (f *fakeQueue) Dequeue(ctx context.Context) (*queue.Job, error) {
	f.mu.Lock()
	f.dequeues = append(f.dequeues, time.Now())
	if len(f.jobs) == 0 {
		f.mu.Unlock()
		f.cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	}
	job := f.jobs[0]
	f.jobs = f.jobs[1:]
	f.mu.Unlock()
	return job, nil
}

func (f *fakeQueue) Retry(_ context.Context, job *queue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retried = append(f.retried, job)
	return nil
}

type fakeStore struct {
	regs   map[uuid.UUID]*models.Registration
	marked []uuid.UUID
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.Registration, error) {
	return f.regs[id], nil
}

func (f *fakeStore) MarkEmailSent(_ context.Context, id uuid.UUID) error {
	f.marked = append(f.marked, id)
	return nil
}

type fakeControls struct {
	emailEnabled bool
}

func (f *fakeControls) EmailControl(context.Context) (*models.EmailControl, error) {
	return &models.EmailControl{Enabled: f.emailEnabled}, nil
}

func (f *fakeControls) Settings(context.Context) (*models.SeminarSettings, error) {
	return &models.SeminarSettings{Title: "Prompt Your Future"}, nil
}

type fakeMailer struct {
	err  error
	sent []string
}

func (f *fakeMailer) SendReminder(_ context.Context, reg *models.Registration, _ *models.SeminarSettings) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, reg.Email)
	return nil
}

func reminderJob(t *testing.T, id uuid.UUID, email string) *queue.Job {
	t.Helper()
	payload, err := json.Marshal(queue.ReminderEmailPayload{RegistrationID: id, RecipientEmail: email})
	require.NoError(t, err)
	return &queue.Job{ID: uuid.NewString(), Type: queue.JobTypeReminderEmail, Payload: payload}
}

func newProcessorFixture(emailEnabled bool) (*EmailProcessor, *fakeStore, *fakeMailer) {
	store := &fakeStore{regs: map[uuid.UUID]*models.Registration{}}
	mailer := &fakeMailer{}
	p := NewEmailProcessor(nil, store, &fakeControls{emailEnabled: emailEnabled}, mailer, nil)
	return p, store, mailer
}

func TestProcessSendsAndMarks(t *testing.T) {
	p, store, mailer := newProcessorFixture(true)
	id := uuid.New()
	store.regs[id] = &models.Registration{ID: id, Email: "asha@example.com", Status: models.StatusActive}

	err := p.process(context.Background(), reminderJob(t, id, "asha@example.com"))
	require.NoError(t, err)
	assert.Equal(t, []string{"asha@example.com"}, mailer.sent)
	assert.Equal(t, []uuid.UUID{id}, store.marked)
}

func TestProcessDropsWhenEmailDisabled(t *testing.T) {
	p, store, mailer := newProcessorFixture(false)
	id := uuid.New()
	store.regs[id] = &models.Registration{ID: id, Email: "asha@example.com", Status: models.StatusActive}

	err := p.process(context.Background(), reminderJob(t, id, "asha@example.com"))
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, store.marked)
}

func TestProcessDropsRemovedRegistrant(t *testing.T) {
	p, store, mailer := newProcessorFixture(true)
	id := uuid.New()
	store.regs[id] = &models.Registration{ID: id, Email: "asha@example.com", Status: models.StatusRemoved}

	err := p.process(context.Background(), reminderJob(t, id, "asha@example.com"))
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestProcessDropsUnknownRegistrant(t *testing.T) {
	p, _, mailer := newProcessorFixture(true)

	err := p.process(context.Background(), reminderJob(t, uuid.New(), "gone@example.com"))
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestProcessReturnsMailerError(t *testing.T) {
	p, store, mailer := newProcessorFixture(true)
	mailer.err = errors.New("smtp down")
	id := uuid.New()
	store.regs[id] = &models.Registration{ID: id, Email: "asha@example.com", Status: models.StatusActive}

	err := p.process(context.Background(), reminderJob(t, id, "asha@example.com"))
	assert.Error(t, err)
	assert.Empty(t, store.marked)
}

func TestRunBacksOffAfterFailedJob(t *testing.T) {
	p, store, mailer := newProcessorFixture(true)
	mailer.err = errors.New("smtp down")
	id := uuid.New()
	store.regs[id] = &models.Registration{ID: id, Email: "asha@example.com", Status: models.StatusActive}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	q := &fakeQueue{jobs: []*queue.Job{reminderJob(t, id, "asha@example.com")}, cancel: cancel}
	p.queue = q
	p.backoff = 50 * time.Millisecond

	p.Run(ctx)

	require.Len(t, q.retried, 1)
	require.GreaterOrEqual(t, len(q.dequeues), 2)
	assert.GreaterOrEqual(t, q.dequeues[1].Sub(q.dequeues[0]), 50*time.Millisecond,
		"a failed job must not be redelivered immediately")
}

func TestProcessDropsUnknownJobType(t *testing.T) {
	p, _, mailer := newProcessorFixture(true)

	err := p.process(context.Background(), &queue.Job{ID: "x", Type: "mystery"})
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}
