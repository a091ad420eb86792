package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps records in memory. echo rewrites the record after each
// update, the way store-side automations do.
type fakeStore struct {
	mu       sync.Mutex
	records  map[string]models.Record
	order    []string
	failIDs  map[string]bool
	echo     func(models.Record) models.Record
	updates  int
	deletes  []string
	nextID   int
	block    chan struct{}
	listErr  error
	creating []models.Fields
	// listed and listGate hold List after it has read the records.
	listed   chan struct{}
	listGate chan struct{}
}

func newFakeStore(records ...models.Record) *fakeStore {
	s := &fakeStore{records: map[string]models.Record{}, failIDs: map[string]bool{}}
	for _, r := range records {
		s.records[r.ID] = r
		s.order = append(s.order, r.ID)
	}
	return s
}

func (s *fakeStore) List(ctx context.Context, table string) ([]models.Record, error) {
	s.mu.Lock()
	if s.listErr != nil {
		s.mu.Unlock()
		return nil, s.listErr
	}
	out := make([]models.Record, 0, len(s.order))
	for _, id := range s.order {
		if r, ok := s.records[id]; ok {
			out = append(out, r.Clone())
		}
	}
	listed, gate := s.listed, s.listGate
	s.mu.Unlock()

	if listed != nil {
		listed <- struct{}{}
		<-gate
	}
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, table, id string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return models.Record{}, &apperror.RemoteError{Status: 404, Body: "NOT_FOUND"}
	}
	return r.Clone(), nil
}

func (s *fakeStore) Create(ctx context.Context, table string, fields models.Fields) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.creating = append(s.creating, fields.Clone())
	r := models.Record{ID: fmt.Sprintf("recNew%d", s.nextID), Fields: fields.Clone()}
	s.records[r.ID] = r
	s.order = append(s.order, r.ID)
	return r.Clone(), nil
}

func (s *fakeStore) Update(ctx context.Context, table, id string, fields models.Fields) (models.Record, error) {
	if s.block != nil {
		<-s.block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.failIDs[id] {
		return models.Record{}, &apperror.RemoteError{Status: 500, Body: "boom"}
	}
	r, ok := s.records[id]
	if !ok {
		return models.Record{}, &apperror.RemoteError{Status: 404, Body: "NOT_FOUND"}
	}
	r = r.Clone()
	for k, v := range fields {
		r.Fields[k] = v
	}
	if s.echo != nil {
		r = s.echo(r)
	}
	s.records[id] = r
	return r.Clone(), nil
}

func (s *fakeStore) Delete(ctx context.Context, table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIDs[id] {
		return &apperror.RemoteError{Status: 500, Body: "boom"}
	}
	s.deletes = append(s.deletes, id)
	delete(s.records, id)
	return nil
}

var _ airtable.RecordStore = (*fakeStore)(nil)

func post(id, status string) models.Record {
	return models.Record{ID: id, Fields: models.Fields{"headline": "Headline " + id, "status": status}}
}

func loaded(t *testing.T, store *fakeStore) *Workspace {
	t.Helper()
	w := New(airtable.TablePosts, store)
	require.NoError(t, w.Load(context.Background()))
	return w
}

func TestRecords_MergesOverlay(t *testing.T) {
	w := loaded(t, newFakeStore(post("rec1", "Draft"), post("rec2", "Draft")))

	require.NoError(t, w.SetField("rec2", "headline", "Edited"))

	records := w.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "Headline rec1", records[0].Fields["headline"])
	assert.Equal(t, "Edited", records[1].Fields["headline"])

	primary, ok := w.Primary("rec2")
	require.True(t, ok)
	assert.Equal(t, "Headline rec2", primary.Fields["headline"])
}

func TestSetField_UnknownRecord(t *testing.T) {
	w := loaded(t, newFakeStore(post("rec1", "Draft")))

	err := w.SetField("nope", "headline", "x")
	var nf apperror.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestSaveOne_AdoptsStoreEcho(t *testing.T) {
	store := newFakeStore(post("rec1", "Needs Approval"))
	store.echo = func(r models.Record) models.Record {
		r.Fields["status"] = "Needs Approval"
		return r
	}
	w := loaded(t, store)

	require.NoError(t, w.SetField("rec1", "status", "Approved"))
	saved, err := w.SaveOne(context.Background(), "rec1")
	require.NoError(t, err)

	assert.Equal(t, "Needs Approval", saved.Fields["status"])
	primary, _ := w.Primary("rec1")
	assert.Equal(t, "Needs Approval", primary.Fields["status"])
	assert.False(t, w.IsDirty("rec1"))
}

func TestSaveOne_EmptyOverlayIsValidationError(t *testing.T) {
	store := newFakeStore(post("rec1", "Draft"))
	w := loaded(t, store)

	_, err := w.SaveOne(context.Background(), "rec1")
	var verr apperror.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, 0, store.updates)
}

func TestSaveOne_FailureKeepsOverlay(t *testing.T) {
	store := newFakeStore(post("rec1", "Draft"))
	store.failIDs["rec1"] = true
	w := loaded(t, store)

	require.NoError(t, w.SetField("rec1", "headline", "Edited"))
	_, err := w.SaveOne(context.Background(), "rec1")

	var rerr *apperror.RemoteError
	require.True(t, errors.As(err, &rerr))
	assert.True(t, w.IsDirty("rec1"))
	rec, _ := w.Record("rec1")
	assert.Equal(t, "Edited", rec.Fields["headline"])
	primary, _ := w.Primary("rec1")
	assert.Equal(t, "Headline rec1", primary.Fields["headline"])
	assert.Equal(t, 1, store.updates)
}

func TestSaveOne_SecondSaveWhileInFlightIsRejected(t *testing.T) {
	store := newFakeStore(post("rec1", "Draft"))
	w := loaded(t, store)
	require.NoError(t, w.SetField("rec1", "headline", "Edited"))

	store.block = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := w.SaveOne(context.Background(), "rec1")
		done <- err
	}()

	require.Eventually(t, func() bool { return w.busy() }, time.Second, 5*time.Millisecond)

	_, err := w.SaveOne(context.Background(), "rec1")
	assert.True(t, IsSaveInProgress(err))

	close(store.block)
	require.NoError(t, <-done)
	assert.False(t, w.busy())
	assert.False(t, w.IsDirty("rec1"))
}

func TestSaveOne_EditDuringFlightStaysPending(t *testing.T) {
	store := newFakeStore(post("rec1", "Draft"))
	w := loaded(t, store)
	require.NoError(t, w.SetField("rec1", "headline", "First"))

	store.block = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := w.SaveOne(context.Background(), "rec1")
		done <- err
	}()
	require.Eventually(t, func() bool { return w.busy() }, time.Second, 5*time.Millisecond)

	require.NoError(t, w.SetField("rec1", "summary", "Later"))
	close(store.block)
	require.NoError(t, <-done)

	assert.True(t, w.IsDirty("rec1"))
	rec, _ := w.Record("rec1")
	assert.Equal(t, "First", rec.Fields["headline"])
	assert.Equal(t, "Later", rec.Fields["summary"])
}

func TestSaveAll_PartialFailure(t *testing.T) {
	store := newFakeStore(post("rec1", "Draft"), post("rec2", "Draft"), post("rec3", "Draft"))
	store.failIDs["rec2"] = true
	w := loaded(t, store)

	for _, id := range []string{"rec1", "rec2", "rec3"} {
		require.NoError(t, w.SetField(id, "headline", "Edited "+id))
	}

	result := w.SaveAll(context.Background())
	assert.ElementsMatch(t, []string{"rec1", "rec3"}, result.Saved)
	assert.Contains(t, result.Failed, "rec2")
	assert.Equal(t, []string{"rec2"}, w.DirtyIDs())

	primary, _ := w.Primary("rec1")
	assert.Equal(t, "Edited rec1", primary.Fields["headline"])

	store.failIDs["rec2"] = false
	updatesBefore := store.updates
	result = w.SaveAll(context.Background())
	assert.Equal(t, []string{"rec2"}, result.Saved)
	assert.Equal(t, updatesBefore+1, store.updates)
	assert.Empty(t, w.DirtyIDs())
}

func TestCreateFromOverlay_ReplacesPlaceholder(t *testing.T) {
	store := newFakeStore()
	w := loaded(t, store)

	draft := w.NewDraft(models.Fields{"headline": "New post"})
	assert.True(t, models.IsPlaceholderID(draft))
	require.NoError(t, w.SetField(draft, "status", "Needs Approval"))
	assert.True(t, w.IsDirty(draft))

	created, err := w.SaveOne(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "recNew1", created.ID)
	assert.Equal(t, models.Fields{"headline": "New post", "status": "Needs Approval"}, store.creating[0])

	assert.False(t, w.IsDirty(draft))
	_, err = w.Record(draft)
	assert.Error(t, err)
	records := w.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "recNew1", records[0].ID)
}

func TestRemove_ClearsOverlayRegardless(t *testing.T) {
	store := newFakeStore(post("rec1", "Draft"), post("rec2", "Draft"))
	w := loaded(t, store)

	require.NoError(t, w.SetField("rec1", "headline", "Unsaved"))
	require.NoError(t, w.Remove(context.Background(), "rec1"))
	assert.False(t, w.IsDirty("rec1"))
	assert.Equal(t, []string{"rec1"}, store.deletes)
	assert.Len(t, w.Records(), 1)

	require.NoError(t, w.Remove(context.Background(), "rec2"))
	assert.False(t, w.IsDirty("rec2"))
	assert.Empty(t, w.Records())
}

func TestRemove_DraftSkipsStore(t *testing.T) {
	store := newFakeStore()
	w := loaded(t, store)

	draft := w.NewDraft(models.Fields{"headline": "x"})
	require.NoError(t, w.Remove(context.Background(), draft))
	assert.Empty(t, store.deletes)
	assert.False(t, w.IsDirty(draft))
	assert.Empty(t, w.Records())
}

func TestRemove_FailureKeepsState(t *testing.T) {
	store := newFakeStore(post("rec1", "Draft"))
	store.failIDs["rec1"] = true
	w := loaded(t, store)
	require.NoError(t, w.SetField("rec1", "headline", "Unsaved"))

	assert.Error(t, w.Remove(context.Background(), "rec1"))
	assert.True(t, w.IsDirty("rec1"))
	assert.Len(t, w.Records(), 1)
}

func TestLoad_KeepsOverlay(t *testing.T) {
	store := newFakeStore(post("rec1", "Draft"))
	w := loaded(t, store)
	require.NoError(t, w.SetField("rec1", "headline", "Unsaved"))

	require.NoError(t, w.Load(context.Background()))
	rec, err := w.Record("rec1")
	require.NoError(t, err)
	assert.Equal(t, "Unsaved", rec.Fields["headline"])
}

func TestDiscard(t *testing.T) {
	w := loaded(t, newFakeStore(post("rec1", "Draft")))
	require.NoError(t, w.SetField("rec1", "headline", "Unsaved"))

	w.Discard("rec1")
	assert.False(t, w.IsDirty("rec1"))
	rec, _ := w.Record("rec1")
	assert.Equal(t, "Headline rec1", rec.Fields["headline"])
}

func TestCreate(t *testing.T) {
	store := newFakeStore()
	w := loaded(t, store)

	_, err := w.Create(context.Background(), nil)
	assert.Error(t, err)

	rec, err := w.Create(context.Background(), models.Fields{"headline": "Direct"})
	require.NoError(t, err)
	assert.Equal(t, "recNew1", rec.ID)
	assert.Len(t, w.Records(), 1)
}

func (s *fakeStore) holdNextList() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listed = make(chan struct{})
	s.listGate = make(chan struct{})
}

func TestLoad_KeepsRecordsSavedDuringList(t *testing.T) {
	store := newFakeStore(post("rec1", "Needs Approval"), post("rec2", "Draft"))
	w := loaded(t, store)
	store.holdNextList()

	done := make(chan error, 1)
	go func() { done <- w.Load(context.Background()) }()
	<-store.listed

	require.NoError(t, w.SetField("rec1", "status", "Approved"))
	_, err := w.SaveOne(context.Background(), "rec1")
	require.NoError(t, err)

	close(store.listGate)
	require.NoError(t, <-done)

	primary, ok := w.Primary("rec1")
	require.True(t, ok)
	assert.Equal(t, "Approved", primary.Fields["status"])
	assert.False(t, w.IsDirty("rec1"))
	assert.Len(t, w.Records(), 2)
}

func TestLoad_KeepsRemoveAndCreateDuringList(t *testing.T) {
	store := newFakeStore(post("rec1", "Draft"), post("rec2", "Draft"))
	w := loaded(t, store)
	store.holdNextList()

	done := make(chan error, 1)
	go func() { done <- w.Load(context.Background()) }()
	<-store.listed

	require.NoError(t, w.Remove(context.Background(), "rec1"))
	created, err := w.Create(context.Background(), models.Fields{"headline": "Fresh"})
	require.NoError(t, err)

	close(store.listGate)
	require.NoError(t, <-done)

	_, ok := w.Primary("rec1")
	assert.False(t, ok)
	_, ok = w.Primary(created.ID)
	assert.True(t, ok)
	assert.Len(t, w.Records(), 2)
}

func TestReplace_SkipsRecordWrittenAfterMark(t *testing.T) {
	store := newFakeStore(post("rec1", "Needs Approval"))
	w := loaded(t, store)

	mark := w.WriteMark()
	stale := post("rec1", "Needs Approval")

	require.NoError(t, w.SetField("rec1", "status", "Approved"))
	_, err := w.SaveOne(context.Background(), "rec1")
	require.NoError(t, err)

	assert.False(t, w.Replace(stale, mark))
	primary, _ := w.Primary("rec1")
	assert.Equal(t, "Approved", primary.Fields["status"])

	fresh := post("rec1", "Declined")
	assert.True(t, w.Replace(fresh, w.WriteMark()))
	primary, _ = w.Primary("rec1")
	assert.Equal(t, "Declined", primary.Fields["status"])
}

func TestSaveOne_RemoveDuringSaveWins(t *testing.T) {
	store := newFakeStore(post("rec1", "Draft"), post("rec2", "Draft"))
	gate := make(chan struct{})
	store.block = gate
	w := loaded(t, store)
	require.NoError(t, w.SetField("rec1", "headline", "Edited"))

	done := make(chan error, 1)
	go func() {
		_, err := w.SaveOne(context.Background(), "rec1")
		done <- err
	}()
	require.Eventually(t, func() bool { return w.busy() }, time.Second, 5*time.Millisecond)

	require.NoError(t, w.Remove(context.Background(), "rec1"))

	// the update was already accepted remotely before the delete landed
	store.mu.Lock()
	store.records["rec1"] = post("rec1", "Draft")
	store.mu.Unlock()

	close(gate)
	require.NoError(t, <-done)

	_, ok := w.Primary("rec1")
	assert.False(t, ok)
	assert.Len(t, w.Records(), 1)
	assert.False(t, w.IsDirty("rec1"))
}
