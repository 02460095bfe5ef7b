package services

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/app/repositories"
	"github.com/antonkh/eventory/internal/db"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// fakeTxRunner satisfies db.TxRunner by invoking the function with a nil
// transaction; the fake stores ignore the tx argument.
type fakeTxRunner struct {
	beginErr error
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(ctx, nil)
}

// fakeUserStore is an in-memory userStore for tests.
type fakeUserStore struct {
	byID   map[int64]*models.User
	nextID int64
	err    error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) add(name, email string) *models.User {
	u := &models.User{ID: f.nextID, Name: name, Email: email}
	f.byID[u.ID] = u
	f.nextID++
	return u
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user.ID = f.nextID
	f.nextID++
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserStore) List(ctx context.Context, ids []int64, page helpers.Page) ([]models.User, error) {
	var out []models.User
	for _, u := range f.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeCategoryStore is an in-memory categoryStore for tests.
type fakeCategoryStore struct {
	byID      map[int64]*models.Category
	nextID    int64
	createErr error
	updateErr error
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{byID: make(map[int64]*models.Category), nextID: 1}
}

func (f *fakeCategoryStore) add(name string) *models.Category {
	c := &models.Category{ID: f.nextID, Name: name}
	f.byID[c.ID] = c
	f.nextID++
	return c
}

func (f *fakeCategoryStore) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	category.ID = f.nextID
	f.nextID++
	f.byID[category.ID] = category
	return category, nil
}

func (f *fakeCategoryStore) Update(ctx context.Context, category *models.Category) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[category.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.byID[category.ID] = category
	return nil
}

func (f *fakeCategoryStore) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCategoryStore) List(ctx context.Context, page helpers.Page) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategoryStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeEventStore is an in-memory event store covering the event, request and
// comment service views of the repository.
type fakeEventStore struct {
	byID      map[int64]*models.Event
	nextID    int64
	updateErr error
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{byID: make(map[int64]*models.Event), nextID: 1}
}

func (f *fakeEventStore) add(e models.Event) *models.Event {
	e.ID = f.nextID
	f.nextID++
	stored := e
	f.byID[stored.ID] = &stored
	return &stored
}

func (f *fakeEventStore) Create(ctx context.Context, e *models.Event) (*models.Event, error) {
	e.ID = f.nextID
	f.nextID++
	f.byID[e.ID] = e
	return e, nil
}

func (f *fakeEventStore) Update(ctx context.Context, e *models.Event) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[e.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *e
	f.byID[e.ID] = &stored
	return nil
}

func (f *fakeEventStore) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeEventStore) GetByIDAndInitiator(ctx context.Context, eventID, userID int64) (*models.Event, error) {
	e, ok := f.byID[eventID]
	if !ok || e.InitiatorID != userID {
		return nil, repositories.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventStore) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Event, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeEventStore) ListByInitiator(ctx context.Context, userID int64, page helpers.Page) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.byID {
		if e.InitiatorID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventStore) ListByIDs(ctx context.Context, ids []int64) ([]models.Event, error) {
	var out []models.Event
	for _, id := range ids {
		if e, ok := f.byID[id]; ok {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventStore) ExistsByCategory(ctx context.Context, categoryID int64) (bool, error) {
	for _, e := range f.byID {
		if e.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEventStore) FindPublic(ctx context.Context, filter repositories.PublicEventFilter, page helpers.Page, sortByDate bool) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.byID {
		if e.State == models.EventStatePublished {
			out = append(out, *e)
		}
	}
	if sortByDate {
		sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	return out, nil
}

func (f *fakeEventStore) FindPublicWithViews(ctx context.Context, filter repositories.PublicEventFilter, page helpers.Page,
	unique bool, statsStart, statsEnd time.Time) ([]models.EventWithStats, error) {
	var out []models.EventWithStats
	for _, e := range f.byID {
		if e.State == models.EventStatePublished {
			out = append(out, models.EventWithStats{Event: *e})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventStore) FindAdmin(ctx context.Context, filter repositories.AdminEventFilter, page helpers.Page) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.byID {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeRequestStore is an in-memory requestStore for tests.
type fakeRequestStore struct {
	byID   map[int64]*models.ParticipationRequest
	nextID int64
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{byID: make(map[int64]*models.ParticipationRequest), nextID: 1}
}

func (f *fakeRequestStore) add(eventID, requesterID int64, status models.RequestStatus) *models.ParticipationRequest {
	r := &models.ParticipationRequest{
		ID:          f.nextID,
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      status,
		Created:     time.Now(),
	}
	f.byID[r.ID] = r
	f.nextID++
	return r
}

func (f *fakeRequestStore) Create(ctx context.Context, tx pgx.Tx, req *models.ParticipationRequest) (*models.ParticipationRequest, error) {
	req.ID = f.nextID
	f.nextID++
	stored := *req
	f.byID[req.ID] = &stored
	return req, nil
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id int64) (*models.ParticipationRequest, error) {
	if r, ok := f.byID[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeRequestStore) CountConfirmed(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error) {
	var count int64
	for _, r := range f.byID {
		if r.EventID == eventID && r.Status == models.RequestStatusConfirmed {
			count++
		}
	}
	return count, nil
}

func (f *fakeRequestStore) CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64)
	for _, id := range eventIDs {
		n, _ := f.CountConfirmed(ctx, nil, id)
		if n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (f *fakeRequestStore) ListByIDs(ctx context.Context, tx pgx.Tx, eventID int64, ids []int64) ([]models.ParticipationRequest, error) {
	var out []models.ParticipationRequest
	for _, id := range ids {
		if r, ok := f.byID[id]; ok && r.EventID == eventID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRequestStore) ListPendingByEvent(ctx context.Context, tx pgx.Tx, eventID int64) ([]models.ParticipationRequest, error) {
	var out []models.ParticipationRequest
	for _, r := range f.byID {
		if r.EventID == eventID && r.Status == models.RequestStatusPending {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRequestStore) ListByRequester(ctx context.Context, userID int64) ([]models.ParticipationRequest, error) {
	var out []models.ParticipationRequest
	for _, r := range f.byID {
		if r.RequesterID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRequestStore) ListByEvent(ctx context.Context, eventID int64) ([]models.ParticipationRequest, error) {
	var out []models.ParticipationRequest
	for _, r := range f.byID {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRequestStore) ExistsActive(ctx context.Context, tx pgx.Tx, eventID, requesterID int64) (bool, error) {
	for _, r := range f.byID {
		if r.EventID == eventID && r.RequesterID == requesterID && r.Status != models.RequestStatusCanceled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestStore) UpdateStatus(ctx context.Context, tx pgx.Tx, ids []int64, status models.RequestStatus) error {
	for _, id := range ids {
		if r, ok := f.byID[id]; ok {
			r.Status = status
		}
	}
	return nil
}

func (f *fakeRequestStore) UpdateStatusByID(ctx context.Context, id int64, status models.RequestStatus) error {
	r, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	r.Status = status
	return nil
}

// fakeCommentStore is an in-memory commentStore for tests.
type fakeCommentStore struct {
	byID   map[int64]*models.Comment
	nextID int64
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{byID: make(map[int64]*models.Comment), nextID: 1}
}

func (f *fakeCommentStore) add(cm models.Comment) *models.Comment {
	cm.ID = f.nextID
	f.nextID++
	stored := cm
	f.byID[stored.ID] = &stored
	return &stored
}

func (f *fakeCommentStore) Create(ctx context.Context, cm *models.Comment) (*models.Comment, error) {
	cm.ID = f.nextID
	f.nextID++
	stored := *cm
	f.byID[cm.ID] = &stored
	return cm, nil
}

func (f *fakeCommentStore) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	if cm, ok := f.byID[id]; ok {
		copied := *cm
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCommentStore) Update(ctx context.Context, cm *models.Comment) error {
	if _, ok := f.byID[cm.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *cm
	f.byID[cm.ID] = &stored
	return nil
}

func (f *fakeCommentStore) ListTopLevelByEvent(ctx context.Context, eventID int64, page helpers.Page) ([]models.Comment, error) {
	var out []models.Comment
	for _, cm := range f.byID {
		if cm.EventID == eventID && cm.ParentID == nil {
			out = append(out, *cm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCommentStore) ListReplies(ctx context.Context, parentID int64) ([]models.Comment, error) {
	var out []models.Comment
	for _, cm := range f.byID {
		if cm.ParentID != nil && *cm.ParentID == parentID {
			out = append(out, *cm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCommentStore) ListByAuthor(ctx context.Context, authorID int64, page helpers.Page) ([]models.Comment, error) {
	var out []models.Comment
	for _, cm := range f.byID {
		if cm.AuthorID == authorID {
			out = append(out, *cm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCommentStore) ListByStatus(ctx context.Context, status *models.CommentStatus, page helpers.Page) ([]models.Comment, error) {
	var out []models.Comment
	for _, cm := range f.byID {
		if status != nil && cm.Status != *status {
			continue
		}
		out = append(out, *cm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCommentStore) CountRepliesByParents(ctx context.Context, parentIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64)
	for _, cm := range f.byID {
		if cm.ParentID == nil {
			continue
		}
		for _, id := range parentIDs {
			if *cm.ParentID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

// fakeCompilationStore is an in-memory compilationStore for tests.
type fakeCompilationStore struct {
	byID    map[int64]*models.Compilation
	members map[int64][]int64
	nextID  int64
}

func newFakeCompilationStore() *fakeCompilationStore {
	return &fakeCompilationStore{
		byID:    make(map[int64]*models.Compilation),
		members: make(map[int64][]int64),
		nextID:  1,
	}
}

func (f *fakeCompilationStore) Create(ctx context.Context, tx pgx.Tx, comp *models.Compilation, eventIDs []int64) (*models.Compilation, error) {
	comp.ID = f.nextID
	f.nextID++
	stored := *comp
	f.byID[comp.ID] = &stored
	f.members[comp.ID] = append([]int64(nil), eventIDs...)
	return comp, nil
}

func (f *fakeCompilationStore) Update(ctx context.Context, tx pgx.Tx, comp *models.Compilation, eventIDs *[]int64) error {
	if _, ok := f.byID[comp.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *comp
	f.byID[comp.ID] = &stored
	if eventIDs != nil {
		f.members[comp.ID] = append([]int64(nil), (*eventIDs)...)
	}
	return nil
}

func (f *fakeCompilationStore) GetByID(ctx context.Context, id int64) (*models.Compilation, error) {
	if c, ok := f.byID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCompilationStore) List(ctx context.Context, pinned *bool, page helpers.Page) ([]models.Compilation, error) {
	var out []models.Compilation
	for _, c := range f.byID {
		if pinned != nil && c.Pinned != *pinned {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCompilationStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.members, id)
	return nil
}

func (f *fakeCompilationStore) EventIDsByCompilations(ctx context.Context, compilationIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64)
	for _, id := range compilationIDs {
		if m, ok := f.members[id]; ok {
			out[id] = append([]int64(nil), m...)
		}
	}
	return out, nil
}

// fakeViewsProvider returns canned counters per URI and remembers the window
// of the last call.
type fakeViewsProvider struct {
	hits      map[string]int64
	lastStart time.Time
	lastEnd   time.Time
}

func (f *fakeViewsProvider) Views(ctx context.Context, start, end time.Time, uris []string, unique bool) map[string]int64 {
	f.lastStart = start
	f.lastEnd = end
	views := make(map[string]int64)
	for _, uri := range uris {
		if n, ok := f.hits[uri]; ok {
			views[uri] = n
		}
	}
	return views
}
