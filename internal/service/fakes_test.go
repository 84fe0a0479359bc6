package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory stand-in for the PostgreSQL schema, including code uniqueness.
type memStore struct {
	mu           sync.Mutex
	nextID       int64
	clients      []models.Client
	workItems    []models.WorkItem
	revisions    []models.Revision
	deliverables []models.Deliverable
	posts        []models.SocialPost
	callLogs     []models.CallLog

	// failOn makes the named operation return errStoreDown.
	failOn map[string]bool
	// beforeCreate runs before an insert into the named table, once per call.
	beforeCreate map[string]func()
}

func newMemStore() *memStore {
	return &memStore{failOn: map[string]bool{}, beforeCreate: map[string]func(){}}
}

func (s *memStore) check(op string) error {
	if s.failOn[op] {
		return errStoreDown
	}
	return nil
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) hook(table string) {
	if fn := s.beforeCreate[table]; fn != nil {
		delete(s.beforeCreate, table)
		fn()
	}
}

func uniqueViolation() error {
	return &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

// checkWidth mirrors a VARCHAR(n) column rejecting longer values.
func checkWidth(value string, n int) error {
	if utf8.RuneCountInString(value) > n {
		return &pq.Error{Code: "22001", Message: fmt.Sprintf("value too long for type character varying(%d)", n)}
	}
	return nil
}

type memSnapshot struct {
	nextID       int64
	clients      []models.Client
	workItems    []models.WorkItem
	revisions    []models.Revision
	deliverables []models.Deliverable
	posts        []models.SocialPost
	callLogs     []models.CallLog
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		nextID:       s.nextID,
		clients:      append([]models.Client(nil), s.clients...),
		workItems:    append([]models.WorkItem(nil), s.workItems...),
		revisions:    append([]models.Revision(nil), s.revisions...),
		deliverables: append([]models.Deliverable(nil), s.deliverables...),
		posts:        append([]models.SocialPost(nil), s.posts...),
		callLogs:     append([]models.CallLog(nil), s.callLogs...),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.nextID = snap.nextID
	s.clients = snap.clients
	s.workItems = snap.workItems
	s.revisions = snap.revisions
	s.deliverables = snap.deliverables
	s.posts = snap.posts
	s.callLogs = snap.callLogs
}

// fakeTx rolls the store back when fn fails.
type fakeTx struct {
	store *memStore
	err   error
	calls int
}

func (t *fakeTx) WithinTx(ctx context.Context, fn func(tx sqlx.ExtContext) error) error {
	t.calls++
	if t.err != nil {
		return t.err
	}
	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func inRange(t time.Time, rng models.DateRange) bool {
	if rng.From != nil && t.Before(*rng.From) {
		return false
	}
	if rng.To != nil && t.After(*rng.To) {
		return false
	}
	return true
}

func inOptionalRange(t *time.Time, rng models.DateRange) bool {
	if rng.From == nil && rng.To == nil {
		return true
	}
	return t != nil && inRange(*t, rng)
}

func matchID(want *int64, got int64) bool {
	return want == nil || *want == got
}

func matchOptionalID(want *int64, got *int64) bool {
	return want == nil || (got != nil && *got == *want)
}

// clients

type fakeClients struct{ s *memStore }

func (f fakeClients) List(_ context.Context, filter models.ClientFilter) ([]models.Client, int, error) {
	if err := f.s.check("clients.List"); err != nil {
		return nil, 0, err
	}
	var out []models.Client
	for _, c := range f.s.clients {
		if filter.Search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (f fakeClients) ListAll(context.Context) ([]models.Client, error) {
	if err := f.s.check("clients.ListAll"); err != nil {
		return nil, err
	}
	return append([]models.Client(nil), f.s.clients...), nil
}

func (f fakeClients) FindByID(_ context.Context, _ sqlx.ExtContext, id int64) (*models.Client, error) {
	if err := f.s.check("clients.FindByID"); err != nil {
		return nil, err
	}
	for _, c := range f.s.clients {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeClients) LastCode(context.Context, sqlx.ExtContext) (string, error) {
	if len(f.s.clients) == 0 {
		return "", nil
	}
	return f.s.clients[len(f.s.clients)-1].Code, nil
}

func (f fakeClients) CodeExists(_ context.Context, _ sqlx.ExtContext, code string) (bool, error) {
	for _, c := range f.s.clients {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeClients) Create(ctx context.Context, exec sqlx.ExtContext, client *models.Client) error {
	f.s.hook("clients")
	if err := f.s.check("clients.Create"); err != nil {
		return err
	}
	if taken, _ := f.CodeExists(ctx, exec, client.Code); taken {
		return uniqueViolation()
	}
	client.ID = f.s.id()
	client.CreatedAt = time.Now().UTC()
	client.UpdatedAt = client.CreatedAt
	f.s.clients = append(f.s.clients, *client)
	return nil
}

func (f fakeClients) Update(_ context.Context, client *models.Client) error {
	if err := f.s.check("clients.Update"); err != nil {
		return err
	}
	for i := range f.s.clients {
		if f.s.clients[i].ID == client.ID {
			f.s.clients[i] = *client
			return nil
		}
	}
	return sql.ErrNoRows
}

// insertRawClient seeds a client with a fixed code.
func (f fakeClients) insertRawClient(code, name string) *models.Client {
	c := models.Client{ID: f.s.id(), Code: code, Name: name}
	f.s.clients = append(f.s.clients, c)
	return &c
}

// work items

type fakeWorkItems struct{ s *memStore }

func (f fakeWorkItems) List(_ context.Context, filter models.WorkItemFilter) ([]models.WorkItem, int, error) {
	if err := f.s.check("workItems.List"); err != nil {
		return nil, 0, err
	}
	var out []models.WorkItem
	for _, w := range f.s.workItems {
		if matchID(filter.ClientID, w.ClientID) && (filter.Status == "" || w.Status == filter.Status) && inRange(w.Date, filter.Range) {
			out = append(out, w)
		}
	}
	return out, len(out), nil
}

func (f fakeWorkItems) ListAll(context.Context) ([]models.WorkItem, error) {
	return append([]models.WorkItem(nil), f.s.workItems...), nil
}

func (f fakeWorkItems) ListByClient(_ context.Context, clientID int64, rng models.DateRange) ([]models.WorkItem, error) {
	if err := f.s.check("workItems.ListByClient"); err != nil {
		return nil, err
	}
	var out []models.WorkItem
	for _, w := range f.s.workItems {
		if w.ClientID == clientID && inRange(w.Date, rng) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f fakeWorkItems) FindByID(_ context.Context, _ sqlx.ExtContext, id int64) (*models.WorkItem, error) {
	if err := f.s.check("workItems.FindByID"); err != nil {
		return nil, err
	}
	for _, w := range f.s.workItems {
		if w.ID == id {
			out := w
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeWorkItems) LockByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.WorkItem, error) {
	return f.FindByID(ctx, exec, id)
}

func (f fakeWorkItems) LastCodeForClient(_ context.Context, _ sqlx.ExtContext, clientID int64) (string, error) {
	for i := len(f.s.workItems) - 1; i >= 0; i-- {
		if f.s.workItems[i].ClientID == clientID {
			return f.s.workItems[i].Code, nil
		}
	}
	return "", nil
}

func (f fakeWorkItems) CodeExists(_ context.Context, _ sqlx.ExtContext, code string) (bool, error) {
	for _, w := range f.s.workItems {
		if w.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeWorkItems) Create(ctx context.Context, exec sqlx.ExtContext, item *models.WorkItem) error {
	f.s.hook("work_items")
	if err := f.s.check("workItems.Create"); err != nil {
		return err
	}
	if taken, _ := f.CodeExists(ctx, exec, item.Code); taken {
		return uniqueViolation()
	}
	item.ID = f.s.id()
	f.s.workItems = append(f.s.workItems, *item)
	return nil
}

func (f fakeWorkItems) Update(_ context.Context, _ sqlx.ExtContext, item *models.WorkItem) error {
	if err := f.s.check("workItems.Update"); err != nil {
		return err
	}
	for i := range f.s.workItems {
		if f.s.workItems[i].ID == item.ID {
			f.s.workItems[i] = *item
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeWorkItems) UpdateStatus(_ context.Context, _ sqlx.ExtContext, id int64, status models.WorkItemStatus) error {
	if err := f.s.check("workItems.UpdateStatus"); err != nil {
		return err
	}
	for i := range f.s.workItems {
		if f.s.workItems[i].ID == id {
			f.s.workItems[i].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeWorkItems) IncrementRevisionCount(_ context.Context, _ sqlx.ExtContext, id int64) (int, error) {
	if err := f.s.check("workItems.IncrementRevisionCount"); err != nil {
		return 0, err
	}
	for i := range f.s.workItems {
		if f.s.workItems[i].ID == id {
			f.s.workItems[i].RevisionCount++
			return f.s.workItems[i].RevisionCount, nil
		}
	}
	return 0, sql.ErrNoRows
}

func (f fakeWorkItems) get(id int64) models.WorkItem {
	for _, w := range f.s.workItems {
		if w.ID == id {
			return w
		}
	}
	return models.WorkItem{}
}

// revisions

type fakeRevisions struct{ s *memStore }

func (f fakeRevisions) Create(_ context.Context, _ sqlx.ExtContext, revision *models.Revision) error {
	if err := f.s.check("revisions.Create"); err != nil {
		return err
	}
	revision.ID = f.s.id()
	f.s.revisions = append(f.s.revisions, *revision)
	return nil
}

func (f fakeRevisions) Latest(_ context.Context, _ sqlx.ExtContext, workItemID int64) (*models.Revision, error) {
	if err := f.s.check("revisions.Latest"); err != nil {
		return nil, err
	}
	var latest *models.Revision
	for i := range f.s.revisions {
		r := f.s.revisions[i]
		if r.WorkItemID != nil && *r.WorkItemID == workItemID && (latest == nil || r.RevisionNumber > latest.RevisionNumber) {
			latest = &r
		}
	}
	return latest, nil
}

func (f fakeRevisions) UpdateStatus(_ context.Context, _ sqlx.ExtContext, id int64, status models.RevisionStatus) error {
	if err := f.s.check("revisions.UpdateStatus"); err != nil {
		return err
	}
	for i := range f.s.revisions {
		if f.s.revisions[i].ID == id {
			f.s.revisions[i].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeRevisions) ListByWorkItem(_ context.Context, _ sqlx.ExtContext, workItemID int64) ([]models.Revision, error) {
	var out []models.Revision
	for _, r := range f.s.revisions {
		if r.WorkItemID != nil && *r.WorkItemID == workItemID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RevisionNumber < out[j].RevisionNumber })
	return out, nil
}

func (f fakeRevisions) SyncWithWorkItem(_ context.Context, _ sqlx.ExtContext, workItemID, clientID int64, date time.Time) error {
	if err := f.s.check("revisions.SyncWithWorkItem"); err != nil {
		return err
	}
	for i := range f.s.revisions {
		if id := f.s.revisions[i].WorkItemID; id != nil && *id == workItemID {
			f.s.revisions[i].ClientID = clientID
			f.s.revisions[i].Date = date
		}
	}
	return nil
}

func (f fakeRevisions) List(_ context.Context, filter models.RevisionFilter) ([]models.Revision, error) {
	if err := f.s.check("revisions.List"); err != nil {
		return nil, err
	}
	var out []models.Revision
	for _, r := range f.s.revisions {
		if matchID(filter.ClientID, r.ClientID) && matchOptionalID(filter.WorkItemID, r.WorkItemID) && inRange(r.Date, filter.Range) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f fakeRevisions) ListAll(context.Context) ([]models.Revision, error) {
	return append([]models.Revision(nil), f.s.revisions...), nil
}

// deliverables

type fakeDeliverables struct{ s *memStore }

func (f fakeDeliverables) List(_ context.Context, filter models.DeliverableFilter) ([]models.Deliverable, error) {
	if err := f.s.check("deliverables.List"); err != nil {
		return nil, err
	}
	var out []models.Deliverable
	for _, d := range f.s.deliverables {
		if matchID(filter.ClientID, d.ClientID) && matchOptionalID(filter.WorkItemID, d.WorkItemID) &&
			(filter.Status == "" || d.Status == filter.Status) && inOptionalRange(d.DeliveryDate, filter.Range) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f fakeDeliverables) ListAll(context.Context) ([]models.Deliverable, error) {
	return append([]models.Deliverable(nil), f.s.deliverables...), nil
}

func (f fakeDeliverables) ListSummariesByClient(_ context.Context, clientID int64) ([]models.DeliverableSummary, error) {
	var out []models.DeliverableSummary
	for _, d := range f.s.deliverables {
		if d.ClientID == clientID {
			out = append(out, models.DeliverableSummary{ID: d.ID, Code: d.Code, Title: d.Title, Status: d.Status})
		}
	}
	return out, nil
}

func (f fakeDeliverables) FindByID(_ context.Context, id int64) (*models.Deliverable, error) {
	for _, d := range f.s.deliverables {
		if d.ID == id {
			out := d
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeDeliverables) FindByWorkItem(_ context.Context, _ sqlx.ExtContext, workItemID int64) (*models.Deliverable, error) {
	if err := f.s.check("deliverables.FindByWorkItem"); err != nil {
		return nil, err
	}
	for _, d := range f.s.deliverables {
		if d.WorkItemID != nil && *d.WorkItemID == workItemID {
			out := d
			return &out, nil
		}
	}
	return nil, nil
}

func (f fakeDeliverables) FindAutoCreated(_ context.Context, _ sqlx.ExtContext, workItemID int64) (*models.Deliverable, error) {
	for _, d := range f.s.deliverables {
		if d.AutoCreated && d.WorkItemID != nil && *d.WorkItemID == workItemID {
			out := d
			return &out, nil
		}
	}
	return nil, nil
}

func (f fakeDeliverables) LastCodeForClient(_ context.Context, _ sqlx.ExtContext, clientID int64) (string, error) {
	for i := len(f.s.deliverables) - 1; i >= 0; i-- {
		if f.s.deliverables[i].ClientID == clientID {
			return f.s.deliverables[i].Code, nil
		}
	}
	return "", nil
}

func (f fakeDeliverables) CodeExists(_ context.Context, _ sqlx.ExtContext, code string) (bool, error) {
	for _, d := range f.s.deliverables {
		if d.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeDeliverables) Create(ctx context.Context, exec sqlx.ExtContext, item *models.Deliverable) error {
	f.s.hook("deliverables")
	if err := f.s.check("deliverables.Create"); err != nil {
		return err
	}
	if err := checkWidth(item.Title, 100); err != nil {
		return err
	}
	if taken, _ := f.CodeExists(ctx, exec, item.Code); taken {
		return uniqueViolation()
	}
	item.ID = f.s.id()
	f.s.deliverables = append(f.s.deliverables, *item)
	return nil
}

func (f fakeDeliverables) Update(_ context.Context, _ sqlx.ExtContext, item *models.Deliverable) error {
	if err := f.s.check("deliverables.Update"); err != nil {
		return err
	}
	if err := checkWidth(item.Title, 100); err != nil {
		return err
	}
	for i := range f.s.deliverables {
		if f.s.deliverables[i].ID == item.ID {
			f.s.deliverables[i] = *item
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeDeliverables) SyncWithWorkItem(_ context.Context, _ sqlx.ExtContext, id int64, title, project, owner string, createdOn time.Time) error {
	if err := f.s.check("deliverables.SyncWithWorkItem"); err != nil {
		return err
	}
	if err := checkWidth(title, 100); err != nil {
		return err
	}
	for i := range f.s.deliverables {
		if f.s.deliverables[i].ID == id {
			d := &f.s.deliverables[i]
			d.Title, d.Project, d.Owner = title, project, owner
			created := createdOn
			d.CreatedOn = &created
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeDeliverables) Delete(_ context.Context, id int64) error {
	for i := range f.s.deliverables {
		if f.s.deliverables[i].ID == id {
			f.s.deliverables = append(f.s.deliverables[:i], f.s.deliverables[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// social posts

type fakePosts struct{ s *memStore }

func (f fakePosts) List(_ context.Context, filter models.SocialPostFilter) ([]models.SocialPost, error) {
	var out []models.SocialPost
	for _, p := range f.s.posts {
		if matchID(filter.ClientID, p.ClientID) && inRange(p.Date, filter.Range) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakePosts) ListAll(context.Context) ([]models.SocialPost, error) {
	return append([]models.SocialPost(nil), f.s.posts...), nil
}

func (f fakePosts) FindByID(_ context.Context, id int64) (*models.SocialPost, error) {
	for _, p := range f.s.posts {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakePosts) Create(_ context.Context, post *models.SocialPost) error {
	if err := f.s.check("posts.Create"); err != nil {
		return err
	}
	post.ID = f.s.id()
	f.s.posts = append(f.s.posts, *post)
	return nil
}

// call logs

type fakeCallLogs struct{ s *memStore }

func (f fakeCallLogs) List(_ context.Context, filter models.CallLogFilter) ([]models.CallLog, error) {
	var out []models.CallLog
	for _, l := range f.s.callLogs {
		if matchID(filter.ClientID, l.ClientID) && (filter.Status == "" || l.Status == filter.Status) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f fakeCallLogs) ListAll(context.Context) ([]models.CallLog, error) {
	return append([]models.CallLog(nil), f.s.callLogs...), nil
}

func (f fakeCallLogs) ListFollowUpsDue(_ context.Context, today time.Time) ([]models.CallLog, error) {
	var out []models.CallLog
	for _, l := range f.s.callLogs {
		if l.Status == models.CallLogStatusPending && l.FollowUpDate != nil && !l.FollowUpDate.After(today) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f fakeCallLogs) FindByID(_ context.Context, id int64) (*models.CallLog, error) {
	for _, l := range f.s.callLogs {
		if l.ID == id {
			out := l
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeCallLogs) Create(_ context.Context, log *models.CallLog) error {
	log.ID = f.s.id()
	f.s.callLogs = append(f.s.callLogs, *log)
	return nil
}

func (f fakeCallLogs) Update(_ context.Context, log *models.CallLog) error {
	for i := range f.s.callLogs {
		if f.s.callLogs[i].ID == log.ID {
			f.s.callLogs[i] = *log
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f fakeCallLogs) Delete(_ context.Context, id int64) error {
	for i := range f.s.callLogs {
		if f.s.callLogs[i].ID == id {
			f.s.callLogs = append(f.s.callLogs[:i], f.s.callLogs[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// agency bundles every service over one memStore.
type agency struct {
	store        *memStore
	tx           *fakeTx
	clientRepo   fakeClients
	workRepo     fakeWorkItems
	revisionRepo fakeRevisions
	delivRepo    fakeDeliverables
	postRepo     fakePosts
	callRepo     fakeCallLogs
	codes        *CodeGenerator
	clients      *ClientService
	workItems    *WorkItemService
	lifecycle    *WorkLifecycleService
	deliverables *DeliverableService
	posts        *SocialPostService
	calls        *CallLogService
}

var fixedNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func newAgency() *agency {
	store := newMemStore()
	a := &agency{
		store:        store,
		tx:           &fakeTx{store: store},
		clientRepo:   fakeClients{store},
		workRepo:     fakeWorkItems{store},
		revisionRepo: fakeRevisions{store},
		delivRepo:    fakeDeliverables{store},
		postRepo:     fakePosts{store},
		callRepo:     fakeCallLogs{store},
	}
	a.codes = NewCodeGenerator(a.clientRepo, a.workRepo, a.delivRepo, 0)
	a.clients = NewClientService(a.clientRepo, a.delivRepo, a.codes, nil, nil)
	a.workItems = NewWorkItemService(a.workRepo, a.clientRepo, a.revisionRepo, a.delivRepo, a.codes, nil, nil)
	a.lifecycle = NewWorkLifecycleService(a.tx, a.workRepo, a.revisionRepo, a.delivRepo, a.clientRepo, a.codes, nil, nil)
	a.lifecycle.now = func() time.Time { return fixedNow }
	a.deliverables = NewDeliverableService(a.delivRepo, a.clientRepo, a.workRepo, a.codes, nil, nil)
	a.posts = NewSocialPostService(a.postRepo, a.clientRepo, a.workRepo, nil, nil)
	a.calls = NewCallLogService(a.callRepo, a.clientRepo, nil, nil)
	a.calls.now = func() time.Time { return fixedNow }
	return a
}
