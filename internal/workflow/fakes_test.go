package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"naspac/internal/notify"
	"naspac/internal/pdf"
	"naspac/internal/store"
	"naspac/internal/utils"
	"naspac/pkg/types"

	"github.com/sirupsen/logrus"
)

// fakeStore is an in-memory store.Datastore. InTx snapshots state and
// restores it when the callback fails, so atomicity assertions hold.
type fakeStore struct {
	mu sync.Mutex

	users         map[string]*types.User
	departments   map[string]*types.Department
	submissions   map[string]*types.Submission
	documents     []*types.Document
	audits        []*types.AuditLog
	notifications []*types.Notification
	templates     []*types.Template

	failCreateDocument bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]*types.User),
		departments: make(map[string]*types.Department),
		submissions: make(map[string]*types.Submission),
	}
}

func (f *fakeStore) InTx(ctx context.Context, fn func(ctx context.Context, tx store.Datastore) error) error {
	snapshot := f.clone()
	if err := fn(ctx, f); err != nil {
		f.restore(snapshot)
		return err
	}
	return nil
}

func (f *fakeStore) clone() *fakeStore {
	f.mu.Lock()
	defer f.mu.Unlock()

	c := newFakeStore()
	for id, u := range f.users {
		u := *u
		c.users[id] = &u
	}
	for id, d := range f.departments {
		d := *d
		c.departments[id] = &d
	}
	for id, s := range f.submissions {
		s := *s
		c.submissions[id] = &s
	}
	c.documents = append([]*types.Document(nil), f.documents...)
	c.audits = append([]*types.AuditLog(nil), f.audits...)
	c.notifications = append([]*types.Notification(nil), f.notifications...)
	c.templates = append([]*types.Template(nil), f.templates...)
	return c
}

func (f *fakeStore) restore(snapshot *fakeStore) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = snapshot.users
	f.departments = snapshot.departments
	f.submissions = snapshot.submissions
	f.documents = snapshot.documents
	f.audits = snapshot.audits
	f.notifications = snapshot.notifications
	f.templates = snapshot.templates
}

func (f *fakeStore) Users() store.UserStore                 { return (*fakeUsers)(f) }
func (f *fakeStore) Departments() store.DepartmentStore     { return (*fakeDepartments)(f) }
func (f *fakeStore) Submissions() store.SubmissionStore     { return (*fakeSubmissions)(f) }
func (f *fakeStore) Documents() store.DocumentStore         { return (*fakeDocuments)(f) }
func (f *fakeStore) Audits() store.AuditStore               { return (*fakeAudits)(f) }
func (f *fakeStore) Notifications() store.NotificationStore { return (*fakeNotifications)(f) }
func (f *fakeStore) Templates() store.TemplateStore         { return (*fakeTemplates)(f) }

func (f *fakeStore) auditActions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, 0, len(f.audits))
	for _, a := range f.audits {
		actions = append(actions, a.Action)
	}
	return actions
}

type fakeUsers fakeStore

func (f *fakeUsers) ByID(_ context.Context, userID string) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (f *fakeUsers) Create(_ context.Context, user *types.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = utils.NanoID()
	}
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *fakeUsers) SetSignaturePath(_ context.Context, userID, path string) error {
	return f.setPath(userID, path, true)
}

func (f *fakeUsers) SetStampPath(_ context.Context, userID, path string) error {
	return f.setPath(userID, path, false)
}

func (f *fakeUsers) setPath(userID, path string, signature bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return types.ErrUserNotFound
	}
	if signature {
		user.SignaturePath = &path
	} else {
		user.StampPath = &path
	}
	return nil
}

func (f *fakeUsers) StaffContacts(_ context.Context) ([]*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var staff []*types.User
	for _, user := range f.users {
		if user.Role == types.RoleStaff {
			u := *user
			staff = append(staff, &u)
		}
	}
	return staff, nil
}

type fakeDepartments fakeStore

func (f *fakeDepartments) ByID(_ context.Context, departmentID string) (*types.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	department, ok := f.departments[departmentID]
	if !ok {
		return nil, fmt.Errorf("department %w", types.ErrNotFound)
	}
	d := *department
	return &d, nil
}

func (f *fakeDepartments) ByName(_ context.Context, name string) (*types.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, department := range f.departments {
		if department.Name == name {
			d := *department
			return &d, nil
		}
	}
	return nil, fmt.Errorf("department %w", types.ErrNotFound)
}

func (f *fakeDepartments) Create(_ context.Context, department *types.Department) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if department.ID == "" {
		department.ID = utils.NanoID()
	}
	d := *department
	f.departments[department.ID] = &d
	return nil
}

type fakeSubmissions fakeStore

func (f *fakeSubmissions) ByID(_ context.Context, submissionID string) (*types.Submission, error) {
	return f.get(submissionID)
}

func (f *fakeSubmissions) ByIDForUpdate(_ context.Context, submissionID string) (*types.Submission, error) {
	return f.get(submissionID)
}

func (f *fakeSubmissions) get(submissionID string) (*types.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	submission, ok := f.submissions[submissionID]
	if !ok {
		return nil, types.ErrSubmissionNotFound
	}
	s := *submission
	return &s, nil
}

func (f *fakeSubmissions) ByUser(_ context.Context, userID string) (*types.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, submission := range f.submissions {
		if submission.UserID == userID {
			s := *submission
			return &s, nil
		}
	}
	return nil, types.ErrSubmissionNotFound
}

func (f *fakeSubmissions) Create(_ context.Context, submission *types.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.submissions {
		if existing.UserID == submission.UserID && existing.NssNumber == submission.NssNumber {
			return fmt.Errorf("submission already exists for this user and NSS number: %w", types.ErrConflict)
		}
	}
	if submission.ID == "" {
		submission.ID = utils.NanoID()
	}
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = submission.CreatedAt
	s := *submission
	f.submissions[submission.ID] = &s
	return nil
}

func (f *fakeSubmissions) Update(_ context.Context, submission *types.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.submissions[submission.ID]; !ok {
		return types.ErrSubmissionNotFound
	}
	s := *submission
	f.submissions[submission.ID] = &s
	return nil
}

func (f *fakeSubmissions) CountByYear(_ context.Context, year int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, submission := range f.submissions {
		if submission.YearOfNss == year {
			n++
		}
	}
	return n, nil
}

type fakeDocuments fakeStore

func (f *fakeDocuments) Create(_ context.Context, document *types.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateDocument {
		return errors.New("document insert failed")
	}
	if document.ID == "" {
		document.ID = utils.NanoID()
	}
	d := *document
	f.documents = append(f.documents, &d)
	return nil
}

func (f *fakeDocuments) LatestBySubmission(_ context.Context, submissionID string) (*types.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *types.Document
	for _, document := range f.documents {
		if document.SubmissionID != submissionID {
			continue
		}
		if latest == nil || document.SignedAt.After(latest.SignedAt) {
			latest = document
		}
	}
	if latest == nil {
		return nil, types.ErrDocumentNotFound
	}
	d := *latest
	return &d, nil
}

type fakeAudits fakeStore

func (f *fakeAudits) Append(_ context.Context, entry *types.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry.ID == "" {
		entry.ID = utils.NanoID()
	}
	entry.CreatedAt = time.Now()
	a := *entry
	f.audits = append(f.audits, &a)
	return nil
}

func (f *fakeAudits) CountDistinctSubmissions(_ context.Context, action string, year int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	for _, entry := range f.audits {
		if entry.Action != action || entry.SubmissionID == nil {
			continue
		}
		if submission, ok := f.submissions[*entry.SubmissionID]; !ok || submission.YearOfNss != year {
			continue
		}
		seen[*entry.SubmissionID] = true
	}
	return int64(len(seen)), nil
}

type fakeNotifications fakeStore

func (f *fakeNotifications) Create(_ context.Context, notification *types.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if notification.ID == "" {
		notification.ID = utils.NanoID()
	}
	notification.Timestamp = time.Now()
	n := *notification
	f.notifications = append(f.notifications, &n)
	return nil
}

func (f *fakeNotifications) ListFor(_ context.Context, userID string, role types.Role, skip, take uint64) ([]*types.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Notification
	for _, notification := range f.notifications {
		own := notification.UserID != nil && *notification.UserID == userID
		broadcast := notification.UserID == nil && notification.Role == role
		if role == types.RolePersonnel {
			if own {
				out = append(out, notification)
			}
			continue
		}
		if own || broadcast {
			out = append(out, notification)
		}
	}
	return out, nil
}

type fakeTemplates fakeStore

func (f *fakeTemplates) Create(_ context.Context, template *types.Template) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if template.ID == "" {
		template.ID = utils.NanoID()
	}
	t := *template
	f.templates = append(f.templates, &t)
	return nil
}

// fakeBlobs is an in-memory storage.Store with a fixed public prefix.
type fakeBlobs struct {
	mu    sync.Mutex
	files map[string][]byte

	failUpload bool
}

const blobPrefix = "https://files.invalid/"

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{files: make(map[string][]byte)}
}

func (b *fakeBlobs) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failUpload {
		return "", errors.New("upload failed")
	}
	b.files[key] = append([]byte(nil), data...)
	return blobPrefix + key, nil
}

func (b *fakeBlobs) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.files[key]
	if !ok {
		return nil, types.ErrFileNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *fakeBlobs) PublicURL(key string) string {
	return blobPrefix + key
}

func (b *fakeBlobs) KeyFromURL(publicURL string) (string, error) {
	key, found := strings.CutPrefix(publicURL, blobPrefix)
	if !found {
		return "", fmt.Errorf("url %s not served by this store", publicURL)
	}
	return key, nil
}

type fakeSigner struct {
	err error
}

func (s *fakeSigner) Sign(req pdf.SignRequest) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]byte("signed:"), req.Source...), nil
}

type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) Render(data pdf.LetterData) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(data.Signature) == 0 {
		return nil, fmt.Errorf("no signature image for rendering admin: %w", types.ErrPrecondition)
	}
	return []byte("letter:" + data.FullName), nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	emails []notify.Email
}

func (d *fakeDispatcher) Enqueue(email notify.Email) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.emails = append(d.emails, email)
}

func (d *fakeDispatcher) sent() []notify.Email {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notify.Email(nil), d.emails...)
}

type testEngine struct {
	engine     *Engine
	store      *fakeStore
	blobs      *fakeBlobs
	signer     *fakeSigner
	renderer   *fakeRenderer
	dispatcher *fakeDispatcher
}

var testNow = time.Date(2024, time.November, 12, 9, 30, 0, 0, time.UTC)

func newTestEngine() *testEngine {
	logger := logrus.New()
	logger.SetOutput(nopWriter{})

	te := &testEngine{
		store:      newFakeStore(),
		blobs:      newFakeBlobs(),
		signer:     &fakeSigner{},
		renderer:   &fakeRenderer{},
		dispatcher: &fakeDispatcher{},
	}
	te.engine = NewEngine(te.store, te.blobs, te.signer, te.renderer, te.dispatcher, logger)
	te.engine.now = func() time.Time { return testNow }
	return te
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// seedUser inserts a user and returns its ID.
func (te *testEngine) seedUser(user types.User) string {
	if user.ID == "" {
		user.ID = utils.NanoID()
	}
	_ = te.store.Users().Create(context.Background(), &user)
	return user.ID
}

// seedSubmission inserts a submission owned by userID in the given
// status and returns it.
func (te *testEngine) seedSubmission(userID string, status types.SubmissionStatus) *types.Submission {
	submission := &types.Submission{
		UserID:           userID,
		FullName:         "Ama Serwaa",
		NssNumber:        "NSSGHA0012345678",
		Gender:           "F",
		Email:            "ama.serwaa@example.com",
		PhoneNumber:      "0244000000",
		DivisionPostedTo: "Cocoa Health and Extension",
		YearOfNss:        testNow.Year(),
		Status:           status,
	}
	_ = te.store.Submissions().Create(context.Background(), submission)
	return submission
}

// seedReviewer inserts an ADMIN with signature and stamp images already
// uploaded.
func (te *testEngine) seedReviewer(role types.Role) string {
	ctx := context.Background()
	sigKey := "signatures/seeded-signature.png"
	stampKey := "stamps/seeded-stamp.png"
	_, _ = te.blobs.Upload(ctx, sigKey, []byte("sig-image"), "image/png")
	_, _ = te.blobs.Upload(ctx, stampKey, []byte("stamp-image"), "image/png")

	return te.seedUser(types.User{
		Name:          "Akosua Mensah",
		Email:         "hr@cocobod.gh",
		Role:          role,
		SignaturePath: &sigKey,
		StampPath:     &stampKey,
	})
}
