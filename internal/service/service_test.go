package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"bitwise74/socials-api/internal/model"
	"bitwise74/socials-api/internal/store"
	"bitwise74/socials-api/internal/store/storetest"
	"bitwise74/socials-api/pkg/security"
	"bitwise74/socials-api/pkg/validators"

	"github.com/stretchr/testify/require"
)

const testPassword = "Str0ng!Pass"

type recordingDispatcher struct {
	mu     sync.Mutex
	emails []Email
}

func (r *recordingDispatcher) Dispatch(e Email) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, e)
}

func (r *recordingDispatcher) last() Email {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.emails) == 0 {
		return Email{}
	}
	return r.emails[len(r.emails)-1]
}

func (r *recordingDispatcher) subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.emails))
	for i, e := range r.emails {
		out[i] = e.Subject
	}
	return out
}

type fakeMedia struct {
	mu      sync.Mutex
	objects map[string][]byte
}

const fakeMediaBase = "https://media.test/"

func newFakeMedia() *fakeMedia {
	return &fakeMedia{objects: map[string][]byte{}}
}

func (m *fakeMedia) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	url := fakeMediaBase + key
	m.objects[url] = b
	return url, nil
}

func (m *fakeMedia) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, url)
	return nil
}

func (m *fakeMedia) Owns(url string) bool {
	return strings.HasPrefix(url, fakeMediaBase)
}

func (m *fakeMedia) has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.objects[url]
	return ok
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func testImage() *validators.Image {
	return &validators.Image{
		File:        memFile{bytes.NewReader(pngBytes)},
		Size:        int64(len(pngBytes)),
		Ext:         ".png",
		ContentType: "image/png",
	}
}

type env struct {
	ctx   context.Context
	store *store.Store
	mail  *recordingDispatcher
	media *fakeMedia

	sessions   *security.SessionIssuer
	auth       *AuthService
	account    *AccountService
	profile    *ProfileService
	onboarding *OnboardingService
	feed       *FeedService
	graph      *GraphService

	mu  sync.Mutex
	now time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st := storetest.New(t)

	// Cheap parameters, the production ones make the suite crawl
	argon := &security.ArgonHash{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}

	e := &env{
		ctx:   context.Background(),
		store: st,
		mail:  &recordingDispatcher{},
		media: newFakeMedia(),
		now:   time.Now().UTC().Truncate(time.Second),
	}

	e.sessions = security.NewSessionIssuer("test-secret").WithClock(e.clock)
	notifier := NewNotifier(e.mail, "Socials", "https://client.test/")

	e.auth = NewAuthService(st, argon, e.sessions, notifier)
	e.account = NewAccountService(st, argon, e.sessions, notifier)
	e.profile = NewProfileService(st, e.media)
	e.onboarding = NewOnboardingService(st, e.profile)
	e.feed = NewFeedService(st, e.media)
	e.graph = NewGraphService(st)

	e.auth.SetClock(e.clock)
	e.account.SetClock(e.clock)
	e.feed.SetClock(e.clock)
	e.graph.SetClock(e.clock)

	return e
}

func (e *env) clock() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *env) advance(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = e.now.Add(d)
}

// signUp registers a user named first with a derived email
func (e *env) signUp(t *testing.T, first string) *model.User {
	t.Helper()

	sess, err := e.auth.SignUp(e.ctx, SignUpInput{
		FirstName: first,
		LastName:  "Test",
		Email:     strings.ToLower(first) + "@example.com",
		Password:  testPassword,
	})
	require.NoError(t, err)

	return sess.User
}

func (e *env) user(t *testing.T, id string) *model.User {
	t.Helper()

	u, err := e.store.Users.ByID(e.ctx, id)
	require.NoError(t, err)
	return u
}
