package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookly/internal/dbtest"
	"github.com/Skotchmaster/bookly/internal/notify"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/revocation"
	"github.com/Skotchmaster/bookly/internal/tokens"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

type mailbox struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *mailbox) Send(_ context.Context, to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *mailbox) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

var linkRe = regexp.MustCompile(`/api/v1/auth/(?:verify|password-reset-confirm)/([^"]+)`)

func (m *mailbox) lastToken(t *testing.T) string {
	t.Helper()
	match := linkRe.FindStringSubmatch(m.last().Body)
	require.Len(t, match, 2, "no link in mail body")
	return match[1]
}

type failingProducer struct{}

func (failingProducer) Enqueue(context.Context, notify.Notification) error {
	return errors.Join(notify.ErrEnqueueFailed, errors.New("broker down"))
}

type env struct {
	repo     *repo.GormRepo
	codec    *tokens.Codec
	registry *revocation.MemoryRegistry
	mail     *mailbox
	queue    *notify.MemoryQueue
	now      time.Time

	auth    *AuthService
	books   *BookService
	reviews *ReviewService
	tags    *TagService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		repo:     &repo.GormRepo{DB: dbtest.Open(t)},
		registry: revocation.NewMemoryRegistry(),
		mail:     &mailbox{},
		queue:    notify.NewMemoryQueue(16),
		now:      time.Now(),
	}
	codec, err := tokens.NewCodec([]byte("service-secret"))
	require.NoError(t, err)
	codec.Now = func() time.Time { return e.now }
	e.codec = codec
	e.registry.Now = func() time.Time { return e.now }

	e.auth = &AuthService{
		Repo:       e.repo,
		Codec:      codec,
		Registry:   e.registry,
		Mailer:     e.mail,
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
		LinkMaxAge: time.Hour,
		Domain:     "bookly.test",
		Now:        func() time.Time { return e.now },
	}
	e.books = &BookService{Repo: e.repo}
	e.reviews = &ReviewService{Repo: e.repo, Producer: notify.NewProducer(e.queue)}
	e.tags = &TagService{Repo: e.repo, Books: e.books}
	return e
}

func (e *env) signup(t *testing.T, username, email string) {
	t.Helper()
	_, err := e.auth.Signup(context.Background(), transport.SignupRequest{
		Username: username,
		Email:    email,
		Password: "Secret123",
	})
	require.NoError(t, err)
}

func (e *env) actor(t *testing.T, email string) Actor {
	t.Helper()
	u, err := e.repo.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	return Actor{UserUID: u.UID, Email: u.Email, Role: u.Role}
}
