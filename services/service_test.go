package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eraydn/odak/database"
	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/repository"
	"github.com/eraydn/odak/ws"
)

// publisherRecorder, broadcast edilen event'leri kaydeden sahte EventPublisher.
// Service testleri gerçek Hub yerine bunu bağlar — WebSocket bağlantısı
// olmadan "doğru scope'a doğru event gitti mi" doğrulanır.
type publisherRecorder struct {
	mu     sync.Mutex
	events []recordedBroadcast
}

type recordedBroadcast struct {
	scope string
	event ws.Event
}

func (p *publisherRecorder) BroadcastToScope(scope string, event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedBroadcast{scope: scope, event: event})
}

func (p *publisherRecorder) BroadcastToScopeExcept(excludeUserID, scope string, event ws.Event) {
	p.BroadcastToScope(scope, event)
}

func (p *publisherRecorder) BroadcastToUser(userID string, event ws.Event) {
	p.BroadcastToScope("user:"+userID, event)
}

// byOp, verilen op'taki broadcast'leri döner.
func (p *publisherRecorder) byOp(op string) []recordedBroadcast {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []recordedBroadcast
	for _, b := range p.events {
		if b.event.Op == op {
			out = append(out, b)
		}
	}
	return out
}

// repoNameResolver, feed'in isim çözümlemesini user repo'ya bağlar
// (main.go'daki wire-up'ın test karşılığı).
type repoNameResolver struct {
	users repository.UserRepository
}

func (r *repoNameResolver) ResolveName(ctx context.Context, userID string) (string, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Name(), nil
}

// senderRecorder, gönderilen davet emaillerini kaydeden sahte EmailSender.
type senderRecorder struct {
	mu   sync.Mutex
	sent []sentInvite
	fail error
}

type sentInvite struct {
	toEmail   string
	groupName string
	inviter   string
	token     string
}

func (s *senderRecorder) SendGroupInvitation(ctx context.Context, toEmail, groupName, inviterName, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, sentInvite{toEmail: toEmail, groupName: groupName, inviter: inviterName, token: token})
	return nil
}

func (s *senderRecorder) all() []sentInvite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentInvite(nil), s.sent...)
}

// svcEnv, service testlerinin ortak fixture'ı: gerçek SQLite DB + repo'lar,
// sahte publisher/sender, gerçek feed ve access checker.
//
// Seed: alice ve bob "takım" grubunun üyesi; carol hiçbir gruba üye değil.
type svcEnv struct {
	db *database.DB

	users       repository.UserRepository
	sessions    repository.SessionRepository
	groups      repository.GroupRepository
	threads     repository.ThreadRepository
	messages    repository.MessageRepository
	reactions   repository.ReactionRepository
	receipts    repository.ReceiptRepository
	invitations repository.InvitationRepository
	waitlist    repository.WaitlistRepository

	publisher *publisherRecorder
	feed      *ws.EventFeed
	access    *AccessChecker

	alice *models.User
	bob   *models.User
	carol *models.User
	group *models.Group
	conv  models.Conversation
}

func newSvcEnv(t *testing.T) *svcEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), database.EmbeddedMigrations)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &svcEnv{
		db:          db,
		users:       repository.NewSQLiteUserRepo(db.Conn),
		sessions:    repository.NewSQLiteSessionRepo(db.Conn),
		groups:      repository.NewSQLiteGroupRepo(db.Conn),
		threads:     repository.NewSQLiteThreadRepo(db.Conn),
		messages:    repository.NewSQLiteMessageRepo(db.Conn),
		reactions:   repository.NewSQLiteReactionRepo(db.Conn),
		receipts:    repository.NewSQLiteReceiptRepo(db.Conn),
		invitations: repository.NewSQLiteInvitationRepo(db.Conn),
		waitlist:    repository.NewSQLiteWaitlistRepo(db.Conn),
		publisher:   &publisherRecorder{},
	}

	env.feed = ws.NewEventFeed(&repoNameResolver{users: env.users}, env.publisher)
	t.Cleanup(env.feed.Close)

	env.access = NewAccessChecker(env.groups, env.threads)

	ctx := context.Background()

	env.alice = &models.User{Email: "alice@test.dev", Username: "alice", PasswordHash: "x"}
	require.NoError(t, env.users.Create(ctx, env.alice))

	env.bob = &models.User{Email: "bob@test.dev", Username: "bob", PasswordHash: "x"}
	require.NoError(t, env.users.Create(ctx, env.bob))

	env.carol = &models.User{Email: "carol@test.dev", Username: "carol", PasswordHash: "x"}
	require.NoError(t, env.users.Create(ctx, env.carol))

	env.group = &models.Group{Name: "takım", CreatedBy: env.alice.ID}
	require.NoError(t, env.groups.Create(ctx, env.group))
	require.NoError(t, env.groups.AddMember(ctx, env.group.ID, env.alice.ID))
	require.NoError(t, env.groups.AddMember(ctx, env.group.ID, env.bob.ID))

	env.conv = models.Conversation{Type: models.ConversationGroup, ID: env.group.ID}
	return env
}

// seedMessage, conversation'a repo üzerinden doğrudan mesaj yazar.
func (e *svcEnv) seedMessage(t *testing.T, conv models.Conversation, userID, content string) *models.Message {
	t.Helper()
	msg := &models.Message{UserID: userID, Content: &content}
	require.NoError(t, e.messages.Create(context.Background(), conv, msg))
	return msg
}
