package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/steptzi/api/internal/adapters/handler/http"
	repo "github.com/steptzi/api/internal/adapters/repository/postgres"
	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
	"github.com/steptzi/api/internal/core/services"
)

const testSecret = "test-secret"

type sentMail struct {
	Subject  string
	Template string
	To       []string
	Vars     map[string]string
}

// recordingMailer captures outgoing mails so tests can pull
// verification and reset links out of them.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(ctx context.Context, subject, template string, to []string, vars map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Subject: subject, Template: template, To: to, Vars: vars})
	return nil
}

// waitForMail polls until a mail addressed to the given recipient shows up.
// Mails are dispatched on goroutines so a plain read would race.
func (m *recordingMailer) waitForMail(t *testing.T, to string) sentMail {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		for _, s := range m.sent {
			for _, addr := range s.To {
				if addr == to {
					m.mu.Unlock()
					return s
				}
			}
		}
		m.mu.Unlock()
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("no mail sent to %s", to)
	return sentMail{}
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *stdhttp.Client
	Mailer      *recordingMailer
	Codec       ports.TokenCodec
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	userRepo := repo.NewUserRepository(db)
	usedTokenRepo := repo.NewUsedTokenRepository(db)
	tagRepo := repo.NewTagRepository(db)
	postRepo := repo.NewPostRepository(db)
	commentRepo := repo.NewCommentRepository(db)

	mailer := &recordingMailer{}
	codec := services.NewTokenCodec(testSecret, 30*time.Minute, 30*24*time.Hour, 30*time.Minute)
	hasher := services.NewBcryptHasher()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	authSvc := services.NewAuthService(userRepo, usedTokenRepo, codec, hasher, mailer, logger, "http://localhost:3000")
	userSvc := services.NewUserService(userRepo, authSvc)
	tagSvc := services.NewTagService(tagRepo)
	postSvc := services.NewPostService(postRepo)
	commentSvc := services.NewCommentService(commentRepo, postRepo)

	router := handler.NewRouter(
		handler.RouterConfig{AllowedOrigins: []string{"*"}},
		handler.NewAuthMiddleware(authSvc),
		handler.NewAuthHandler(authSvc),
		handler.NewUserHandler(userSvc),
		handler.NewTagHandler(tagSvc),
		handler.NewPostHandler(postSvc),
		handler.NewCommentHandler(commentSvc),
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Mailer:      mailer,
		Codec:       codec,
		DBContainer: dbContainer,
	}
}

// createUser inserts a verified user directly and returns it with an access token.
func (app *TestApp) createUser(t *testing.T, admin bool) (*domain.User, string) {
	t.Helper()

	userID := uuid.New()
	username := fmt.Sprintf("user-%s", userID.String()[:8])
	email := fmt.Sprintf("%s@example.com", username)

	hash, err := services.NewBcryptHasher().Hash("password123")
	require.NoError(t, err)

	_, err = app.DB.Exec(
		`INSERT INTO users (id, username, email, password_hash, is_active, is_verified, is_admin)
		 VALUES ($1, $2, $3, $4, true, true, $5)`,
		userID, username, email, hash, admin,
	)
	require.NoError(t, err)

	token, err := app.Codec.Issue(userID, domain.ScopeAccess)
	require.NoError(t, err)

	return &domain.User{ID: userID, Username: username, Email: email, IsAdmin: admin}, token
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
