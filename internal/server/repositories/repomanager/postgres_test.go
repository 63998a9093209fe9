package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kuba1e/food-delivery/internal/server/users"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewPostgresRepositoryManager_ReturnsInterface(t *testing.T) {
	var _ RepositoryManager = NewPostgresRepositoryManager()
}

func TestUsers_ReturnsPostgresDirectory(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &PostgresRepositoryManager{}

	u := m.Users(db)
	if u == nil {
		t.Fatal("Users() nil")
	}
	if _, ok := u.(*users.PostgresRepository); !ok {
		t.Fatalf("unexpected directory type %T", u)
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestOpen_PingsDatabase(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectPing()

	orig := sqlOpen
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		if driver != "pgx" || dsn != "postgres://example" {
			t.Fatalf("unexpected open(%q, %q)", driver, dsn)
		}
		return db, nil
	}
	defer func() { sqlOpen = orig }()

	got, err := Open(context.Background(), "postgres://example")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer got.Close()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOpen_PingFailure(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }
	defer func() { sqlOpen = orig }()

	if _, err := Open(context.Background(), "postgres://example"); err == nil {
		t.Fatal("expected ping error")
	}
}

func TestMigrations_Embedded(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	goose.SetBaseFS(nil)
	orig := gooseUpContext
	var sawFS bool
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		migrations, err := goose.CollectMigrations(dir, 0, goose.MaxVersion)
		if err != nil {
			return err
		}
		sawFS = len(migrations) == 1 && migrations[0].Version == 1
		return nil
	}
	defer func() { gooseUpContext = orig }()

	if err := (&PostgresRepositoryManager{}).RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if !sawFS {
		t.Fatal("embedded users migration not found")
	}
}
