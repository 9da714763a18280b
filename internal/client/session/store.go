// Package session persists the admin console's login and language choice in
// a local SQLite database.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/portfolio/internal/client/session/migrations"
	"github.com/dmitrijs2005/portfolio/internal/dbx"

	_ "modernc.org/sqlite"
)

const (
	keyToken = "token"
	keyName  = "name"
	keyLang  = "lang"
)

// Session is the persisted console state. An empty Token means logged out.
type Session struct {
	Token string
	Name  string
	Lang  string
}

func (s Session) LoggedIn() bool {
	return s.Token != ""
}

type Store struct {
	db *sql.DB
}

// RunMigrations applies the embedded schema with goose.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the SQLite file at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the stored session. Missing keys yield empty fields.
func (s *Store) Load(ctx context.Context) (Session, error) {
	kv, err := NewRepository(s.db).List(ctx)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: kv[keyToken], Name: kv[keyName], Lang: kv[keyLang]}, nil
}

// SaveLogin stores token and name together.
func (s *Store) SaveLogin(ctx context.Context, token, name string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewRepository(tx)
		if err := repo.Set(ctx, keyToken, token); err != nil {
			return err
		}
		return repo.Set(ctx, keyName, name)
	})
}

// ClearLogin forgets the token and name but keeps the language.
func (s *Store) ClearLogin(ctx context.Context) error {
	return NewRepository(s.db).Delete(ctx, keyToken, keyName)
}

func (s *Store) SetLang(ctx context.Context, lang string) error {
	return NewRepository(s.db).Set(ctx, keyLang, lang)
}
