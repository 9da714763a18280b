// Package settings persists the singleton site settings row (id = 1).
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the stored settings or common.ErrorNotFound when they were
// never saved.
func (r *PostgresRepository) Get(ctx context.Context) (*models.Settings, error) {
	query :=
		`SELECT email, phones, cv_link, is_looking_for_work, socials, system_note, updated_at
		 FROM settings WHERE id = 1`

	var phones, socials, note []byte
	s := &models.Settings{}
	err := r.db.QueryRowContext(ctx, query).
		Scan(&s.Email, &phones, &s.CVLink, &s.IsLookingForWork, &socials, &note, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := unmarshalAll(phones, &s.Phones, socials, &s.Socials, note, &s.SystemNote); err != nil {
		return nil, err
	}

	return s, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, s *models.Settings) (*models.Settings, error) {
	phones, err := json.Marshal(s.Phones)
	if err != nil {
		return nil, err
	}
	socials, err := json.Marshal(s.Socials)
	if err != nil {
		return nil, err
	}
	note, err := json.Marshal(s.SystemNote)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO settings (id, email, phones, cv_link, is_looking_for_work, socials, system_note, updated_at)
		 VALUES (1, $1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (id) DO UPDATE SET
		   email = excluded.email,
		   phones = excluded.phones,
		   cv_link = excluded.cv_link,
		   is_looking_for_work = excluded.is_looking_for_work,
		   socials = excluded.socials,
		   system_note = excluded.system_note,
		   updated_at = now()
		 RETURNING updated_at`

	err = r.db.QueryRowContext(ctx, query,
		s.Email, phones, s.CVLink, s.IsLookingForWork, socials, note).Scan(&s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func unmarshalAll(pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		raw, _ := pairs[i].([]byte)
		if len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, pairs[i+1]); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
	}
	return nil
}
