package profile

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Repository persists profiles keyed by lowercased handle.
type Repository interface {
	Get(ctx context.Context, handle string) (Profile, error)
	// Create stores p unless a record with the same handle exists, in which case the
	// existing record is returned unchanged.
	Create(ctx context.Context, p Profile) (Profile, error)
	// Update applies mutate to the current record atomically and returns the result.
	// An error from mutate aborts the update.
	Update(ctx context.Context, handle string, mutate func(*Profile) error) (Profile, error)
}

// PostgresRepository implements Repository using PostgreSQL. Updates run in a
// transaction holding a row lock on the profile.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed profile repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate creates the profile and donation tables when missing.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply profile schema: %w", err)
	}
	return nil
}

const profileColumns = `handle, display_name, profile_image, banner_color, wallet_address,
        earnings, balance, donations, created_at, updated_at`

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Get fetches a profile and its most recent donations.
func (r *PostgresRepository) Get(ctx context.Context, handle string) (Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE handle = $1`, handle)
	p, err := scanProfile(row)
	if err != nil {
		return Profile{}, err
	}
	if p.RecentDonations, err = loadDonations(ctx, r.db, handle); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Create inserts a profile, keeping the existing row if the handle is taken.
func (r *PostgresRepository) Create(ctx context.Context, p Profile) (Profile, error) {
	_, err := r.db.Exec(ctx, `INSERT INTO profiles (`+profileColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (handle) DO NOTHING`,
		p.Handle, p.DisplayName, p.ProfileImage, p.BannerColor, p.WalletAddress,
		p.WalletStats.Earnings, p.WalletStats.Balance, p.WalletStats.Donations,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return Profile{}, err
	}
	return r.Get(ctx, p.Handle)
}

// Update locks the profile row, applies mutate and writes back the profile together
// with any donations mutate added.
func (r *PostgresRepository) Update(ctx context.Context, handle string, mutate func(*Profile) error) (Profile, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Profile{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	row := tx.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE handle = $1 FOR UPDATE`, handle)
	current, err := scanProfile(row)
	if err != nil {
		return Profile{}, err
	}
	if current.RecentDonations, err = loadDonations(ctx, tx, handle); err != nil {
		return Profile{}, err
	}

	known := make(map[string]struct{}, len(current.RecentDonations))
	for _, d := range current.RecentDonations {
		known[d.ID] = struct{}{}
	}

	working := current.clone()
	if err := mutate(&working); err != nil {
		return Profile{}, err
	}

	_, err = tx.Exec(ctx, `UPDATE profiles SET display_name = $2, profile_image = $3, banner_color = $4,
        wallet_address = $5, earnings = $6, balance = $7, donations = $8, updated_at = $9
        WHERE handle = $1`,
		handle, working.DisplayName, working.ProfileImage, working.BannerColor, working.WalletAddress,
		working.WalletStats.Earnings, working.WalletStats.Balance, working.WalletStats.Donations,
		working.UpdatedAt.UTC())
	if err != nil {
		return Profile{}, err
	}

	// Oldest first so seq order follows recency.
	for i := len(working.RecentDonations) - 1; i >= 0; i-- {
		d := working.RecentDonations[i]
		if _, ok := known[d.ID]; ok {
			continue
		}
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return Profile{}, fmt.Errorf("donation id: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO donations (id, handle, from_address, amount, created_ms)
            VALUES ($1, $2, $3, $4, $5)`, id, handle, d.FromAddress, d.Amount, d.Timestamp); err != nil {
			return Profile{}, err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM donations WHERE handle = $1 AND seq NOT IN (
            SELECT seq FROM donations WHERE handle = $1 ORDER BY seq DESC LIMIT $2)`,
		handle, MaxRecentDonations); err != nil {
		return Profile{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Profile{}, err
	}
	return working, nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.Handle, &p.DisplayName, &p.ProfileImage, &p.BannerColor, &p.WalletAddress,
		&p.WalletStats.Earnings, &p.WalletStats.Balance, &p.WalletStats.Donations, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func loadDonations(ctx context.Context, q querier, handle string) ([]Donation, error) {
	rows, err := q.Query(ctx, `SELECT id, from_address, amount, created_ms FROM donations
        WHERE handle = $1 ORDER BY seq DESC LIMIT $2`, handle, MaxRecentDonations)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donations := make([]Donation, 0, MaxRecentDonations)
	for rows.Next() {
		var (
			id uuid.UUID
			d  Donation
		)
		if err := rows.Scan(&id, &d.FromAddress, &d.Amount, &d.Timestamp); err != nil {
			return nil, err
		}
		d.ID = id.String()
		donations = append(donations, d)
	}
	return donations, rows.Err()
}
