package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación del puerto ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepository construye el adaptador de persistencia para perfiles.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `id, nome, email, role, ativo, created_at`

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	var p entity.Profile
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.Active, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtiene un perfil por id de identidad. nil, nil si no existe.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Create persiste un perfil nuevo.
func (r *ProfileRepo) Create(ctx context.Context, profile *entity.Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (id, nome, email, role, ativo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		profile.ID, profile.Name, profile.Email, profile.Role, profile.Active, profile.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// List perfiles por nombre con búsqueda (nombre o email), estado y rol.
func (r *ProfileRepo) List(ctx context.Context, filter repository.ProfileFilter) ([]*entity.Profile, error) {
	var a argList
	if filter.Search != "" {
		a.add("(nome ILIKE ? OR email ILIKE ?)", "%"+filter.Search+"%")
	}
	if filter.Active != nil {
		a.add("ativo = ?", *filter.Active)
	}
	if filter.Role != "" {
		a.add("role = ?", filter.Role)
	}
	return r.query(ctx, `SELECT `+profileColumns+` FROM profiles`+a.clause()+` ORDER BY nome, email`, a.args...)
}

// UpdateAccess cambia rol y estado. ErrNotFound si el perfil no existe.
func (r *ProfileRepo) UpdateAccess(ctx context.Context, id, role string, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE profiles SET role = $2, ativo = $3 WHERE id = $1`, id, role, active)
	if err != nil {
		return fmt.Errorf("update profile access: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActiveByRoles perfiles activos cuyo rol está en roles.
func (r *ProfileRepo) ListActiveByRoles(ctx context.Context, roles []string) ([]*entity.Profile, error) {
	return r.query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE ativo AND role = ANY($1) ORDER BY created_at`,
		roles,
	)
}

func (r *ProfileRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Profile, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
