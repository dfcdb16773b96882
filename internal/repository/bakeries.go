package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/octobees/bakery-finder/internal/dto"
	"github.com/octobees/bakery-finder/internal/entity"
)

// ErrBakeryNotFound is returned when no bakery matches the lookup criteria.
var ErrBakeryNotFound = errors.New("bakery not found")

// BakeriesRepository describes persistence operations for bakeries.
type BakeriesRepository interface {
	List(ctx context.Context, filter dto.ListFilter) ([]entity.Bakery, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bakery, error)
	Create(ctx context.Context, bakery *entity.Bakery) (*entity.Bakery, error)
	Update(ctx context.Context, bakery *entity.Bakery) (*entity.Bakery, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ApplyEnrichment(ctx context.Context, id uuid.UUID, patch entity.EnrichmentPatch) (*entity.Bakery, error)
	Ping(ctx context.Context) error
}

// pgxPool is the subset of *pgxpool.Pool used by the repository.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

var (
	_ pgxPool            = (*pgxpool.Pool)(nil)
	_ BakeriesRepository = (*PGXBakeriesRepository)(nil)
)

const bakeryColumns = `
            id,
            name,
            instagram_handle,
            website,
            location,
            phone,
            description,
            has_semlor,
            semlor_status,
            last_scraped,
            scraped_data,
            created_at,
            updated_at`

// PGXBakeriesRepository implements BakeriesRepository using pgx.
type PGXBakeriesRepository struct {
	pool pgxPool
}

// NewPGXBakeriesRepository wires a pgx backed repository.
func NewPGXBakeriesRepository(pool *pgxpool.Pool) *PGXBakeriesRepository {
	return &PGXBakeriesRepository{pool: pool}
}

// List retrieves bakeries matching the filter, newest first unless asked otherwise.
func (r *PGXBakeriesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Bakery, error) {
	query := strings.Builder{}
	query.WriteString("SELECT" + bakeryColumns + "\n        FROM bakeries")

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR location ILIKE $%d)", idx, idx+1))
		args = append(args, pattern, pattern)
		idx += 2
	}
	if filter.SemlorStatus != "" {
		clauses = append(clauses, fmt.Sprintf("semlor_status = $%d", idx))
		args = append(args, filter.SemlorStatus)
	}

	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}

	switch filter.Sort {
	case dto.SortOldest:
		query.WriteString(" ORDER BY created_at ASC, id ASC")
	case dto.SortName:
		query.WriteString(" ORDER BY name ASC, id ASC")
	default:
		query.WriteString(" ORDER BY created_at DESC, id ASC")
	}

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, eris.Wrap(err, "list bakeries")
	}
	defer rows.Close()

	var bakeries []entity.Bakery
	for rows.Next() {
		bakery, err := scanBakery(rows)
		if err != nil {
			return nil, err
		}
		bakeries = append(bakeries, *bakery)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterate bakeries")
	}
	return bakeries, nil
}

// FindByID fetches a single bakery.
func (r *PGXBakeriesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bakery, error) {
	row := r.pool.QueryRow(ctx, "SELECT"+bakeryColumns+"\n        FROM bakeries WHERE id = $1", id)
	return scanBakeryOrNotFound(row, "find bakery")
}

// Create inserts a new bakery row.
func (r *PGXBakeriesRepository) Create(ctx context.Context, bakery *entity.Bakery) (*entity.Bakery, error) {
	if bakery == nil {
		return nil, eris.New("bakery payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        INSERT INTO bakeries (
            name,
            instagram_handle,
            website,
            location,
            phone,
            description,
            has_semlor,
            semlor_status
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING`+bakeryColumns,
		bakery.Name,
		bakery.InstagramHandle,
		bakery.Website,
		bakery.Location,
		bakery.Phone,
		bakery.Description,
		bakery.HasSemlor,
		string(bakery.SemlorStatus),
	)

	created, err := scanBakery(row)
	if err != nil {
		return nil, eris.Wrap(err, "create bakery")
	}
	return created, nil
}

// Update overwrites the editable fields of an existing bakery.
func (r *PGXBakeriesRepository) Update(ctx context.Context, bakery *entity.Bakery) (*entity.Bakery, error) {
	if bakery == nil {
		return nil, eris.New("bakery payload is nil")
	}

	row := r.pool.QueryRow(ctx, `
        UPDATE bakeries SET
            name = $2,
            instagram_handle = $3,
            website = $4,
            location = $5,
            phone = $6,
            description = $7,
            has_semlor = $8,
            semlor_status = $9,
            updated_at = NOW()
        WHERE id = $1
        RETURNING`+bakeryColumns,
		bakery.ID,
		bakery.Name,
		bakery.InstagramHandle,
		bakery.Website,
		bakery.Location,
		bakery.Phone,
		bakery.Description,
		bakery.HasSemlor,
		string(bakery.SemlorStatus),
	)
	return scanBakeryOrNotFound(row, "update bakery")
}

// Delete removes a bakery.
func (r *PGXBakeriesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bakeries WHERE id = $1`, id)
	if err != nil {
		return eris.Wrap(err, "delete bakery")
	}
	if tag.RowsAffected() == 0 {
		return ErrBakeryNotFound
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *PGXBakeriesRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ApplyEnrichment writes the enrichment patch in a single statement, so either
// every field changes or none does. The description is only replaced when the
// patch carries one.
func (r *PGXBakeriesRepository) ApplyEnrichment(ctx context.Context, id uuid.UUID, patch entity.EnrichmentPatch) (*entity.Bakery, error) {
	var scraped any
	if patch.ScrapedData != nil {
		data, err := json.Marshal(patch.ScrapedData)
		if err != nil {
			return nil, eris.Wrap(err, "marshal scraped data")
		}
		scraped = string(data)
	}

	row := r.pool.QueryRow(ctx, `
        UPDATE bakeries SET
            has_semlor = $2,
            semlor_status = $3,
            last_scraped = $4,
            scraped_data = $5::jsonb,
            description = COALESCE($6, description),
            updated_at = NOW()
        WHERE id = $1
        RETURNING`+bakeryColumns,
		id,
		patch.HasSemlor,
		string(patch.SemlorStatus),
		patch.LastScraped,
		scraped,
		patch.Description,
	)
	return scanBakeryOrNotFound(row, "apply enrichment")
}

func scanBakeryOrNotFound(row pgx.Row, action string) (*entity.Bakery, error) {
	bakery, err := scanBakery(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBakeryNotFound
		}
		return nil, eris.Wrap(err, action)
	}
	return bakery, nil
}

func scanBakery(row pgx.Row) (*entity.Bakery, error) {
	var (
		b           entity.Bakery
		status      string
		lastScraped sql.NullTime
		scraped     []byte
	)

	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.InstagramHandle,
		&b.Website,
		&b.Location,
		&b.Phone,
		&b.Description,
		&b.HasSemlor,
		&status,
		&lastScraped,
		&scraped,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.SemlorStatus = entity.SemlorStatus(status)
	if lastScraped.Valid {
		ts := lastScraped.Time
		b.LastScraped = &ts
	}
	if len(scraped) > 0 {
		var report entity.EnrichmentReport
		if err := json.Unmarshal(scraped, &report); err != nil {
			return nil, eris.Wrap(err, "unmarshal scraped data")
		}
		b.ScrapedData = &report
	}

	return &b, nil
}
