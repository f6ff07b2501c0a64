package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var dialect = goqu.Dialect("postgres")

// likeEscaper escapes the wildcard characters of a LIKE pattern so that a
// search term always matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int) (*Book, error) {
	return r.getOne(ctx, "get by id", goqu.C(colID).Eq(id))
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn string) (*Book, error) {
	return r.getOne(ctx, "get by isbn", goqu.C(colISBN).Eq(isbn))
}

func (r *PostgresRepo) GetAll(ctx context.Context) ([]*Book, error) {
	return r.list(ctx, "get all", nil)
}

func (r *PostgresRepo) SearchByTitle(ctx context.Context, title string) ([]*Book, error) {
	return r.list(ctx, "search by title", containsFold(colTitle, title))
}

func (r *PostgresRepo) SearchByAuthor(ctx context.Context, author string) ([]*Book, error) {
	return r.list(ctx, "search by author", containsFold(colAuthor, author))
}

// Add inserts the book and lets the database assign the id. The returned
// book is the stored row, so price and timestamps carry the column's
// rounding. A duplicate ISBN surfaces as ErrConstraintViolation from the
// unique index.
func (r *PostgresRepo) Add(ctx context.Context, b *Book) (*Book, error) {
	query, args, err := dialect.Insert(tableBooks).Prepared(true).
		Rows(toRecord(b).values()).
		Returning(bookColumns...).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("add: build query: %w", err)
	}

	var stored record
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, args...).Scan(stored.scanTargets()...); err != nil {
		return nil, storageError("add", err)
	}
	return stored.toDomain(), nil
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	rec := toRecord(b)
	query, args, err := dialect.Update(tableBooks).Prepared(true).
		Set(rec.values()).
		Where(goqu.C(colID).Eq(rec.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("update: build query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, query, args...); err != nil {
		return storageError("update", err)
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int) error {
	query, args, err := dialect.Delete(tableBooks).Prepared(true).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("delete: build query: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, query, args...); err != nil {
		return storageError("delete", err)
	}
	return nil
}

// Ping reports whether the database answers.
func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func (r *PostgresRepo) selectBooks() *goqu.SelectDataset {
	return dialect.From(tableBooks).Prepared(true).Select(bookColumns...)
}

func (r *PostgresRepo) getOne(ctx context.Context, op string, where exp.Expression) (*Book, error) {
	query, args, err := r.selectBooks().Where(where).Limit(1).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var rec record
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, args...).Scan(rec.scanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError(op, err)
	}
	return rec.toDomain(), nil
}

func (r *PostgresRepo) list(ctx context.Context, op string, where exp.Expression) ([]*Book, error) {
	ds := r.selectBooks().Order(goqu.C(colID).Asc())
	if where != nil {
		ds = ds.Where(where)
	}
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, storageError(op, err)
	}
	defer rows.Close()

	out := []*Book{}
	for rows.Next() {
		var rec record
		if err := rows.Scan(rec.scanTargets()...); err != nil {
			return nil, storageError(op, err)
		}
		out = append(out, rec.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(op, err)
	}
	return out, nil
}

func containsFold(column, term string) exp.Expression {
	return goqu.C(column).ILike("%" + likeEscaper.Replace(term) + "%")
}

// storageError classifies a driver error. Only a unique violation is a
// conflict with a stored book. Other integrity and data exceptions (length
// limits, numeric overflow) mean the value itself was rejected and become
// ErrValidation; everything else is ErrStorage.
func storageError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, ErrConstraintViolation, pgErr.Message)
		case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code), pgerrcode.IsDataException(pgErr.Code):
			return fmt.Errorf("%s: %w: %s", op, ErrValidation, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
