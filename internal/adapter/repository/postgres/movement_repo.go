package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nando/finper/internal/domain"
	"github.com/nando/finper/internal/usecase"
)

const movementColumns = `id, date, title, detail, amount, currency, account_in_id, account_out_id, category_id, created_at, updated_at`

// MovementRepository implements usecase.MovementRepository.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Create inserts a movement inside the caller's transaction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		movement.ID,
		timeToPgTimestamptz(movement.Date),
		movement.Title,
		movement.Detail,
		decimalToNumeric(movement.Amount),
		movement.Currency,
		nullableID(movement.AccountInID),
		nullableID(movement.AccountOutID),
		movement.CategoryID,
		timeToPgTimestamptz(movement.CreatedAt),
		timeToPgTimestamptz(movement.UpdatedAt),
	)
	if isPgErr(err, pgErrForeignKeyViolation) {
		return domain.ErrAccountNotFound
	}

	return err
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE id = $1`, id)

	return scanMovement(row)
}

// GetByIDForUpdate retrieves a movement with a FOR UPDATE lock, pinning the
// snapshot an edit or delete diffs against.
func (r *MovementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE id = $1
		FOR UPDATE`, id)

	return scanMovement(row)
}

// Update writes the full new state of a movement inside the caller's
// transaction.
func (r *MovementRepository) Update(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE movements
		SET date = $2, title = $3, detail = $4, amount = $5, currency = $6,
		    account_in_id = $7, account_out_id = $8, category_id = $9, updated_at = $10
		WHERE id = $1`,
		movement.ID,
		timeToPgTimestamptz(movement.Date),
		movement.Title,
		movement.Detail,
		decimalToNumeric(movement.Amount),
		movement.Currency,
		nullableID(movement.AccountInID),
		nullableID(movement.AccountOutID),
		movement.CategoryID,
		timeToPgTimestamptz(movement.UpdatedAt),
	)
	if isPgErr(err, pgErrForeignKeyViolation) {
		return domain.ErrAccountNotFound
	}
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// Delete removes a movement inside the caller's transaction.
func (r *MovementRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// List lists movements with pagination, newest first.
func (r *MovementRepository) List(ctx context.Context, limit, offset int) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		ORDER BY date DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectMovements(rows)
}

// ListByAccount lists movements referencing the account in either role.
func (r *MovementRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE account_in_id = $1 OR account_out_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}

	return collectMovements(rows)
}

// ListAllByAccount returns every movement referencing the account, for
// balance verification.
func (r *MovementRepository) ListAllByAccount(ctx context.Context, accountID string) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE account_in_id = $1 OR account_out_id = $1`, accountID)
	if err != nil {
		return nil, err
	}

	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*domain.Movement, error) {
	defer rows.Close()

	var movements []*domain.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}

		movements = append(movements, movement)
	}

	return movements, rows.Err()
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		movement             domain.Movement
		date                 pgtype.Timestamptz
		amount               pgtype.Numeric
		accountIn            pgtype.Text
		accountOut           pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&movement.ID,
		&date,
		&movement.Title,
		&movement.Detail,
		&amount,
		&movement.Currency,
		&accountIn,
		&accountOut,
		&movement.CategoryID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}

		return nil, err
	}

	movement.Date = date.Time
	movement.Amount = numericToDecimal(amount)
	movement.AccountInID = accountIn.String
	movement.AccountOutID = accountOut.String
	movement.CreatedAt = createdAt.Time
	movement.UpdatedAt = updatedAt.Time

	return &movement, nil
}

// nullableID maps the empty string to NULL so the optional account
// references keep their foreign keys.
func nullableID(id string) pgtype.Text {
	return pgtype.Text{String: id, Valid: id != ""}
}
