// Package records gives administrators raw access to a fixed set of
// tables. Table names come from a whitelist and are never taken verbatim
// from requests.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"

	"github.com/jmoiron/sqlx"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

var (
	ErrUnknownTable     = errors.New("unknown table")
	ErrUnknownColumn    = errors.New("column cannot be edited")
	ErrRecordNotFound   = errors.New("record not found")
	ErrRecordReferenced = errors.New("record is still referenced by other records")
	ErrInvalidValue     = errors.New("value is not valid for the column")
)

var tables = map[string]string{
	"app_user":         "app_user",
	"game":             "game",
	"game_participant": "game_participant",
	"wish":             "wish",
	"pair":             "pair",
}

// editable lists the columns Update may change per table. Keys and
// primary keys are left out.
var editable = map[string]map[string]string{
	"app_user": {
		"username":   "username",
		"first_name": "first_name",
		"last_name":  "last_name",
		"role":       "role",
	},
	"game": {
		"name":        "name",
		"budget":      "budget",
		"currency":    "currency",
		"invite_code": "invite_code",
		"status":      "status",
	},
	"game_participant": {},
	"wish": {
		"text": "text",
	},
	"pair": {
		"sender_id":   "sender_id",
		"receiver_id": "receiver_id",
		"is_manual":   "is_manual",
	},
}

type Record map[string]interface{}

type Page struct {
	Table    string   `json:"table"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	Total    int64    `json:"total"`
	Records  []Record `json:"records"`
}

type Browser struct {
	db *sqlx.DB
}

func NewBrowser(db *sqlx.DB) *Browser {
	return &Browser{db: db}
}

func Tables() []string {
	return []string{"app_user", "game", "game_participant", "wish", "pair"}
}

// List returns one page of rows ordered by id. Pages start at 1.
func (b *Browser) List(ctx context.Context, table string, page, pageSize int) (Page, error) {
	name, err := resolve(table)
	if err != nil {
		return Page{}, err
	}

	page, pageSize = normalizePage(page, pageSize)

	var total int64
	if err := b.db.GetContext(ctx, &total, fmt.Sprintf(`SELECT count(*) FROM %s;`, name)); err != nil {
		return Page{}, err
	}

	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY id LIMIT $1 OFFSET $2;`, name)
	rows, err := b.db.QueryxContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return Page{}, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return Page{}, err
	}

	return Page{
		Table:    name,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Records:  records,
	}, nil
}

func (b *Browser) Get(ctx context.Context, table string, id int64) (Record, error) {
	name, err := resolve(table)
	if err != nil {
		return nil, err
	}

	row := b.db.QueryRowxContext(ctx, fmt.Sprintf(`SELECT * FROM %s WHERE id = $1;`, name), id)

	record := Record{}
	if err := row.MapScan(record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return normalize(record), nil
}

// Delete removes one row. Rows other tables depend on are removed with
// them where the schema cascades.
func (b *Browser) Delete(ctx context.Context, table string, id int64) error {
	name, err := resolve(table)
	if err != nil {
		return err
	}

	result, err := b.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1;`, name), id)
	if err != nil {
		return classify(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// Update sets one column of one row and returns the row as stored. The
// value is sent as text and converted by postgres to the column type.
func (b *Browser) Update(ctx context.Context, table string, id int64, column, value string) (Record, error) {
	name, col, err := resolveColumn(table, column)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2 RETURNING *;`, name, col)
	row := b.db.QueryRowxContext(ctx, query, value, id)

	record := Record{}
	if err := row.MapScan(record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, classify(err)
	}

	return normalize(record), nil
}

func resolveColumn(table, column string) (string, string, error) {
	name, err := resolve(table)
	if err != nil {
		return "", "", err
	}

	col, ok := editable[name][column]
	if !ok {
		return "", "", fmt.Errorf("%w: %s.%q", ErrUnknownColumn, name, column)
	}

	return name, col, nil
}

func classify(err error) error {
	switch {
	case core.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", ErrRecordReferenced, err)
	case core.IsUniqueViolation(err, ""), core.IsInvalidValue(err):
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return err
}

func resolve(table string) (string, error) {
	name, ok := tables[table]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return name, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}

	switch {
	case pageSize <= 0:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}

	return page, pageSize
}

func scanRecord(rows *sqlx.Rows) (Record, error) {
	record := Record{}
	if err := rows.MapScan(record); err != nil {
		return nil, err
	}
	return normalize(record), nil
}

// normalize turns the driver's []byte values (numeric, text) into strings
// so records encode as readable JSON.
func normalize(record Record) Record {
	for k, v := range record {
		if b, ok := v.([]byte); ok {
			record[k] = string(b)
		}
	}
	return record
}
