package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type conditions struct {
	clauses []string
	args    []interface{}
}

// add appends a clause whose single %d placeholder becomes the next positional parameter.
func (c *conditions) add(clause string, arg interface{}) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *conditions) addRange(column string, rng models.DateRange) {
	if rng.From != nil {
		c.add(column+" >= $%d", *rng.From)
	}
	if rng.To != nil {
		c.add(column+" <= $%d", *rng.To)
	}
}

func (c *conditions) addClient(column string, clientID *int64) {
	if clientID != nil {
		c.add(column+" = $%d", *clientID)
	}
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

func paginate(page, size int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return page, size, (page - 1) * size
}

// namedGet binds a :name query against arg and scans the single result row into dest.
func namedGet(ctx context.Context, exec sqlx.ExtContext, dest interface{}, query string, arg interface{}) error {
	bound, args, err := exec.BindNamed(query, arg)
	if err != nil {
		return err
	}
	return sqlx.GetContext(ctx, exec, dest, bound, args...)
}

// affectedOne turns a zero-row update or delete into sql.ErrNoRows.
func affectedOne(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
