package postgres

import (
	"fmt"
	"time"

	"github.com/fittrack/backend/domain"
)

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// pgDate adapts domain.Date to pgx scanning of DATE columns.
type pgDate struct {
	date domain.Date
}

func (d *pgDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.date = domain.NewDate(v)
		return nil
	case string:
		parsed, err := domain.ParseDate(v)
		if err != nil {
			return err
		}
		d.date = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into date", src)
	}
}
