// Package catalog loads the selectable countries from Postgres.
//
// Expected table:
//
//	CREATE TABLE countries (
//	    iso2      char(2) PRIMARY KEY,
//	    name      text    NOT NULL,
//	    dial_code text    NOT NULL,
//	    flag      text    NOT NULL DEFAULT '',
//	    position  int     NOT NULL DEFAULT 0,
//	    enabled   boolean NOT NULL DEFAULT true
//	);
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vortex-fintech/contactform/geo"
)

// Executor abstracts *sql.DB or *sql.Tx
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const selectCountries = `SELECT iso2, name, dial_code, flag FROM countries WHERE enabled ORDER BY position, iso2`

// Load reads the enabled countries in display order. Rows with an invalid
// code or an empty dial code are skipped; the first row becomes the
// catalog default.
func Load(ctx context.Context, exec Executor) (*geo.Catalog, error) {
	rows, err := exec.QueryContext(ctx, selectCountries)
	if err != nil {
		return nil, fmt.Errorf("catalog: query: %w", err)
	}
	defer rows.Close()

	var countries []geo.Country
	for rows.Next() {
		var (
			c    geo.Country
			flag sql.NullString
		)
		if err := rows.Scan(&c.ISO2, &c.Name, &c.DialCode, &flag); err != nil {
			return nil, fmt.Errorf("catalog: scan: %w", err)
		}
		if strings.TrimSpace(c.DialCode) == "" {
			continue
		}
		c.Flag = flag.String
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: rows: %w", err)
	}

	return geo.NewCatalog(countries), nil
}
