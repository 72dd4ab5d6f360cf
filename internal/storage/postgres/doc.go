// Package postgres implements the LiftLog repositories on PostgreSQL.
//
// Connections go through database/sql with the pgx driver. The schema is
// embedded and applied with goose. Driver errors are translated to domain
// errors here and nowhere else:
//
//   - sql.ErrNoRows           -> entity NotFound
//   - 23505 unique_violation  -> Conflict
//   - 23503 foreign_key_violation -> NotFound (insert) or Conflict (delete in use)
//   - anything else           -> domain.ErrDatabase wrapping the cause
package postgres
