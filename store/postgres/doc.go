// Package postgres implements the store using pgx/v5 with raw SQL.
// Escrow debits are guarded by a balance predicate in the UPDATE itself,
// and schema setup runs from embedded SQL migrations.
package postgres
