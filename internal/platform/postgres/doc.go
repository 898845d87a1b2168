// Package postgres provides PostgreSQL implementations of the store
// interfaces, using raw SQL over database/sql with the pgx driver.
package postgres
