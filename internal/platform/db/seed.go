package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrops/internal/domain/auth"
	"hrops/internal/domain/leave"
	"hrops/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureLeaveTypes(ctx, pool); err != nil {
		return err
	}
	return ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureLeaveTypes(ctx context.Context, pool *pgxpool.Pool) error {
	defaults := []struct {
		name     string
		code     string
		category string
		isPaid   bool
	}{
		{"Annual Leave", "ANNUAL", leave.CategoryAnnual, true},
		{"Sick Leave", "SICK", leave.CategorySick, true},
		{"Casual Leave", "CASUAL", leave.CategoryOther, true},
		{"Unpaid Leave", "UNPAID", leave.CategoryOther, false},
	}
	for _, lt := range defaults {
		if _, err := pool.Exec(ctx, `
      INSERT INTO leave_types (name, code, category, is_paid)
      VALUES ($1,$2,$3,$4)
      ON CONFLICT (code) DO NOTHING
    `, lt.name, lt.code, lt.category, lt.isPaid); err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	var existing string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, role, status)
    VALUES ($1,$2,$3,$4)
  `, email, hash, auth.RoleAdmin, auth.UserStatusActive)
	return err
}
