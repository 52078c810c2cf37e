// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/playerone/storefront/internal/core"
)

const (
	lockActiveUser = `SELECT .* FROM users WHERE id = \$1 AND active = TRUE FOR UPDATE`
	insertLedger   = `INSERT INTO removed_items`
	deactivateUser = `UPDATE users SET active = FALSE`
	clearCart      = `DELETE FROM cart_items WHERE user_id = \$1`
)

func newSQLRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func userRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "role", "active", "created_at", "updated_at",
	}).AddRow("u-1", "Bob", "bob@playerone.test", "$2a$10$hash", RoleUser, true, now, now)
}

func TestSQLSoftDeleteUser(t *testing.T) {
	repo, mock := newSQLRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockActiveUser).WithArgs("u-1").WillReturnRows(userRows())
	mock.ExpectQuery(insertLedger).
		WithArgs(sqlmock.AnyArg(), "user", "u-1", "Bob", "chargeback", "a-1").
		WillReturnRows(sqlmock.NewRows([]string{"removed_at"}).AddRow(time.Now()))
	mock.ExpectExec(deactivateUser).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(clearCart).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	removed, err := repo.SoftDelete(context.Background(), "u-1", "a-1", "chargeback")
	if err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if removed.ID != "u-1" || removed.Active {
		t.Errorf("removed = %+v", removed)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSQLSoftDeleteUserRollsBack(t *testing.T) {
	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
	}{
		{
			name: "unknown or inactive id",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(lockActiveUser).WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
		},
		{
			name: "ledger insert fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(lockActiveUser).WillReturnRows(userRows())
				mock.ExpectQuery(insertLedger).WillReturnError(errors.New("disk full"))
			},
		},
		{
			name: "deactivate fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(lockActiveUser).WillReturnRows(userRows())
				mock.ExpectQuery(insertLedger).
					WillReturnRows(sqlmock.NewRows([]string{"removed_at"}).AddRow(time.Now()))
				mock.ExpectExec(deactivateUser).WillReturnError(errors.New("deadlock detected"))
			},
		},
		{
			name: "cart clear fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(lockActiveUser).WillReturnRows(userRows())
				mock.ExpectQuery(insertLedger).
					WillReturnRows(sqlmock.NewRows([]string{"removed_at"}).AddRow(time.Now()))
				mock.ExpectExec(deactivateUser).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(clearCart).WillReturnError(errors.New("connection reset"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newSQLRepo(t)

			mock.ExpectBegin()
			tt.expect(mock)
			mock.ExpectRollback()

			if _, err := repo.SoftDelete(context.Background(), "u-1", "a-1", ""); err == nil {
				t.Fatal("expected an error")
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestSQLSoftDeleteUnknownUserIsNotFound(t *testing.T) {
	repo, mock := newSQLRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockActiveUser).WithArgs("u-404").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.SoftDelete(context.Background(), "u-404", "a-1", "")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLExistsByEmailIncludesInactive(t *testing.T) {
	repo, mock := newSQLRepo(t)

	exact := regexp.QuoteMeta(
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`,
	)
	mock.ExpectQuery("^" + exact + "$").
		WithArgs("Gone@PlayerOne.test").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "Gone@PlayerOne.test")
	if err != nil || !exists {
		t.Fatalf("ExistsByEmail = %v, %v", exists, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSQLLookupsFilterActive(t *testing.T) {
	repo, mock := newSQLRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`FROM users WHERE id = \$1 AND active = TRUE`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`FROM users WHERE LOWER\(email\) = LOWER\(\$1\) AND active = TRUE`).
		WithArgs("bob@playerone.test").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(ctx, "u-1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetByID err = %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "bob@playerone.test"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetByEmail err = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSQLUniqueViolationIsDuplicateKey(t *testing.T) {
	repo, mock := newSQLRepo(t)
	ctx := context.Background()
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"}

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(unique)
	mock.ExpectQuery(`UPDATE users SET name = \$2`).WillReturnError(unique)

	err := repo.Create(ctx, &User{ID: "u-2", Name: "Ana", Email: "bob@playerone.test", Role: RoleUser})
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Errorf("Create err = %v, want ErrDuplicateKey", err)
	}

	err = repo.Update(ctx, &User{ID: "u-2", Name: "Ana", Email: "bob@playerone.test", Role: RoleUser})
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Errorf("Update err = %v, want ErrDuplicateKey", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSQLUpdatePasswordUnknownUser(t *testing.T) {
	repo, mock := newSQLRepo(t)

	mock.ExpectExec(`UPDATE users SET password_hash = \$2`).
		WithArgs("u-404", "$2a$10$new").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), "u-404", "$2a$10$new")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
