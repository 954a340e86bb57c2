package config

import (
	"testing"

	"caoguia-api/internal/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSeederDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func TestSeederSkipsWithoutCredentials(t *testing.T) {
	t.Setenv("SEED_ADMIN_EMAIL", "")
	t.Setenv("SEED_ADMIN_PASSWORD", "")
	db, mock := newSeederDB(t)

	if err := NewSeeder(db, logger.Discard()).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected queries: %v", err)
	}
}

func TestSeederKeepsExistingAdmin(t *testing.T) {
	t.Setenv("SEED_ADMIN_EMAIL", "root@example.com")
	t.Setenv("SEED_ADMIN_PASSWORD", "rootpass")
	db, mock := newSeederDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `usuarios` WHERE administrador = \\?").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	if err := NewSeeder(db, logger.Discard()).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSeederCreatesFirstAdmin(t *testing.T) {
	t.Setenv("SEED_ADMIN_EMAIL", "root@example.com")
	t.Setenv("SEED_ADMIN_PASSWORD", "rootpass")
	db, mock := newSeederDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `usuarios` WHERE administrador = \\?").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `usuarios`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := NewSeeder(db, logger.Discard()).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
