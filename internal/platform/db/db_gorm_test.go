package db

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
)

// TestBuildDSN_TCP はTCP接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_TCP(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
	}

	dsn := BuildDSN(cfg)

	expected := "host=localhost user=testuser password=testpass dbname=testdb port=5432 sslmode=disable TimeZone=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_CloudSQL はCloud SQL Unixソケット接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_CloudSQL(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:         "testuser",
		Password:     "testpass",
		Name:         "testdb",
		Host:         "localhost",
		Port:         "5432",
		SSLMode:      "require",
		InstanceName: "project:region:instance",
	}

	dsn := BuildDSN(cfg)

	expected := "host=/cloudsql/project:region:instance user=testuser password=testpass dbname=testdb sslmode=require TimeZone=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
	if strings.Contains(dsn, "port=") {
		t.Error("unix socket DSN must not carry a port")
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	opener := func(dsn string) (*gorm.DB, error) {
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := connectWithRetry("test-dsn", time.Second, 10*time.Millisecond, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attemptCount := 0
	cause := errors.New("connection refused")
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, cause
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	if !errors.Is(err, ErrConnectTimeout) {
		t.Fatalf("expected ErrConnectTimeout, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped, got %v", err)
	}
	if attemptCount != 1 {
		t.Errorf("expected a single attempt within the timeout, got %d", attemptCount)
	}
}

// TestLoadConfigFromEnv は環境変数からデータベース設定が正しく読み込まれることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	// Not running in parallel since we're modifying environment variables
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_SSLMODE", "verify-full")
	t.Setenv("INSTANCE_CONNECTION_NAME", "")

	cfg := LoadConfigFromEnv()

	want := Config{User: "envuser", Password: "envpass", Name: "envdb", Host: "envhost", Port: "5433", SSLMode: "verify-full"}
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}
