package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "renders.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func TestNew(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if filepath.Base(db.Path()) != "renders.db" {
		t.Errorf("Path() = %s", db.Path())
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "renders.db"))
	if err == nil {
		t.Fatal("New() in a missing directory should fail")
	}
}

func TestNewReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renders.db")

	db, err := New(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.RecordRender("abc", "rendered", "none", "/cache/abc.png", time.Second); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = New(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()

	renders, err := db.RecentRenders(context.Background(), "", 10)
	if err != nil || len(renders) != 1 {
		t.Errorf("after reopen RecentRenders() = %d rows, %v; want 1", len(renders), err)
	}
}

func TestRecordQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		err       error
	}{
		{"successful query", "test_operation", nil},
		{"failed query", "test_operation", errors.New("test error")},
		{"empty operation name", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// must not panic
			recordQuery(tt.operation, time.Now(), tt.err)
		})
	}
}
