package state

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dhr613/Location-QA-Assistant/internal/conv"
	"github.com/dhr613/Location-QA-Assistant/pkg/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "threads.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestDB_SaveLoadRoundTrip(t *testing.T) {
	db := newTestDB(t)

	thread := NewThread("火锅之旅", "steps")
	thread.State.Stage = "route"
	thread.State.Position = "104.07,30.63"
	thread.State.Append(conv.NewUserMessage("武侯区有什么火锅"))
	thread.State.AddResult(models.WorkerOutput{Source: models.WorkerPlace, Result: "小龙坎"})
	if err := db.Save(thread); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := db.Load(thread.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Title != "火锅之旅" || got.Mode != "steps" {
		t.Errorf("thread = %+v", got)
	}
	if got.State.Stage != "route" || got.State.Position != "104.07,30.63" {
		t.Errorf("state = %+v", got.State)
	}
	if len(got.State.Messages) != 1 || got.State.Messages[0].Content != "武侯区有什么火锅" {
		t.Errorf("messages = %+v", got.State.Messages)
	}
	if len(got.State.Results) != 1 || got.State.Results[0].Source != models.WorkerPlace {
		t.Errorf("results = %+v", got.State.Results)
	}
}

func TestDB_LoadUnknownThread(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.Load("no-such-id"); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("Load() error = %v, want ErrThreadNotFound", err)
	}
}

func TestDB_SaveIsUpsert(t *testing.T) {
	db := newTestDB(t)

	thread := NewThread("t", "graph")
	if err := db.Save(thread); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	thread.State.FinalAnswer = "答案"
	if err := db.Save(thread); err != nil {
		t.Fatalf("Save() again error = %v", err)
	}

	got, err := db.Load(thread.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.State.FinalAnswer != "答案" {
		t.Errorf("FinalAnswer = %q", got.State.FinalAnswer)
	}

	threads, err := db.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(threads) != 1 {
		t.Errorf("threads = %d, want 1", len(threads))
	}
}

func TestDB_Delete(t *testing.T) {
	db := newTestDB(t)

	thread := NewThread("t", "")
	if err := db.Save(thread); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := db.Delete(thread.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := db.Load(thread.ID); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("Load() after delete error = %v, want ErrThreadNotFound", err)
	}
}

func TestDB_MigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Errorf("second Migrate() error = %v", err)
	}
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := NewMemoryStore()

	thread := NewThread("t", "delegate")
	thread.State.Append(conv.NewUserMessage("你好"))
	if err := store.Save(thread); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Mutating the caller's state after save must not affect the store.
	thread.State.FinalAnswer = "mutated"

	got, err := store.Load(thread.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.State.FinalAnswer != "" {
		t.Error("store state aliased with caller state")
	}

	if err := store.Delete(thread.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(thread.ID); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("Load() after delete error = %v", err)
	}
}
