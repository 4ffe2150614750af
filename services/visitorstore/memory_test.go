package visitorstore

import (
	"context"
	"regexp"
	"testing"
	"time"

	"visitor-pass/models/visitor"
)

func newVisitor(name string) *visitor.Visitor {
	return &visitor.Visitor{
		Name:      name,
		Email:     name + "@example.com",
		Phone:     "0123456789",
		VisitDate: "2026-09-01",
		Host:      "Arjun Rao",
		HostEmail: "arjun.rao@example.com",
		Purpose:   "Vendor meeting",
	}
}

func TestMemoryStore_CreateAssignsIdentity(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	v := newVisitor("Meena")
	if err := s.Create(ctx, v); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if v.UID == "" {
		t.Error("expected uid to be assigned")
	}
	if !regexp.MustCompile(`^TRF-\d{6}$`).MatchString(v.PassNumber) {
		t.Errorf("unexpected pass number %q", v.PassNumber)
	}
	if v.Status != visitor.StatusPending {
		t.Errorf("expected status pending, got %q", v.Status)
	}
	if v.IssuedAt.IsZero() {
		t.Error("expected issued_at to be set")
	}

	got, err := s.GetByUID(ctx, v.UID)
	if err != nil {
		t.Fatalf("GetByUID: %v", err)
	}
	if got.Name != "Meena" {
		t.Errorf("expected persisted name Meena, got %q", got.Name)
	}
}

func TestMemoryStore_GetByUID_NotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.GetByUID(context.Background(), "no-such-uid"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_SetStatusIfPending_CAS(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	v := newVisitor("Meena")
	if err := s.Create(ctx, v); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := s.SetStatusIfPending(ctx, v.UID, visitor.StatusApproved)
	if err != nil {
		t.Fatalf("SetStatusIfPending: %v", err)
	}
	if !ok {
		t.Fatal("expected first transition to win")
	}

	// Second attempt sees the terminal state and declines.
	ok, err = s.SetStatusIfPending(ctx, v.UID, visitor.StatusRejected)
	if err != nil {
		t.Fatalf("SetStatusIfPending: %v", err)
	}
	if ok {
		t.Fatal("expected second transition to be refused")
	}

	got, err := s.GetByUID(ctx, v.UID)
	if err != nil {
		t.Fatalf("GetByUID: %v", err)
	}
	if got.Status != visitor.StatusApproved {
		t.Errorf("expected approved, got %q", got.Status)
	}
}

func TestMemoryStore_SetStatusIfPending_NotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.SetStatusIfPending(context.Background(), "no-such-uid", visitor.StatusApproved); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ListAll_NewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	age := 0
	s.Now = func() time.Time {
		age++
		return base.Add(time.Duration(age) * time.Hour)
	}

	for _, name := range []string{"first", "second", "third"} {
		if err := s.Create(ctx, newVisitor(name)); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].Name != "third" || all[2].Name != "first" {
		t.Errorf("expected newest-first ordering, got %s..%s", all[0].Name, all[2].Name)
	}
}

func TestMemoryStore_ListByStatus(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a := newVisitor("approved-one")
	b := newVisitor("pending-one")
	if err := s.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(ctx, b); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.SetStatusIfPending(ctx, a.UID, visitor.StatusApproved); err != nil {
		t.Fatalf("SetStatusIfPending: %v", err)
	}

	approved, err := s.ListByStatus(ctx, visitor.StatusApproved)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(approved) != 1 || approved[0].Name != "approved-one" {
		t.Fatalf("expected only the approved record, got %v", approved)
	}
}

func TestMemoryStore_DeleteOlderThan(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	timestamps := []time.Time{
		time.Now().AddDate(0, 0, -46),
		time.Now().AddDate(0, 0, -1),
	}
	i := 0
	s.Now = func() time.Time {
		ts := timestamps[i]
		i++
		return ts
	}

	old := newVisitor("old")
	recent := newVisitor("recent")
	if err := s.Create(ctx, old); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(ctx, recent); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cutoff := time.Now().AddDate(0, 0, -45)
	count, err := s.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 deletion, got %d", count)
	}

	if _, err := s.GetByUID(ctx, old.UID); err != ErrNotFound {
		t.Error("expected old record to be gone")
	}
	if _, err := s.GetByUID(ctx, recent.UID); err != nil {
		t.Errorf("expected recent record to remain: %v", err)
	}

	// Idempotent: re-running with the same cutoff removes nothing further.
	count, err = s.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 deletions on rerun, got %d", count)
	}
}
