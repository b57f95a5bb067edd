package membershipstore_test

import (
	"errors"
	"testing"

	membershipstore "github.com/dalemusser/studyhub/internal/app/store/memberships"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Add(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	if err := store.Add(ctx, groupID, userID); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	exists, err := store.Exists(ctx, groupID, userID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected membership to exist after Add")
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	if err := store.Add(ctx, groupID, userID); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	err := store.Add(ctx, groupID, userID)
	if !errors.Is(err, membershipstore.ErrDuplicateMembership) {
		t.Errorf("expected ErrDuplicateMembership, got %v", err)
	}

	// Only one membership document is left behind.
	count, err := store.CountByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("CountByGroup failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestStore_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	if err := store.Add(ctx, groupID, userID); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Remove(ctx, groupID, userID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	exists, err := store.Exists(ctx, groupID, userID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected membership to be gone after Remove")
	}
}

func TestStore_Remove_NotAMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Removing a nonexistent membership is a no-op, not an error.
	err := store.Remove(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestStore_Exists_NotAMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	exists, err := store.Exists(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected Exists to be false")
	}
}

func TestStore_CountByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	groupID := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if err := store.Add(ctx, groupID, primitive.NewObjectID()); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	count, err := store.CountByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("CountByGroup failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
}

func TestStore_CountsForGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group1 := primitive.NewObjectID()
	group2 := primitive.NewObjectID()
	empty := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		if err := store.Add(ctx, group1, primitive.NewObjectID()); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if err := store.Add(ctx, group2, primitive.NewObjectID()); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	counts, err := store.CountsForGroups(ctx, []primitive.ObjectID{group1, group2, empty})
	if err != nil {
		t.Fatalf("CountsForGroups failed: %v", err)
	}

	if counts[group1] != 2 {
		t.Errorf("group1 count: got %d, want 2", counts[group1])
	}
	if counts[group2] != 1 {
		t.Errorf("group2 count: got %d, want 1", counts[group2])
	}
	// Absent key reads as zero.
	if counts[empty] != 0 {
		t.Errorf("empty group count: got %d, want 0", counts[empty])
	}
}

func TestStore_CountsForGroups_NoIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts, err := store.CountsForGroups(ctx, nil)
	if err != nil {
		t.Fatalf("CountsForGroups failed: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("expected empty map, got %d entries", len(counts))
	}
}
