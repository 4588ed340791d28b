package realtime

import "testing"

func TestTrackUntrackLeavesNoResidue(t *testing.T) {
	r := NewRegistry()

	r.Track("u1", "c1")
	if !r.IsOnline("u1") {
		t.Fatal("expected u1 online after track")
	}

	r.Untrack("c1")
	if r.IsOnline("u1") {
		t.Fatal("expected u1 offline after untrack")
	}
	if n := r.TrackedUsers(); n != 0 {
		t.Fatalf("expected no residual entries, got %d", n)
	}
}

func TestMultipleConnectionsPerUser(t *testing.T) {
	r := NewRegistry()

	r.Track("u1", "c1")
	r.Track("u1", "c2")

	r.Untrack("c1")
	if !r.IsOnline("u1") {
		t.Fatal("expected u1 still online with one connection left")
	}
	if n := r.Connections("u1"); n != 1 {
		t.Fatalf("expected 1 connection, got %d", n)
	}

	r.Untrack("c2")
	if r.IsOnline("u1") {
		t.Fatal("expected u1 offline after last connection removed")
	}
}

func TestTrackIsIdempotent(t *testing.T) {
	r := NewRegistry()

	r.Track("u1", "c1")
	r.Track("u1", "c1")

	if n := r.Connections("u1"); n != 1 {
		t.Fatalf("expected 1 connection after duplicate track, got %d", n)
	}
}

func TestUntrackRemovesConnectionEverywhere(t *testing.T) {
	r := NewRegistry()

	// The same connection id tracked under two users; a full untrack must
	// clear both.
	r.Track("u1", "c1")
	r.Track("u2", "c1")
	r.Track("u2", "c2")

	r.Untrack("c1")

	if r.IsOnline("u1") {
		t.Fatal("expected u1 offline")
	}
	if !r.IsOnline("u2") {
		t.Fatal("expected u2 online via c2")
	}
}

func TestUntrackUserScopedRemoval(t *testing.T) {
	r := NewRegistry()

	r.Track("u1", "c1")
	r.UntrackUser("u1", "c1")
	if r.IsOnline("u1") {
		t.Fatal("expected u1 offline")
	}

	// Unknown user or connection is a no-op, not a panic.
	r.UntrackUser("ghost", "c9")
	r.UntrackUser("u1", "c9")
}

func TestEmptyIdentifiersIgnored(t *testing.T) {
	r := NewRegistry()

	r.Track("", "c1")
	r.Track("u1", "")

	if n := r.TrackedUsers(); n != 0 {
		t.Fatalf("expected empty identifiers to be ignored, got %d entries", n)
	}
}
