package dogs

import (
	"testing"
	"time"
)

func TestMerge_RemoteFirstThenStaticInOrder(t *testing.T) {
	remote := []Dog{
		{ID: "r2", Name: "Newer"},
		{ID: "r1", Name: "Older"},
	}
	static := []Dog{
		{ID: "buddy", Name: "Buddy"},
		{ID: "luna", Name: "Luna"},
	}

	got := Merge(remote, static)
	want := []string{"r2", "r1", "buddy", "luna"}
	if len(got) != len(want) {
		t.Fatalf("expected %d dogs, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestMerge_EmptyRemote_KeepsStaticOrder(t *testing.T) {
	static := StaticCatalog()

	got := Merge(nil, static)
	if len(got) != len(static) {
		t.Fatalf("expected %d dogs, got %d", len(static), len(got))
	}
	for i := range static {
		if got[i].ID != static[i].ID {
			t.Fatalf("position %d: expected %s, got %s", i, static[i].ID, got[i].ID)
		}
	}
}

func TestMerge_RemoteShadowsStaticWithSameID(t *testing.T) {
	remote := []Dog{{ID: "buddy", Name: "Buddy (updated)"}}
	static := []Dog{
		{ID: "buddy", Name: "Buddy"},
		{ID: "luna", Name: "Luna"},
	}

	got := Merge(remote, static)
	if len(got) != 2 {
		t.Fatalf("expected 2 dogs, got %d", len(got))
	}
	if got[0].Name != "Buddy (updated)" {
		t.Fatalf("expected remote record to win, got %q", got[0].Name)
	}
	if got[1].ID != "luna" {
		t.Fatalf("expected luna second, got %s", got[1].ID)
	}
}

func TestMerge_DuplicateRemoteIDs_KeepFirst(t *testing.T) {
	remote := []Dog{
		{ID: "r1", Name: "First"},
		{ID: "r1", Name: "Second"},
	}

	got := Merge(remote, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 dog, got %d", len(got))
	}
	if got[0].Name != "First" {
		t.Fatalf("expected first occurrence to win, got %q", got[0].Name)
	}
}

func TestStaticCatalog_ReturnsDefensiveCopy(t *testing.T) {
	a := StaticCatalog()
	a[0].Name = "mutated"
	a[0].GalleryURLs[0] = "mutated"

	b := StaticCatalog()
	if b[0].Name == "mutated" {
		t.Fatalf("expected static catalog to be immutable across calls")
	}
	if b[0].GalleryURLs[0] == "mutated" {
		t.Fatalf("expected gallery slices to be copied")
	}
}

func TestStaticCatalog_HasNoTimestamps(t *testing.T) {
	for _, d := range StaticCatalog() {
		if !d.CreatedAt.Equal(time.Time{}) || !d.UpdatedAt.Equal(time.Time{}) {
			t.Fatalf("static dog %s should have zero timestamps", d.ID)
		}
	}
}
