package tui

import (
	"testing"

	"github.com/mobil-koeln/scrollfeed/internal/models"
	"github.com/mobil-koeln/scrollfeed/internal/testutil"
)

func TestFeed_EndReached(t *testing.T) {
	f := newFeed()
	testutil.AssertFalse(t, f.endReached())

	f.appendPage(models.PageRequest{Offset: 0, Limit: 50}, testutil.MakeItems(0, 50))
	testutil.AssertFalse(t, f.endReached())

	f.appendPage(models.PageRequest{Offset: 50, Limit: 50}, testutil.MakeItems(50, 20))
	testutil.AssertTrue(t, f.endReached())
	testutil.AssertItems(t, f.items, testutil.MakeItems(0, 70))

	// A full page after a short one clears the hint
	f.appendPage(models.PageRequest{Offset: 70, Limit: 10}, testutil.MakeItems(70, 10))
	testutil.AssertFalse(t, f.endReached())
}

func TestFeed_EndReached_EmptyPage(t *testing.T) {
	f := newFeed()
	f.appendPage(models.PageRequest{Offset: 0, Limit: 50}, []string{})

	testutil.AssertTrue(t, f.endReached())
	testutil.AssertLen(t, f.items, 0)
}
