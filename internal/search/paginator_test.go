// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/models"
)

// wait blocks until no request is in flight.
func (p *Paginator) wait() {
	p.wg.Wait()
}

type fakeSearcher struct {
	mu      sync.Mutex
	queries []url.Values
	total   int
	err     error
	gates   map[string]chan struct{} // by offset
	started chan string
}

func newFakeSearcher(total int) *fakeSearcher {
	return &fakeSearcher{total: total, gates: map[string]chan struct{}{}, started: make(chan string, 16)}
}

func (f *fakeSearcher) Search(ctx context.Context, q url.Values) ([]models.EventSummary, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	gate := f.gates[q.Get("offset")+"/"+q.Get("category")]
	err := f.err
	f.mu.Unlock()
	f.started <- q.Get("category")

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	var offset, limit int
	fmt.Sscan(q.Get("offset"), &offset)
	fmt.Sscan(q.Get("limit"), &limit)
	out := []models.EventSummary{}
	for i := offset; i < f.total && i < offset+limit; i++ {
		out = append(out, models.EventSummary{
			EventID: models.FlexString(fmt.Sprintf("%s-%d", q.Get("category"), i)),
		})
	}
	return out, nil
}

func (f *fakeSearcher) gate(offset, category string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[offset+"/"+category] = ch
	return ch
}

func (f *fakeSearcher) calls() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.queries...)
}

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		PageSize:            10,
		FirstPageMinLoading: 1200 * time.Millisecond,
		NextPageMinLoading:  800 * time.Millisecond,
		Sort:                "start_asc",
		Timezone:            "Asia/Taipei",
	}
}

func newTestPaginator(t *testing.T, src Searcher, opts ...Option) (*Paginator, *sleepRecorder) {
	t.Helper()
	rec := &sleepRecorder{}
	now := time.Date(2026, 3, 18, 7, 30, 0, 0, time.UTC)
	opts = append([]Option{WithSleep(rec.sleep), WithClock(func() time.Time { return now })}, opts...)
	p := NewPaginator(src, testSearchConfig(), opts...)
	t.Cleanup(p.Close)
	return p, rec
}

func TestPaginator_FirstPageAndMore(t *testing.T) {
	src := newFakeSearcher(25)
	p, rec := newTestPaginator(t, src)

	p.Search(Query{Categories: []string{"展覽"}})
	p.wait()
	s := p.State()
	if len(s.Items) != 10 || s.Offset != 10 || !s.HasMore || s.Loading {
		t.Fatalf("after first page: items %d offset %d hasMore %v loading %v", len(s.Items), s.Offset, s.HasMore, s.Loading)
	}

	if !p.More() {
		t.Fatal("More() refused")
	}
	p.wait()
	if !p.More() {
		t.Fatal("third page refused")
	}
	p.wait()

	s = p.State()
	if len(s.Items) != 25 || s.Offset != 25 || s.HasMore {
		t.Errorf("after last page: items %d offset %d hasMore %v", len(s.Items), s.Offset, s.HasMore)
	}
	if s.Items[24].EventID != "展覽-24" {
		t.Errorf("last item = %q", s.Items[24].EventID)
	}
	if p.More() {
		t.Error("More() without more results started a fetch")
	}

	calls := src.calls()
	if len(calls) != 3 {
		t.Fatalf("upstream calls = %d, want 3", len(calls))
	}
	for i, want := range []string{"0", "10", "20"} {
		if calls[i].Get("offset") != want || calls[i].Get("sort") != "start_asc" || calls[i].Get("limit") != "10" {
			t.Errorf("call %d = %v", i, calls[i])
		}
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	want := []time.Duration{1200 * time.Millisecond, 800 * time.Millisecond, 800 * time.Millisecond}
	if len(rec.waits) != len(want) {
		t.Fatalf("min loading waits = %v, want %v", rec.waits, want)
	}
	for i := range want {
		if rec.waits[i] != want[i] {
			t.Errorf("wait %d = %v, want %v", i, rec.waits[i], want[i])
		}
	}
}

func TestPaginator_MoreWhileLoadingIsNoop(t *testing.T) {
	src := newFakeSearcher(30)
	gate := src.gate("0", "")
	p, _ := newTestPaginator(t, src)

	p.Search(Query{})
	<-src.started
	if p.More() {
		t.Error("More() while loading started a fetch")
	}
	if s := p.State(); !s.Loading || !s.FirstLoad {
		t.Errorf("state while loading = %+v", s)
	}
	close(gate)
	p.wait()

	if n := len(src.calls()); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
}

func TestPaginator_NewerSearchWins(t *testing.T) {
	src := newFakeSearcher(5)
	src.gate("0", "展覽")
	p, _ := newTestPaginator(t, src)

	var mu sync.Mutex
	var updates []State
	p.onUpdate = func(s State) {
		mu.Lock()
		updates = append(updates, s)
		mu.Unlock()
	}

	p.Search(Query{Categories: []string{"展覽"}})
	<-src.started
	p.Search(Query{Categories: []string{"電影"}})
	p.wait()

	s := p.State()
	if len(s.Items) != 5 || s.Items[0].EventID != "電影-0" {
		t.Fatalf("items = %+v", s.Items)
	}
	if s.HasMore {
		t.Error("short page reports more")
	}

	mu.Lock()
	defer mu.Unlock()
	for _, u := range updates {
		for _, it := range u.Items {
			if it.EventID == "展覽-0" {
				t.Fatalf("superseded result applied: %+v", u)
			}
		}
	}
}

func TestPaginator_Errors(t *testing.T) {
	src := newFakeSearcher(30)
	p, _ := newTestPaginator(t, src)

	p.Search(Query{})
	p.wait()

	src.mu.Lock()
	src.err = errors.New("upstream down")
	src.mu.Unlock()

	p.More()
	p.wait()
	s := p.State()
	if s.Error == "" || len(s.Items) != 10 || !s.HasMore || s.Loading {
		t.Errorf("after next page error: %+v", s)
	}

	p.Search(Query{Prices: []string{"免費"}})
	p.wait()
	s = p.State()
	if s.Error == "" || len(s.Items) != 0 || s.HasMore {
		t.Errorf("after first page error: error %q items %d hasMore %v", s.Error, len(s.Items), s.HasMore)
	}
	if p.More() {
		t.Error("More() after a failed first page started a fetch")
	}
}

func TestPaginator_CloseCancels(t *testing.T) {
	src := newFakeSearcher(10)
	src.gate("0", "")
	p := NewPaginator(src, testSearchConfig())

	p.Search(Query{})
	<-src.started

	done := make(chan struct{})
	go func() {
		p.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close() did not cancel the request in flight")
	}

	p.Search(Query{})
	if n := len(src.calls()); n != 1 {
		t.Errorf("Search after Close reached upstream: %d calls", n)
	}
}
