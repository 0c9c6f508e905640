package timeseries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"
)

func newTestWriter(t *testing.T, url string) EventWriter {
	t.Helper()

	w, err := New(Config{
		URL:       url,
		Token:     "token",
		Org:       "home",
		Bucket:    "events",
		SpillPath: filepath.Join(t.TempDir(), "spill.dat"),
	})
	if err != nil {
		t.Fatal(err)
	}

	return w
}

func TestFlushPostsLineProtocol(t *testing.T) {
	is := is.New(t)

	var body atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, r.ContentLength)
		r.Body.Read(b)
		body.Store(string(b))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := newTestWriter(t, srv.URL)

	p, err := NewEventPoint(testEvent())
	is.NoErr(err)

	is.NoErr(w.Write(context.Background(), p))
	is.NoErr(w.Flush(context.Background()))

	sent, _ := body.Load().(string)
	is.True(strings.HasPrefix(sent, "home_assistant_events,"))
	is.True(strings.Contains(sent, "entity_id=light.bedroom"))
	is.True(strings.Contains(sent, "state=true"))
}

func TestBatchOrderPreserved(t *testing.T) {
	is := is.New(t)

	var body atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, r.ContentLength)
		r.Body.Read(b)
		body.Store(string(b))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := newTestWriter(t, srv.URL)

	for i, entity := range []string{"light.first", "light.second", "light.third"} {
		e := testEvent()
		e.EntityID = entity
		e.TimeFired = e.TimeFired.Add(time.Duration(i) * time.Second)
		p, err := NewEventPoint(e)
		is.NoErr(err)
		is.NoErr(w.Write(context.Background(), p))
	}

	is.NoErr(w.Flush(context.Background()))

	sent, _ := body.Load().(string)
	first := strings.Index(sent, "light.first")
	second := strings.Index(sent, "light.second")
	third := strings.Index(sent, "light.third")
	is.True(first >= 0 && first < second && second < third)
}

func TestRetryOnTransientFailure(t *testing.T) {
	is := is.New(t)

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := newTestWriter(t, srv.URL)

	p, err := NewEventPoint(testEvent())
	is.NoErr(err)
	is.NoErr(w.Write(context.Background(), p))
	is.NoErr(w.Flush(context.Background()))

	is.Equal(attempts.Load(), int32(3))
	is.True(w.Healthy())
}

func TestSpillOnPersistentFailureAndDrainOnRecovery(t *testing.T) {
	is := is.New(t)

	var failing atomic.Bool
	failing.Store(true)

	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		received.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := newTestWriter(t, srv.URL)

	p, err := NewEventPoint(testEvent())
	is.NoErr(err)

	is.NoErr(w.Write(context.Background(), p))
	is.NoErr(w.Flush(context.Background())) // spills, does not error
	is.True(!w.Healthy())

	failing.Store(false)

	// next successful flush drains the spill queue
	is.NoErr(w.Write(context.Background(), p))
	is.NoErr(w.Flush(context.Background()))

	is.True(w.Healthy())
	is.True(received.Load() >= 2)
}

func TestHealthyIsSafeDuringConcurrentFlushes(t *testing.T) {
	is := is.New(t)

	// 400 is a fatal write error, so every flush takes the spill path and
	// toggles the degraded flag without retry delays
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	w := newTestWriter(t, srv.URL)

	p, err := NewEventPoint(testEvent())
	is.NoErr(err)

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				w.Healthy()
			}
		}
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_ = w.Write(context.Background(), p)
				_ = w.Flush(context.Background())
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(done)
	wg.Wait()

	is.True(!w.Healthy())
}

func TestWriteRejectsEmptyPoint(t *testing.T) {
	is := is.New(t)

	w := newTestWriter(t, "http://localhost:0")

	err := w.Write(context.Background(), Point{})
	is.True(err != nil)
}
