package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/seamhttp/seam/response"
)

func TestWriter_TracksStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	w := response.NewWriter(rec)

	if w.Status() != 0 {
		t.Fatalf("expected status 0 before writes, got %d", w.Status())
	}

	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusTeapot) // ignored, first status wins

	n, err := w.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("write failed: n=%d err=%v", n, err)
	}

	if w.Status() != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Status())
	}
	if w.BytesWritten() != 5 {
		t.Fatalf("expected 5 bytes, got %d", w.BytesWritten())
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("recorder got %d", rec.Code)
	}
}

func TestWriter_ImplicitOKOnBodyWrite(t *testing.T) {
	w := response.NewWriter(httptest.NewRecorder())
	_, _ = w.Write([]byte("x"))
	if w.Status() != http.StatusOK {
		t.Fatalf("expected implicit 200, got %d", w.Status())
	}
}

func TestWriter_FinishFiresCloseOnce(t *testing.T) {
	w := response.NewWriter(httptest.NewRecorder())

	var closes int
	w.OnClose(func() { closes++ })

	w.Finish()
	w.Finish()
	w.Abort(errors.New("after end"))

	if closes != 1 {
		t.Fatalf("expected exactly one close callback, got %d", closes)
	}
	if !w.Ended() {
		t.Fatal("writer must report ended")
	}
	if n := w.Pending(); n != 0 {
		t.Fatalf("expected no live registrations, got %d", n)
	}
}

func TestWriter_AbortFiresErrorOnce(t *testing.T) {
	w := response.NewWriter(httptest.NewRecorder())
	want := errors.New("stream gone")

	var got error
	var fires int
	w.OnError(func(err error) {
		got = err
		fires++
	})

	w.Abort(want)
	w.Abort(errors.New("second"))
	w.Finish()

	if fires != 1 {
		t.Fatalf("expected exactly one error callback, got %d", fires)
	}
	if !errors.Is(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestWriter_OffRemovesRegistration(t *testing.T) {
	w := response.NewWriter(httptest.NewRecorder())

	var fired bool
	id := w.OnClose(func() { fired = true })
	w.Off(id)
	w.Off(id) // repeated removal is harmless
	w.Off("") // and so is the empty ID

	w.Finish()
	if fired {
		t.Fatal("removed registration must not fire")
	}
}

// Close fires only close registrations; error registrations stay pending
// until removed. This is what the bridge relies on for cleanup.
func TestWriter_SignalsAreIndependent(t *testing.T) {
	w := response.NewWriter(httptest.NewRecorder())

	var closed, errored bool
	w.OnClose(func() { closed = true })
	errID := w.OnError(func(error) { errored = true })

	w.Finish()

	if !closed {
		t.Fatal("close registration must fire on Finish")
	}
	if errored {
		t.Fatal("error registration must not fire on Finish")
	}
	if n := w.Pending(); n != 1 {
		t.Fatalf("error registration should still be live, got %d", n)
	}

	w.Off(errID)
	if n := w.Pending(); n != 0 {
		t.Fatalf("expected no live registrations, got %d", n)
	}
}

func TestWriter_ConcurrentWrites(t *testing.T) {
	w := response.NewWriter(httptest.NewRecorder())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = w.Write([]byte("ab"))
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("concurrent writes deadlocked")
	}

	if w.BytesWritten() != 8*50*2 {
		t.Fatalf("expected %d bytes, got %d", 8*50*2, w.BytesWritten())
	}
}
