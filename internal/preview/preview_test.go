package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/build"
)

type countingBuilder struct {
	calls atomic.Int32
	block chan struct{}
	err   error
}

func (b *countingBuilder) Run(context.Context, build.Request) (*build.Result, error) {
	b.calls.Add(1)
	if b.block != nil {
		<-b.block
	}
	if b.err != nil {
		return &build.Result{Status: build.StatusFailed}, b.err
	}
	return &build.Result{Status: build.StatusSuccess, Posts: 1}, nil
}

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	require.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	require.True(t, shouldIgnoreEvent("/tmp/post.md~"))
	require.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	require.False(t, shouldIgnoreEvent("/tmp/visible.md"))
}

func TestRebuilder_BuildNowRecordsResult(t *testing.T) {
	b := &countingBuilder{}
	r := NewRebuilder(b, build.Request{})
	require.Nil(t, r.LastBuild())

	res, err := r.BuildNow(context.Background())
	require.NoError(t, err)
	require.Same(t, res, r.LastBuild())

	b.err = errors.New("broken front matter")
	_, err = r.BuildNow(context.Background())
	require.Error(t, err)
	require.Equal(t, build.StatusFailed, r.LastBuild().Status)
}

func TestRebuilder_DebouncesBursts(t *testing.T) {
	b := &countingBuilder{}
	built := make(chan struct{}, 10)
	r := NewRebuilder(b, build.Request{},
		WithDebounce(20*time.Millisecond),
		WithBuildHook(func(*build.Result, error) { built <- struct{}{} }))

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	for range 10 {
		r.Trigger()
	}
	select {
	case <-built:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after burst")
	}
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), b.calls.Load())

	cancel()
	<-r.Done()
}

func TestRebuilder_CollapsesRequestsDuringBuild(t *testing.T) {
	b := &countingBuilder{block: make(chan struct{})}
	var mu sync.Mutex
	builds := 0
	r := NewRebuilder(b, build.Request{}, WithBuildHook(func(*build.Result, error) {
		mu.Lock()
		builds++
		mu.Unlock()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	r.Request()
	require.Eventually(t, func() bool { return b.calls.Load() == 1 }, 5*time.Second, 5*time.Millisecond)

	// three requests while the first build is running become one follow-up
	r.Request()
	r.Request()
	r.Request()
	b.block <- struct{}{}
	b.block <- struct{}{}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return builds == 2
	}, 5*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(2), b.calls.Load())
}

func TestWatcher_TriggersOnContentChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "posts"), 0o755))

	triggered := make(chan string, 10)
	w, err := NewWatcher(func() { triggered <- "change" }, dir, filepath.Join(dir, "missing"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts", ".post.md.swp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts", "hello.md"), []byte("---\ntitle: Hi\n---\n"), 0o644))

	select {
	case <-triggered:
	case <-time.After(5 * time.Second):
		t.Fatal("no trigger for new post")
	}
}

func TestScheduler_Every(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	_, err = s.Every("rebuild", 0, func() {})
	require.Error(t, err)

	ran := make(chan struct{}, 1)
	id, err := s.Every("rebuild", 20*time.Millisecond, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	s.Start()
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled job never ran")
	}
}
