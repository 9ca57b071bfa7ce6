// Package testutil provides in-memory fakes for the artifact store and
// the external job/generation clients.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/meetscribe/meeting-notes/internal/store"
	"github.com/meetscribe/meeting-notes/internal/transcribe"
)

type memoryObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// MemoryStore implements store.Store in memory and counts writes per
// path so tests can assert cache-population behavior.
type MemoryStore struct {
	mu       sync.RWMutex
	objects  map[string]memoryObject
	putCalls map[string]int

	PutErr error // when set, Put fails with this error
	GetErr error // when set, Get fails with this error
}

var _ store.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects:  make(map[string]memoryObject),
		putCalls: make(map[string]int),
	}
}

func (m *MemoryStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls[path]++
	m.objects[path] = memoryObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
		modified:    time.Now(),
	}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, path string) ([]byte, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[path]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), obj.data...), nil
}

func (m *MemoryStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, prefix string) ([]store.Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var objects []store.Object
	for path, obj := range m.objects {
		if strings.HasPrefix(path, prefix) {
			objects = append(objects, store.Object{Path: path, LastModified: obj.modified})
		}
	}
	return objects, nil
}

// Seed stores an object directly, bypassing Put accounting.
func (m *MemoryStore) Seed(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = memoryObject{data: append([]byte(nil), data...), modified: time.Now()}
}

// Has reports whether an object exists at path.
func (m *MemoryStore) Has(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[path]
	return ok
}

// PutCount returns how many times Put was called for path.
func (m *MemoryStore) PutCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.putCalls[path]
}

// Submission records one Submit call on the fake transcription client.
type Submission struct {
	VideoID    string
	MediaPath  string
	OutputPath string
}

// FakeTranscribe implements transcribe.Client with scripted statuses.
type FakeTranscribe struct {
	mu          sync.Mutex
	queues      map[string][]transcribe.Status
	submissions []Submission

	SubmitErr error             // when set, Submit fails with this error
	PollErr   error             // when set, PollStatus fails with this error
	Default   transcribe.Status // status returned once a queue drains
}

var _ transcribe.Client = (*FakeTranscribe)(nil)

func NewFakeTranscribe() *FakeTranscribe {
	return &FakeTranscribe{
		queues:  make(map[string][]transcribe.Status),
		Default: transcribe.StatusCompleted,
	}
}

func (f *FakeTranscribe) Submit(ctx context.Context, videoID, mediaPath, outputPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SubmitErr != nil {
		return f.SubmitErr
	}
	f.submissions = append(f.submissions, Submission{
		VideoID:    videoID,
		MediaPath:  mediaPath,
		OutputPath: outputPath,
	})
	return nil
}

func (f *FakeTranscribe) PollStatus(ctx context.Context, jobName string) (transcribe.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PollErr != nil {
		return transcribe.StatusFailed, f.PollErr
	}
	if queue := f.queues[jobName]; len(queue) > 0 {
		status := queue[0]
		f.queues[jobName] = queue[1:]
		return status, nil
	}
	return f.Default, nil
}

// QueueStatuses scripts the statuses PollStatus reports for a job, in
// order; once drained it falls back to Default.
func (f *FakeTranscribe) QueueStatuses(jobName string, statuses ...transcribe.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queues[jobName] = append(f.queues[jobName], statuses...)
}

// Submissions returns a copy of the recorded Submit calls.
func (f *FakeTranscribe) Submissions() []Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Submission(nil), f.submissions...)
}

// FakeGenerator implements notesgen.Generator and counts invocations.
type FakeGenerator struct {
	mu    sync.Mutex
	calls int

	Output string
	Err    error
}

func (f *FakeGenerator) Generate(ctx context.Context, transcriptText string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.Err != nil {
		return "", f.Err
	}
	return f.Output, nil
}

// Calls returns how many times Generate was invoked.
func (f *FakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
