package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/meetscribe/meeting-notes/internal/logger"
	"github.com/meetscribe/meeting-notes/internal/notesgen"
	"github.com/meetscribe/meeting-notes/internal/store"
	"github.com/meetscribe/meeting-notes/internal/transcribe"
	"github.com/meetscribe/meeting-notes/internal/transcript"
)

// ErrNoTranscript means notes were requested for a video whose
// transcript is not in the store; without it there is nothing to
// generate from and the caller should retry after transcription
// completes.
var ErrNoTranscript = errors.New("transcript not available")

// Options tunes the status polling schedule.
type Options struct {
	PollInterval   time.Duration // base delay between status checks
	PollMaxWait    time.Duration // ceiling the delay grows to
	PollMaxElapsed time.Duration // give up after this much total time
}

func (o *Options) applyDefaults() {
	if o.PollInterval == 0 {
		o.PollInterval = 10 * time.Second
	}
	if o.PollMaxWait == 0 {
		o.PollMaxWait = time.Minute
	}
	if o.PollMaxElapsed == 0 {
		o.PollMaxElapsed = 2 * time.Hour
	}
}

// Coordinator owns the per-video lifecycle: it stores media, starts
// transcription jobs, polls them to a terminal state, and produces and
// caches notes. It is the only writer of Video.Status and of the notes
// artifact.
type Coordinator struct {
	store store.Store
	jobs  transcribe.Client
	gen   notesgen.Generator
	log   *logger.Logger
	opts  Options

	mu      sync.Mutex
	videos  map[string]Video
	polls   map[string]*pollHandle
	genLock map[string]*sync.Mutex
	lastID  int64
}

type pollHandle struct {
	cancel context.CancelFunc
}

func New(st store.Store, jobs transcribe.Client, gen notesgen.Generator, log *logger.Logger, opts Options) *Coordinator {
	opts.applyDefaults()
	return &Coordinator{
		store:   st,
		jobs:    jobs,
		gen:     gen,
		log:     log.WithComponent("pipeline"),
		opts:    opts,
		videos:  make(map[string]Video),
		polls:   make(map[string]*pollHandle),
		genLock: make(map[string]*sync.Mutex),
	}
}

// Init warms the tracked collection from the store.
func (c *Coordinator) Init(ctx context.Context) error {
	_, err := c.ListVideos(ctx)
	return err
}

// Close cancels all active polls.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, h := range c.polls {
		h.cancel()
		delete(c.polls, id)
	}
}

// nextVideoID issues a time-based id. Uploads landing in the same
// millisecond get strictly increasing ids so the id stays unique.
func (c *Coordinator) nextVideoID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ms := time.Now().UnixMilli()
	if ms <= c.lastID {
		ms = c.lastID + 1
	}
	c.lastID = ms
	return fmt.Sprintf("video-%d", ms)
}

// Upload stores the media and starts a transcription job for it. The
// returned Video is always in processing state. A submission failure is
// returned alongside the created Video: the media is not rolled back,
// and the caller may retry submission for the same id.
func (c *Coordinator) Upload(ctx context.Context, name string, media []byte, contentType string) (Video, error) {
	videoID := c.nextVideoID()
	key := mediaPath(videoID, name)
	log := c.log.WithVideo(videoID)

	if err := c.store.Put(ctx, key, media, contentType); err != nil {
		return Video{}, fmt.Errorf("store media: %w", err)
	}

	video := Video{
		ID:         videoID,
		Name:       name,
		UploadDate: time.Now().UTC(),
		Status:     transcribe.StatusProcessing,
	}
	c.mu.Lock()
	c.videos[videoID] = video
	c.mu.Unlock()

	log.WithField("media_path", key).Info("media stored, submitting transcription job")
	if err := c.jobs.Submit(ctx, videoID, key, transcriptPath(videoID)); err != nil {
		log.WithError(err).Error("transcription job submission failed")
		return video, err
	}
	return video, nil
}

// PollUntilTerminal starts a background poll of the video's
// transcription job. onStatus is invoked once per observation,
// including the terminal one. The poll is registered per video id:
// while one is active, further calls for the same id are no-ops and
// return false. CancelPoll or DeleteVideo stops it.
func (c *Coordinator) PollUntilTerminal(videoID string, onStatus func(transcribe.Status)) bool {
	ctx, cancel := context.WithCancel(context.Background())
	h := &pollHandle{cancel: cancel}

	c.mu.Lock()
	if _, active := c.polls[videoID]; active {
		c.mu.Unlock()
		cancel()
		return false
	}
	c.polls[videoID] = h
	c.mu.Unlock()

	go c.runPoll(ctx, h, videoID, onStatus)
	return true
}

// CancelPoll stops the background poll for a video, if any.
func (c *Coordinator) CancelPoll(videoID string) {
	c.mu.Lock()
	h, ok := c.polls[videoID]
	if ok {
		delete(c.polls, videoID)
	}
	c.mu.Unlock()
	if ok {
		h.cancel()
	}
}

// clearPoll deregisters h, leaving any newer poll for the same video
// untouched.
func (c *Coordinator) clearPoll(videoID string, h *pollHandle) {
	c.mu.Lock()
	if c.polls[videoID] == h {
		delete(c.polls, videoID)
	}
	c.mu.Unlock()
	h.cancel()
}

func (c *Coordinator) runPoll(ctx context.Context, h *pollHandle, videoID string, onStatus func(transcribe.Status)) {
	defer c.clearPoll(videoID, h)

	log := c.log.WithVideo(videoID)
	jobName := transcribe.JobName(videoID)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opts.PollInterval
	bo.MaxInterval = c.opts.PollMaxWait
	bo.MaxElapsedTime = c.opts.PollMaxElapsed

	for {
		status, err := c.jobs.PollStatus(ctx, jobName)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// fail fast: an undeterminable status is a failed one
			log.WithError(err).Warn("transcription status check failed")
			status = transcribe.StatusFailed
		}

		if !c.setStatus(videoID, status) {
			// video deleted while polling; stop without a callback
			return
		}
		if onStatus != nil {
			onStatus(status)
		}
		if status.Terminal() {
			log.WithField("status", string(status)).Info("transcription reached terminal status")
			return
		}

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			log.Warn("transcription polling exhausted, marking failed")
			if c.setStatus(videoID, transcribe.StatusFailed) && onStatus != nil {
				onStatus(transcribe.StatusFailed)
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// setStatus updates the tracked video's status. Returns false when the
// video is no longer tracked.
func (c *Coordinator) setStatus(videoID string, status transcribe.Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	video, ok := c.videos[videoID]
	if !ok {
		return false
	}
	video.Status = status
	c.videos[videoID] = video
	return true
}

// FetchNotes returns the notes for a video, cache-first: a stored
// artifact is returned as-is; on a miss the transcript is decoded,
// notes are generated and written to the cache path before returning.
// Calls for the same video are serialized so at most one generation
// runs and at most one artifact is written.
func (c *Coordinator) FetchNotes(ctx context.Context, videoID string) (string, error) {
	lock := c.generationLock(videoID)
	lock.Lock()
	defer lock.Unlock()

	log := c.log.WithVideo(videoID)

	cached, err := c.store.Get(ctx, notesPath(videoID))
	if err == nil {
		log.Debug("returning cached notes")
		c.attachNotes(videoID, string(cached))
		return string(cached), nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("read cached notes: %w", err)
	}

	raw, err := c.store.Get(ctx, transcriptPath(videoID))
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNoTranscript, videoID)
	}
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	text, err := transcript.Decode(raw)
	if err != nil {
		return "", err
	}

	log.Info("generating notes from transcript")
	noteText, err := c.gen.Generate(ctx, text)
	if err != nil {
		return "", err
	}

	if err := c.store.Put(ctx, notesPath(videoID), []byte(noteText), "text/plain"); err != nil {
		return "", fmt.Errorf("cache notes: %w", err)
	}
	c.attachNotes(videoID, noteText)
	return noteText, nil
}

// attachNotes records fetched notes on the tracked video. Notes only
// appear on completed videos.
func (c *Coordinator) attachNotes(videoID, noteText string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	video, ok := c.videos[videoID]
	if !ok || video.Status != transcribe.StatusCompleted {
		return
	}
	video.Notes = noteText
	c.videos[videoID] = video
}

func (c *Coordinator) generationLock(videoID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.genLock[videoID]
	if !ok {
		lock = &sync.Mutex{}
		c.genLock[videoID] = lock
	}
	return lock
}

// DeleteVideo cancels any active poll and removes the media,
// transcript, and notes artifacts, then drops the video from the
// tracked collection. Each artifact deletion is best-effort: a failure
// is logged and skipped, since the catalog is keyed by the videos/
// prefix and an orphaned transcript or notes object is invisible to it.
func (c *Coordinator) DeleteVideo(ctx context.Context, videoID, name string) {
	c.CancelPoll(videoID)
	log := c.log.WithVideo(videoID)

	paths := []string{
		mediaPath(videoID, name),
		transcriptPath(videoID),
		notesPath(videoID),
	}
	for _, path := range paths {
		if err := c.store.Delete(ctx, path); err != nil {
			log.WithError(err).WithField("path", path).Warn("artifact delete failed")
		}
	}

	c.mu.Lock()
	delete(c.videos, videoID)
	delete(c.genLock, videoID)
	c.mu.Unlock()
	log.Info("video deleted")
}

// ListVideos lists everything under the videos/ prefix, groups objects
// by the id path segment, and polls each video's job status. The
// tracked collection is rebuilt from the result; previously fetched
// notes are carried over. Videos are returned in id order, which for
// time-based ids is chronological.
func (c *Coordinator) ListVideos(ctx context.Context) ([]Video, error) {
	objects, err := c.store.List(ctx, videoPrefix)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	type meta struct {
		name     string
		modified time.Time
	}
	grouped := make(map[string]meta)
	for _, obj := range objects {
		parts := strings.Split(obj.Path, "/")
		// videos/{id}/{name}; anything else is not catalog data
		if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
			continue
		}
		grouped[parts[1]] = meta{name: parts[2], modified: obj.LastModified}
	}

	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	videos := make([]Video, 0, len(ids))
	for _, id := range ids {
		status, err := c.jobs.PollStatus(ctx, transcribe.JobName(id))
		if err != nil {
			status = transcribe.StatusFailed
		}
		videos = append(videos, Video{
			ID:         id,
			Name:       grouped[id].name,
			UploadDate: grouped[id].modified,
			Status:     status,
		})
	}

	c.mu.Lock()
	fresh := make(map[string]Video, len(videos))
	for i, v := range videos {
		if prev, ok := c.videos[v.ID]; ok && prev.Notes != "" && v.Status == transcribe.StatusCompleted {
			videos[i].Notes = prev.Notes
			v.Notes = prev.Notes
		}
		fresh[v.ID] = v
	}
	c.videos = fresh
	c.mu.Unlock()

	return videos, nil
}

// Video returns the tracked entry for an id.
func (c *Coordinator) Video(videoID string) (Video, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.videos[videoID]
	return v, ok
}
