package chunker

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	SampleRate     = 48000
	Channels       = 2
	BytesPerSample = 2

	chunkDuration  = 4 * time.Second
	silenceTimeout = 2 * time.Second
	minDuration    = 500 * time.Millisecond

	// ChunkSize is the byte threshold at which a buffered chunk is emitted.
	ChunkSize = SampleRate * Channels * BytesPerSample * int(chunkDuration/time.Second)

	// MinChunkSize discards noise bursts shorter than half a second.
	MinChunkSize = SampleRate * Channels * BytesPerSample * int(minDuration/time.Millisecond) / 1000
)

type state int

const (
	stateIdle state = iota
	stateBuffering
	stateFlushScheduled
	stateClosed
)

// Chunker accumulates one user's decoded PCM stream into bounded chunks.
// Full chunks are emitted as soon as the buffer crosses ChunkSize; a trailing
// remainder is flushed when the silence timer fires, so the last words of an
// utterance are not lost to size granularity. At most one flush timer is
// armed at a time.
type Chunker struct {
	mu     sync.Mutex
	buffer []byte
	state  state
	timer  *time.Timer

	userID  string
	onChunk func(pcm []byte)
	log     *logrus.Logger
}

// New creates a chunker for one user. onChunk is invoked asynchronously and
// must not block the caller.
func New(userID string, log *logrus.Logger, onChunk func(pcm []byte)) *Chunker {
	return &Chunker{
		userID:  userID,
		state:   stateIdle,
		onChunk: onChunk,
		log:     log,
	}
}

// Write appends one decoded audio frame. Every arrival re-arms the silence
// timer; when the buffer reaches ChunkSize, exactly that many bytes are
// emitted and the remainder retained.
func (c *Chunker) Write(frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateClosed {
		return
	}

	c.buffer = append(c.buffer, frame...)
	c.state = stateBuffering

	for len(c.buffer) >= ChunkSize {
		chunk := make([]byte, ChunkSize)
		copy(chunk, c.buffer[:ChunkSize])
		c.buffer = c.buffer[ChunkSize:]
		c.emit(chunk)
	}

	c.armTimerLocked()
}

// Flush emits any buffered remainder immediately and cancels the timer.
func (c *Chunker) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushLocked()
}

// Close tears the chunker down, discarding buffered audio. In-flight chunk
// processing is unaffected.
func (c *Chunker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	c.buffer = nil
	c.state = stateClosed

	c.log.WithFields(logrus.Fields{
		"user_id": c.userID,
	}).Info("Audio chunker closed")
}

// BufferedBytes reports the current remainder size.
func (c *Chunker) BufferedBytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffer)
}

func (c *Chunker) armTimerLocked() {
	c.stopTimerLocked()
	c.timer = time.AfterFunc(silenceTimeout, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state != stateFlushScheduled {
			return
		}
		c.flushLocked()
	})
	c.state = stateFlushScheduled
}

func (c *Chunker) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Chunker) flushLocked() {
	c.stopTimerLocked()
	if c.state == stateClosed {
		return
	}

	if len(c.buffer) > 0 {
		chunk := c.buffer
		c.buffer = nil
		c.emit(chunk)
	}
	c.state = stateIdle
}

func (c *Chunker) emit(chunk []byte) {
	if len(chunk) < MinChunkSize {
		c.log.WithFields(logrus.Fields{
			"user_id": c.userID,
			"size":    len(chunk),
		}).Debug("Audio chunk too small, skipping")
		return
	}
	go c.onChunk(chunk)
}
