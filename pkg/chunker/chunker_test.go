package chunker

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chunkCollector struct {
	mu     sync.Mutex
	chunks [][]byte
}

func (c *chunkCollector) collect(pcm []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, pcm)
}

func (c *chunkCollector) snapshot() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.chunks...)
}

func (c *chunkCollector) waitFor(t *testing.T, n int, timeout time.Duration) [][]byte {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if chunks := c.snapshot(); len(chunks) >= n {
			return chunks
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d chunk(s), got %d", n, len(c.snapshot()))
	return nil
}

func newTestChunker(collector *chunkCollector) *Chunker {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New("user-1", logger, collector.collect)
}

func TestChunker_EmitsExactChunkSizeAndRetainsRemainder(t *testing.T) {
	collector := &chunkCollector{}
	c := newTestChunker(collector)
	defer c.Close()

	c.Write(make([]byte, ChunkSize+1000))

	chunks := collector.waitFor(t, 1, time.Second)
	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0], ChunkSize)
	assert.Equal(t, 1000, c.BufferedBytes())
}

func TestChunker_AccumulatesSmallFrames(t *testing.T) {
	collector := &chunkCollector{}
	c := newTestChunker(collector)
	defer c.Close()

	frame := make([]byte, ChunkSize/4)
	for i := 0; i < 3; i++ {
		c.Write(frame)
	}
	assert.Empty(t, collector.snapshot())

	c.Write(frame)
	chunks := collector.waitFor(t, 1, time.Second)
	assert.Len(t, chunks[0], ChunkSize)
	assert.Zero(t, c.BufferedBytes())
}

func TestChunker_FlushEmitsRemainder(t *testing.T) {
	collector := &chunkCollector{}
	c := newTestChunker(collector)
	defer c.Close()

	c.Write(make([]byte, MinChunkSize*2))
	c.Flush()

	chunks := collector.waitFor(t, 1, time.Second)
	assert.Len(t, chunks[0], MinChunkSize*2)
	assert.Zero(t, c.BufferedBytes())
}

func TestChunker_DiscardsChunksBelowMinimumDuration(t *testing.T) {
	collector := &chunkCollector{}
	c := newTestChunker(collector)
	defer c.Close()

	c.Write(make([]byte, MinChunkSize-1))
	c.Flush()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, collector.snapshot(), "noise bursts under the minimum duration are dropped")
	assert.Zero(t, c.BufferedBytes())
}

func TestChunker_SilenceTimerFlushes(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the silence timeout")
	}

	collector := &chunkCollector{}
	c := newTestChunker(collector)
	defer c.Close()

	c.Write(make([]byte, MinChunkSize*3))

	chunks := collector.waitFor(t, 1, silenceTimeout+time.Second)
	assert.Len(t, chunks[0], MinChunkSize*3)
}

func TestChunker_CloseDiscardsBufferedAudio(t *testing.T) {
	collector := &chunkCollector{}
	c := newTestChunker(collector)

	c.Write(make([]byte, MinChunkSize*2))
	c.Close()

	c.Write(make([]byte, ChunkSize))
	c.Flush()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, collector.snapshot())
	assert.Zero(t, c.BufferedBytes())
}
