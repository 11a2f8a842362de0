package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ftl/scansim/core"
)

func TestPublishNeverBlocks(t *testing.T) {
	d := New(2, 1, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			d.PublishSample(core.Sample{Index: uint64(i)})
			d.PublishFrame(core.Frame{Generation: uint64(i)})
			d.PublishLog("message")
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		assert.Fail(t, "publishing blocked without a consumer")
	}
}

func TestDropOldest(t *testing.T) {
	d := New(3, 1, 2)

	for i := 0; i < 5; i++ {
		d.PublishSample(core.Sample{Index: uint64(i)})
		d.PublishFrame(core.Frame{Generation: uint64(i)})
	}
	d.PublishLog("a")
	d.PublishLog("b")
	d.PublishLog("c")

	assert.Equal(t, uint64(2), (<-d.Samples()).Index)
	assert.Equal(t, uint64(3), (<-d.Samples()).Index)
	assert.Equal(t, uint64(4), (<-d.Samples()).Index)
	assert.Equal(t, uint64(4), (<-d.Frames()).Generation)
	assert.Equal(t, "b", <-d.Logs())
	assert.Equal(t, "c", <-d.Logs())

	stats := d.Stats()
	assert.Equal(t, QueueStats{Published: 5, Dropped: 2}, stats.Samples)
	assert.Equal(t, QueueStats{Published: 5, Dropped: 4}, stats.Frames)
	assert.Equal(t, QueueStats{Published: 3, Dropped: 1}, stats.Logs)
}

func TestOrderIsPreservedUnderConcurrentConsumption(t *testing.T) {
	d := New(4, 2, 4)
	const count = 10000

	received := make(chan []uint64)
	go func() {
		var result []uint64
		for sample := range d.Samples() {
			result = append(result, sample.Index)
		}
		received <- result
	}()

	for i := 0; i < count; i++ {
		d.PublishSample(core.Sample{Index: uint64(i)})
	}
	d.Close()

	indices := <-received
	assert.NotEmpty(t, indices)
	for i := 1; i < len(indices); i++ {
		assert.True(t, indices[i-1] < indices[i], "%d !< %d", indices[i-1], indices[i])
	}
	assert.Equal(t, uint64(count-1), indices[len(indices)-1])
	stats := d.Stats()
	assert.Equal(t, uint64(count), stats.Samples.Published)
	assert.Equal(t, uint64(count-len(indices)), stats.Samples.Dropped)
}

func TestPublishAfterCloseIsIgnored(t *testing.T) {
	d := New(1, 1, 1)
	d.Close()
	d.Close()

	d.PublishSample(core.Sample{})
	d.PublishFrame(core.Frame{})
	d.PublishLog("late")

	_, ok := <-d.Logs()
	assert.False(t, ok)
	assert.Equal(t, uint64(0), d.Stats().Logs.Published)
}

func TestServe(t *testing.T) {
	d := New(10, 10, 10)
	h := &recordingHandler{}

	d.PublishLog("started")
	d.PublishSample(core.Sample{Index: 0, Value: 1})
	d.PublishSample(core.Sample{Index: 1, Value: 2})
	d.PublishFrame(core.Frame{Generation: 1})
	d.Close()

	d.Serve(make(chan struct{}), h)

	assert.Equal(t, []core.Sample{{Index: 0, Value: 1}, {Index: 1, Value: 2}}, h.samples)
	assert.Equal(t, []uint64{1}, h.generations)
	assert.Equal(t, []string{"started"}, h.logs)
}

func TestServeReturnsOnStop(t *testing.T) {
	d := New(1, 1, 1)
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		d.Serve(stop, &recordingHandler{})
		close(done)
	}()
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		assert.Fail(t, "Serve should return when stopped")
	}
}

type recordingHandler struct {
	samples     []core.Sample
	generations []uint64
	logs        []string
}

func (h *recordingHandler) OnSample(sample core.Sample) {
	h.samples = append(h.samples, sample)
}

func (h *recordingHandler) OnFrame(frame core.Frame) {
	h.generations = append(h.generations, frame.Generation)
}

func (h *recordingHandler) OnLog(message string) {
	h.logs = append(h.logs, message)
}
