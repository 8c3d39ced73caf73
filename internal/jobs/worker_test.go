package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethograph/ethograph/internal/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockJobProcessor struct {
	mock.Mock
}

func (m *MockJobProcessor) ProcessJobs(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestWorker_StartStop(t *testing.T) {
	processor := new(MockJobProcessor)
	processor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker("test", processor, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(150 * time.Millisecond)
	worker.Stop()
	wg.Wait()

	processor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

func TestWorker_ContextCancellation(t *testing.T) {
	processor := new(MockJobProcessor)
	processor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker("test", processor, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(120 * time.Millisecond)
	cancel()
	wg.Wait()

	processor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

func TestSweepProcessor(t *testing.T) {
	expired := rdf.NewCache(time.Nanosecond)
	expired.Put("a", rdf.NewGraph(""))
	expired.Put("b", rdf.NewGraph(""))

	fresh := rdf.NewCache(time.Minute)
	fresh.Put("c", rdf.NewGraph(""))

	time.Sleep(time.Millisecond)

	p := NewSweepProcessor(expired, fresh, nil)
	assert.NoError(t, p.ProcessJobs(context.Background()))

	assert.Equal(t, 0, expired.Stats().Entries)
	assert.Equal(t, 1, fresh.Stats().Entries)
}
