package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/assent/service/messaging"
)

type TestPayload struct {
	ID      string
	Message string
	Count   int
}

func TestQueue(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[TestPayload](config)

	ctx := context.Background()
	payload := TestPayload{
		ID:      "test-1",
		Message: "Hello, world!",
		Count:   1,
	}

	err := queue.Publish(ctx, &payload)
	assert.NoError(t, err)
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, message)
	assert.Equal(t, 0, queue.Size())

	msgData := message.T()
	assert.Equal(t, payload.ID, msgData.ID)
	assert.Equal(t, payload.Message, msgData.Message)
	assert.Equal(t, payload.Count, msgData.Count)

	assert.NoError(t, message.Ack())
	// double ack
	assert.Error(t, message.Ack())
}

func TestQueuePublishNeverBlocks(t *testing.T) {
	testCases := []struct {
		name        string
		deadLetter  bool
		expectedDLQ int
	}{
		{name: "dead letter enabled", deadLetter: true, expectedDLQ: 1},
		{name: "dead letter disabled", deadLetter: false, expectedDLQ: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			config.QueueBuffer = 2
			config.DeadLetter = tc.deadLetter
			queue := NewQueue[TestPayload](config)
			ctx := context.Background()

			assert.NoError(t, queue.Publish(ctx, &TestPayload{ID: "1"}))
			assert.NoError(t, queue.Publish(ctx, &TestPayload{ID: "2"}))

			done := make(chan error, 1)
			go func() { done <- queue.Publish(ctx, &TestPayload{ID: "3"}) }()
			select {
			case err := <-done:
				assert.ErrorIs(t, err, messaging.ErrQueueFull)
			case <-time.After(time.Second):
				t.Fatal("publish blocked on a full queue")
			}
			assert.Equal(t, 2, queue.Size())
			assert.Equal(t, tc.expectedDLQ, queue.DLQSize())
		})
	}
}

func TestQueueRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[TestPayload](config)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	payload := TestPayload{ID: "retry-test", Message: "Test retries", Count: 1}

	assert.NoError(t, queue.Publish(ctx, &payload))

	for attempt := 0; attempt < 3; attempt++ {
		message, err := queue.Consume(ctx)
		if !assert.NoError(t, err) {
			return
		}
		msg := message.(*Message[TestPayload])
		assert.Equal(t, attempt, msg.retryCount)
		assert.Equal(t, "retry-test", message.T().ID)
		assert.NoError(t, message.Nack(nil))
	}

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.DLQSize())
}

func TestQueueConcurrency(t *testing.T) {
	config := DefaultConfig()
	config.QueueBuffer = 200
	queue := NewQueue[TestPayload](config)

	ctx := context.Background()
	concurrency := 10
	messagesPerProducer := 10

	var wg sync.WaitGroup
	wg.Add(concurrency * 2)

	var consumedCount int
	var consumedMu sync.Mutex

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				message, err := queue.Consume(ctx)
				if err != nil {
					t.Errorf("Error consuming: %v", err)
					return
				}
				assert.NoError(t, message.Ack())
				consumedMu.Lock()
				consumedCount++
				consumedMu.Unlock()
			}
		}()
	}

	for i := 0; i < concurrency; i++ {
		go func(producerID int) {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				payload := TestPayload{
					ID:      fmt.Sprintf("p%d-m%d", producerID, j),
					Message: fmt.Sprintf("Message %d from producer %d", j, producerID),
					Count:   j,
				}
				if err := queue.Publish(ctx, &payload); err != nil {
					t.Errorf("Error publishing: %v", err)
				}
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out")
	}

	assert.Equal(t, concurrency*messagesPerProducer, consumedCount)
	assert.Equal(t, 0, queue.Size())
}

func TestQueueContextCancellation(t *testing.T) {
	queue := NewQueue[TestPayload](DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	payload := TestPayload{ID: "test"}
	assert.Error(t, queue.Publish(ctx, &payload))

	ctxWithTimeout, cancelTimeout := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelTimeout()
	_, err := queue.Consume(ctxWithTimeout)
	assert.Error(t, err)

	// queue is still usable after context cancellation
	emptyCtx := context.Background()
	assert.NoError(t, queue.Publish(emptyCtx, &payload))
	message, err := queue.Consume(emptyCtx)
	assert.NoError(t, err)
	assert.NotNil(t, message)
}
