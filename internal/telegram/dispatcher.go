package telegram

import (
	"context"
	"sync"
)

// Dispatcher выполняет задачи одного пользователя строго по порядку
// поступления, а задачи разных пользователей - параллельно, но не более
// maxWorkers одновременно.
type Dispatcher struct {
	mu     sync.Mutex
	queues map[int64][]func()
	sem    chan struct{}
	wg     sync.WaitGroup
	closed bool
}

func NewDispatcher(maxWorkers int) *Dispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	return &Dispatcher{
		queues: make(map[int64][]func()),
		sem:    make(chan struct{}, maxWorkers),
	}
}

// Dispatch ставит задачу в очередь пользователя. После Close возвращает false.
func (d *Dispatcher) Dispatch(key int64, job func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}

	queue, running := d.queues[key]
	d.queues[key] = append(queue, job)

	if !running {
		d.wg.Add(1)
		go d.drain(key)
	}

	return true
}

func (d *Dispatcher) drain(key int64) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		queue := d.queues[key]
		if len(queue) == 0 {
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		job := queue[0]
		queue[0] = nil
		d.queues[key] = queue[1:]
		d.mu.Unlock()

		d.sem <- struct{}{}
		job()
		<-d.sem
	}
}

// Close перестает принимать задачи и ждет выполнения уже поставленных,
// но не дольше, чем живет ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, q := range d.queues {
		n += len(q)
	}
	return n
}
