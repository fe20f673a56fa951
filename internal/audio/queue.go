package audio

import (
	"errors"
	"sync"
)

// ErrQueueClosed is the panic value of Send after Close.
var ErrQueueClosed = errors.New("audio queue closed")

// Command is an instruction for the audio worker.
type Command int

const (
	CommandAlarm Command = iota + 1
	CommandStop
)

func (command Command) String() string {
	switch command {
	case CommandAlarm:
		return "alarm"
	case CommandStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Queue is an unbounded FIFO of commands. Send never blocks.
type Queue struct {
	mu       sync.Mutex
	items    []Command
	closed   bool
	detached bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Send appends a command. Sending on a closed queue is a programming error and panics.
func (queue *Queue) Send(command Command) {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	if queue.closed {
		panic(ErrQueueClosed)
	}
	if queue.detached {
		return
	}
	queue.items = append(queue.items, command)
}

// TryReceive pops the oldest command without waiting.
func (queue *Queue) TryReceive() (Command, bool) {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	if len(queue.items) == 0 {
		return 0, false
	}
	command := queue.items[0]
	queue.items = queue.items[1:]
	return command, true
}

// Detach drops pending commands and turns later sends into no-ops.
// Used when no worker will ever consume the queue.
func (queue *Queue) Detach() {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	queue.detached = true
	queue.items = nil
}

// Close marks the queue closed.
func (queue *Queue) Close() {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	queue.closed = true
	queue.items = nil
}
