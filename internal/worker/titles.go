package worker

import (
	"context"
	"log"
	"time"
)

// Titler runs one title-derivation job. Implemented by the chat controller.
type Titler interface {
	DeriveTitle(ctx context.Context, sessionIndex int, input string) error
}

type titleJob struct {
	sessionIndex int
	input        string
}

// TitlePool processes title-derivation jobs off the send path. Jobs are only
// enqueued after a session's primary reply has resolved, so the two upstream
// calls of a turn stay sequential while the HTTP response returns early.
type TitlePool struct {
	titler      Titler
	jobs        chan titleJob
	workerCount int
	stopChan    chan struct{}
}

func NewTitlePool(titler Titler, workerCount int) *TitlePool {
	return &TitlePool{
		titler:      titler,
		jobs:        make(chan titleJob, 64),
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *TitlePool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d title worker goroutines", p.workerCount)
}

func (p *TitlePool) Stop() {
	close(p.stopChan)
}

// Enqueue never blocks the send path. A full queue drops the job and
// reports it, so the caller can settle the session's turn state; the
// session keeps its default title.
func (p *TitlePool) Enqueue(sessionIndex int, input string) bool {
	select {
	case p.jobs <- titleJob{sessionIndex: sessionIndex, input: input}:
		return true
	default:
		log.Printf("Title queue full, dropping job for session %d", sessionIndex)
		return false
	}
}

func (p *TitlePool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Title worker %d shutting down", id)
			return
		case job := <-p.jobs:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			if err := p.titler.DeriveTitle(ctx, job.sessionIndex, job.input); err != nil {
				log.Printf("Title worker %d: derivation failed for session %d: %v", id, job.sessionIndex, err)
			}
			cancel()
		}
	}
}
