package service

import (
	"context"
	"errors"
	"sync"

	"github.com/Skotchmaster/products_api/internal/models"
)

type published struct {
	Topic string
	Key   string
	Event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Topic: topic, Key: key, Event: event})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type fakeIndex struct {
	docs    map[int]models.Product
	deleted []int
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[int]models.Product{}} }

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	if f.err != nil {
		return f.err
	}
	f.docs[p.ID] = p
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id int) error {
	if f.err != nil {
		return f.err
	}
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, query string, from, size int) (int64, []models.Product, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	out := make([]models.Product, 0)
	for _, p := range f.docs {
		if p.Name == query {
			out = append(out, p)
		}
	}
	return int64(len(out)), out, nil
}

var errBroker = errors.New("broker unavailable")
