package dogpic_test

import (
	"context"
	"sync"
)

type stubReader struct {
	mu      sync.Mutex
	content string
	err     error
	paths   []string
}

func (s *stubReader) Read(_ context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)

	return s.content, s.err
}

func (s *stubReader) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.paths)
}

type stubFetcher struct {
	mu       sync.Mutex
	imageURL string
	err      error
	breeds   []string
}

func (s *stubFetcher) Fetch(_ context.Context, breed string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breeds = append(s.breeds, breed)

	return s.imageURL, s.err
}

func (s *stubFetcher) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.breeds)
}

type spyWriter struct {
	mu       sync.Mutex
	err      error
	paths    []string
	contents []string
}

func (s *spyWriter) Write(_ context.Context, path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	s.contents = append(s.contents, content)

	return s.err
}

func (s *spyWriter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.contents)
}
