package agent

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ShayCichocki/foiabuddy/internal/docsource"
	"github.com/ShayCichocki/foiabuddy/internal/llm"
)

// fakeSource is an in-memory docsource.Provider.
type fakeSource struct {
	files   map[string]string // path -> contents
	listErr error
}

func (f *fakeSource) List(ctx context.Context, dir string) ([]docsource.Descriptor, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(f.files))
	for p := range f.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	docs := make([]docsource.Descriptor, 0, len(paths))
	for _, p := range paths {
		docs = append(docs, docsource.Descriptor{
			Path: p,
			Name: filepath.Base(p),
			Ext:  strings.ToLower(filepath.Ext(p)),
			Size: int64(len(f.files[p])),
		})
	}
	return docs, nil
}

func (f *fakeSource) Read(ctx context.Context, d docsource.Descriptor) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, ok := f.files[d.Path]
	if !ok {
		return nil, errors.New("not found: " + d.Path)
	}
	return []byte(content), nil
}

// fakeClient is an llm.Client returning canned completions.
type fakeClient struct {
	response string
	thinking string
	err      error
}

func (f *fakeClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) CompleteStream(ctx context.Context, req llm.CompletionRequest) (*llm.Stream, error) {
	s := llm.NewStream(16)
	go func() {
		if f.err != nil {
			s.Finish("", f.err)
			return
		}
		if f.thinking != "" {
			s.Send(ctx, llm.Chunk{Text: f.thinking, Thinking: true})
		}
		s.Send(ctx, llm.Chunk{Text: f.response})
		s.Finish(f.response, nil)
	}()
	return s, nil
}
