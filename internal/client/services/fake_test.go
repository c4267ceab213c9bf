package services

import (
	"context"
	"encoding/json"

	"github.com/calistrack/calistrack/internal/client/api"
)

type call struct {
	Method string
	Path   string
	In     any
	Skip   bool
}

// fakeTransport records calls and answers with canned JSON.
type fakeTransport struct {
	Calls []call

	// Resp is marshalled into out on success.
	Resp any
	Err  error
}

func (f *fakeTransport) do(ctx context.Context, method, path string, in, out any) error {
	f.Calls = append(f.Calls, call{Method: method, Path: path, In: in, Skip: api.IsSkipAuthExpired(ctx)})
	if f.Err != nil {
		return f.Err
	}
	if out != nil && f.Resp != nil {
		b, err := json.Marshal(f.Resp)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, out)
	}
	return nil
}

func (f *fakeTransport) last() call {
	return f.Calls[len(f.Calls)-1]
}

func (f *fakeTransport) Get(ctx context.Context, path string, out any) error {
	return f.do(ctx, "GET", path, nil, out)
}

func (f *fakeTransport) Post(ctx context.Context, path string, in, out any) error {
	return f.do(ctx, "POST", path, in, out)
}

func (f *fakeTransport) Put(ctx context.Context, path string, in, out any) error {
	return f.do(ctx, "PUT", path, in, out)
}

func (f *fakeTransport) Delete(ctx context.Context, path string, in, out any) error {
	return f.do(ctx, "DELETE", path, in, out)
}
