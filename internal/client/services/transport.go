package services

import (
	"context"
	"fmt"
)

// Transport is the subset of *api.Client the services rely on.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, in, out any) error
}

func idPath(base string, id int64) string {
	return fmt.Sprintf("%s/%d", base, id)
}
