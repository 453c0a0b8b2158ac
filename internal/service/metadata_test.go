package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acadrepo/internal/doi"
)

type fakeResolver struct {
	calls atomic.Int32
	known map[string]*doi.Metadata
}

func (f *fakeResolver) Lookup(_ context.Context, id string) (*doi.Metadata, error) {
	f.calls.Add(1)
	if m, ok := f.known[id]; ok {
		return m, nil
	}
	return nil, doi.ErrNotFound
}

func TestMetadataService_CachesSuccessOnly(t *testing.T) {
	year := 2019
	r := &fakeResolver{known: map[string]*doi.Metadata{
		"10.1000/ABC": {Title: "T", Authors: []string{"Ana Lima"}, PublicationYear: &year},
	}}
	svc := NewMetadataService(r, 8, time.Minute)
	ctx := context.Background()
	hits := testutil.ToFloat64(doiCacheHits)

	m, err := svc.Lookup(ctx, "10.1000/ABC")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Lima"}, m.Authors)

	_, err = svc.Lookup(ctx, " 10.1000/abc ")
	require.NoError(t, err)
	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, hits+1, testutil.ToFloat64(doiCacheHits))

	_, err = svc.Lookup(ctx, "10.1000/missing")
	assert.ErrorIs(t, err, doi.ErrNotFound)
	_, err = svc.Lookup(ctx, "10.1000/missing")
	assert.ErrorIs(t, err, doi.ErrNotFound)
	assert.Equal(t, int32(3), r.calls.Load())
}

func TestMetadataService_NoCache(t *testing.T) {
	r := &fakeResolver{known: map[string]*doi.Metadata{"x": {Title: "X"}}}
	svc := NewMetadataService(r, 0, 0)

	for i := 0; i < 3; i++ {
		_, err := svc.Lookup(context.Background(), "x")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), r.calls.Load())

	_, err := svc.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, doi.ErrNotFound)
}
