package filestorage

import (
	"context"
	"strings"
	"testing"

	"github.com/SeakMengs/MarsAI/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIsAbsoluteURL(t *testing.T) {
	assert.True(t, IsAbsoluteURL("https://cdn.example.com/trailer.mp4"))
	assert.True(t, IsAbsoluteURL("http://youtu.be/abc"))
	assert.False(t, IsAbsoluteURL("1718000000-film.mp4"))
	assert.False(t, IsAbsoluteURL("/uploads/thumb.png"))
	assert.False(t, IsAbsoluteURL("ftp://host/file"))
}

func TestURLsWithoutStorage(t *testing.T) {
	var s *Storage
	assets := map[string]string{"film": "film.mp4", "trailer": "https://cdn.example.com/t.mp4"}
	assert.Equal(t, assets, s.URLs(context.Background(), assets))
	s.Remove(context.Background(), assets)
}

func TestURLsPresign(t *testing.T) {
	// Region is fixed on the client so presigning needs no network.
	s, err := NewStorage(&config.MinioConfig{
		ENDPOINT:   "localhost:9000",
		ACCESS_KEY: "minio",
		SECRET_KEY: "minio-secret",
		BUCKET:     "marsai",
	}, zap.NewNop().Sugar())
	require.NoError(t, err)

	urls := s.URLs(context.Background(), map[string]string{
		"film":    "film.mp4",
		"trailer": "https://cdn.example.com/t.mp4",
	})

	assert.Equal(t, "https://cdn.example.com/t.mp4", urls["trailer"])
	assert.True(t, strings.HasPrefix(urls["film"], "http://localhost:9000/marsai/film.mp4?"), urls["film"])
	assert.Contains(t, urls["film"], "X-Amz-Signature=")
}
