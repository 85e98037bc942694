package embed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComponentLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("Should mount the youtube player after the interaction", func(t *testing.T) {
		t.Parallel()
		var r Resolver
		c := r.Mount(Descriptor{Type: TypeYouTube, URL: "https://youtu.be/abc123", StartTime: 10})
		require.Equal(t, StagePlaceholder, c.Stage())
		require.NotContains(t, string(c.Result().HTML), "<iframe")

		result := c.Interact()
		require.Equal(t, StageMounted, c.Stage())
		require.True(t, result.Rendered())
		require.Contains(t, string(result.HTML), `<iframe src="https://www.youtube.com/embed/abc123?autoplay=1&amp;start=10"`)
		require.Contains(t, string(result.HTML), `allow="accelerometer; autoplay;`)

		require.Equal(t, result, c.Interact())
		require.Equal(t, StageMounted, c.Stage())
	})

	t.Run("Should render the other types directly", func(t *testing.T) {
		t.Parallel()
		var r Resolver
		c := r.Mount(Descriptor{Type: TypeImage, URL: "https://example.com/a.png"})
		require.Equal(t, StageRendered, c.Stage())
		before := c.Result()
		require.Equal(t, before, c.Interact())
		require.Equal(t, StageRendered, c.Stage())
	})

	t.Run("Should start failed when the descriptor is invalid", func(t *testing.T) {
		t.Parallel()
		var r Resolver
		c := r.Mount(Descriptor{Type: TypePDF})
		require.Equal(t, StageFailed, c.Stage())
		require.Equal(t, ReasonMissingField, c.Result().Fallback.Reason)
	})

	t.Run("Should keep the fallback after a load error", func(t *testing.T) {
		t.Parallel()
		var r Resolver
		c := r.Mount(Descriptor{Type: "PDF", URL: "https://example.com/a.pdf"})
		require.Equal(t, StageRendered, c.Stage())

		failed := c.LoadError()
		require.Equal(t, StageFailed, c.Stage())
		require.False(t, failed.Rendered())
		require.Equal(t, TypePDF, failed.Fallback.Type)
		require.Equal(t, ReasonLoadFailure, failed.Fallback.Reason)
		require.True(t, errors.Is(failed.Fallback.Err, ErrLoadFailure))
		require.Contains(t, string(failed.HTML), "This content failed to load.")
		require.Contains(t, string(failed.HTML), `href="https://example.com/a.pdf"`)

		require.Equal(t, failed, c.Interact())
		require.Equal(t, failed, c.LoadError())
		require.Equal(t, StageFailed, c.Stage())
	})

	t.Run("Should fail the placeholder on a load error", func(t *testing.T) {
		t.Parallel()
		var r Resolver
		c := r.Mount(Descriptor{Type: TypeYouTube, URL: "https://youtu.be/abc123"})
		c.LoadError()
		require.Equal(t, StageFailed, c.Stage())
		require.False(t, c.Interact().Rendered())
	})
}

func TestStageString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "rendered", StageRendered.String())
	require.Equal(t, "placeholder", StagePlaceholder.String())
	require.Equal(t, "mounted", StageMounted.String())
	require.Equal(t, "failed", StageFailed.String())
}

func TestLightbox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message  string
		lightbox Lightbox
		action   func(Lightbox) Lightbox
		expected Lightbox
	}{
		{
			message:  "wrap to the last image when navigating back from the first",
			lightbox: Lightbox{Count: 3, Index: 0, Open: true},
			action:   func(l Lightbox) Lightbox { return l.Navigate(-1) },
			expected: Lightbox{Count: 3, Index: 2, Open: true},
		},
		{
			message:  "wrap to the first image when navigating forward from the last",
			lightbox: Lightbox{Count: 3, Index: 2, Open: true},
			action:   func(l Lightbox) Lightbox { return l.Navigate(1) },
			expected: Lightbox{Count: 3, Index: 0, Open: true},
		},
		{
			message:  "open at a wrapped index",
			lightbox: Lightbox{Count: 3},
			action:   func(l Lightbox) Lightbox { return l.Show(4) },
			expected: Lightbox{Count: 3, Index: 1, Open: true},
		},
		{
			message:  "not open without images",
			lightbox: Lightbox{},
			action:   func(l Lightbox) Lightbox { return l.Show(0) },
			expected: Lightbox{},
		},
		{
			message:  "navigate with the left arrow",
			lightbox: Lightbox{Count: 3, Index: 1, Open: true},
			action:   func(l Lightbox) Lightbox { return l.HandleKey("ArrowLeft") },
			expected: Lightbox{Count: 3, Index: 0, Open: true},
		},
		{
			message:  "navigate with the right arrow",
			lightbox: Lightbox{Count: 3, Index: 2, Open: true},
			action:   func(l Lightbox) Lightbox { return l.HandleKey("ArrowRight") },
			expected: Lightbox{Count: 3, Index: 0, Open: true},
		},
		{
			message:  "close with escape keeping the index",
			lightbox: Lightbox{Count: 3, Index: 2, Open: true},
			action:   func(l Lightbox) Lightbox { return l.HandleKey("Escape") },
			expected: Lightbox{Count: 3, Index: 2},
		},
		{
			message:  "ignore keys while closed",
			lightbox: Lightbox{Count: 3, Index: 1},
			action:   func(l Lightbox) Lightbox { return l.HandleKey("ArrowRight") },
			expected: Lightbox{Count: 3, Index: 1},
		},
		{
			message:  "ignore other keys",
			lightbox: Lightbox{Count: 3, Index: 1, Open: true},
			action:   func(l Lightbox) Lightbox { return l.HandleKey("Enter") },
			expected: Lightbox{Count: 3, Index: 1, Open: true},
		},
	}

	for i := 0; i < len(tests); i++ {
		tt := tests[i]
		t.Run("Should "+tt.message, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, tt.action(tt.lightbox))
		})
	}
}
