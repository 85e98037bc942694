package embed

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func minimalDescriptors() map[Type]Descriptor {
	return map[Type]Descriptor{
		TypePDF:          {Type: TypePDF, URL: "https://example.com/a.pdf"},
		TypeYouTube:      {Type: TypeYouTube, URL: "https://youtu.be/abc123"},
		TypeAudio:        {Type: TypeAudio, URL: "https://example.com/a.mp3"},
		TypeGoogleDocs:   {Type: TypeGoogleDocs, URL: "https://docs.google.com/document/d/doc1/edit"},
		TypeGoogleSheets: {Type: TypeGoogleSheets, URL: "https://docs.google.com/spreadsheets/d/sheet1/edit"},
		TypeMSOffice:     {Type: TypeMSOffice, URL: "https://example.com/deck.pptx"},
		TypeImage:        {Type: TypeImage, URL: "https://example.com/a.png"},
		TypeGallery:      {Type: TypeGallery, Images: []Image{{Src: "https://example.com/1.png"}}},
		TypeFigma:        {Type: TypeFigma, URL: "https://www.figma.com/file/abc/Design"},
		TypeCode:         {Type: TypeCode, Code: "fmt.Println(1)"},
		TypeGist:         {Type: TypeGist, URL: "https://gist.github.com/user/abc"},
		TypeIframe:       {Type: TypeIframe, URL: "https://example.com/widget"},
		TypeChart:        {Type: TypeChart, URL: "https://charts.example.com/c/1"},
		TypeFile:         {Type: TypeFile, URL: "https://example.com/report.pdf"},
	}
}

func TestResolverInit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message   string
		whitelist []string
		expected  []string
		shouldErr bool
	}{
		{
			message:  "accept an empty whitelist",
			expected: []string{},
		},
		{
			message:   "normalize the whitelist entries",
			whitelist: []string{" YouTube.com ", ".figma.com"},
			expected:  []string{"youtube.com", "figma.com"},
		},
		{
			message:   "have an error because of an empty entry",
			whitelist: []string{"youtube.com", " "},
			shouldErr: true,
		},
		{
			message:   "have an error because of an entry that is not a domain",
			whitelist: []string{"https://youtube.com/watch"},
			shouldErr: true,
		},
	}

	for i := 0; i < len(tests); i++ {
		tt := tests[i]
		t.Run("Should "+tt.message, func(t *testing.T) {
			t.Parallel()
			r := Resolver{Whitelist: tt.whitelist}
			err := r.Init()
			require.Equal(t, tt.shouldErr, (err != nil))
			if err != nil {
				return
			}
			require.Equal(t, tt.expected, r.Whitelist)
			require.NotNil(t, r.Logger)
		})
	}
}

func TestResolverDispatchCompleteness(t *testing.T) {
	t.Parallel()

	var r Resolver
	require.NoError(t, r.Init())

	descriptors := minimalDescriptors()
	require.Len(t, descriptors, len(Types()))

	for _, embedType := range Types() {
		embedType := embedType
		t.Run("Should render the minimal "+string(embedType)+" descriptor", func(t *testing.T) {
			t.Parallel()
			result := r.Resolve(descriptors[embedType])
			require.True(t, result.Rendered(), "fallback: %+v", result.Fallback)
			require.Equal(t, embedType, result.Type)
			require.NotEmpty(t, result.HTML)
		})

		t.Run("Should handle the "+string(embedType)+" descriptor without fields", func(t *testing.T) {
			t.Parallel()
			result := r.Resolve(Descriptor{Type: embedType})
			require.NotEmpty(t, result.HTML)
			if embedType == TypeFile {
				require.True(t, result.Rendered())
				return
			}
			require.False(t, result.Rendered())
			require.Equal(t, ReasonMissingField, result.Fallback.Reason)
			require.True(t, errors.Is(result.Fallback.Err, ErrMissingField))
			require.Contains(t, string(result.HTML), "embed-fallback-missing-field")
		})
	}

	t.Run("Should render a fallback for an unknown type", func(t *testing.T) {
		t.Parallel()
		result := r.Resolve(Descriptor{Type: "hologram", URL: "https://example.com/h"})
		require.False(t, result.Rendered())
		require.Equal(t, ReasonUnsupportedType, result.Fallback.Reason)
		require.True(t, errors.Is(result.Fallback.Err, ErrUnsupportedType))
		require.Contains(t, string(result.HTML), `href="https://example.com/h"`)
		require.Contains(t, string(result.HTML), ">Open</a>")
	})

	t.Run("Should render a fallback without link for an unknown type without url", func(t *testing.T) {
		t.Parallel()
		result := r.Resolve(Descriptor{Type: "hologram"})
		require.False(t, result.Rendered())
		require.NotContains(t, string(result.HTML), "href")
	})

	t.Run("Should render a fallback for a descriptor without type", func(t *testing.T) {
		t.Parallel()
		result := r.Resolve(Descriptor{})
		require.False(t, result.Rendered())
		require.Contains(t, string(result.HTML), "This embed has no type.")
	})
}

func TestResolverWhitelist(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message   string
		whitelist []string
		uri       string
		allowed   bool
		host      string
	}{
		{
			message:   "allow a subdomain of a whitelisted domain",
			whitelist: []string{"youtube.com"},
			uri:       "https://m.youtube.com/watch?v=x",
			allowed:   true,
		},
		{
			message:   "allow the exact domain",
			whitelist: []string{"youtube.com"},
			uri:       "https://youtube.com/embed/x",
			allowed:   true,
		},
		{
			message:   "reject a domain outside the whitelist",
			whitelist: []string{"youtube.com"},
			uri:       "https://evil.com",
			host:      "evil.com",
		},
		{
			message:   "reject a domain that only ends with the whitelisted one",
			whitelist: []string{"youtube.com"},
			uri:       "https://notyoutube.com/x",
			host:      "notyoutube.com",
		},
		{
			message:   "reject an address without host",
			whitelist: []string{"youtube.com"},
			uri:       "youtube.com/embed/x",
			host:      "youtube.com/embed/x",
		},
		{
			message:   "reject an address that can't be parsed",
			whitelist: []string{"youtube.com"},
			uri:       "https://exa mple.com/%zz",
			host:      "https://exa mple.com/%zz",
		},
		{
			message: "allow any domain without whitelist",
			uri:     "https://evil.com",
			allowed: true,
		},
	}

	for i := 0; i < len(tests); i++ {
		tt := tests[i]
		t.Run("Should "+tt.message, func(t *testing.T) {
			t.Parallel()
			r := Resolver{Whitelist: tt.whitelist}
			result := r.Resolve(Descriptor{Type: TypeIframe, URL: tt.uri})
			require.Equal(t, tt.allowed, result.Rendered())
			if tt.allowed {
				require.Contains(t, string(result.HTML), "<iframe")
				return
			}
			require.Equal(t, ReasonInvalidDomain, result.Fallback.Reason)
			require.Equal(t, tt.host, result.Fallback.Host)
			require.True(t, errors.Is(result.Fallback.Err, ErrInvalidDomain))
			require.NotContains(t, string(result.HTML), "<iframe")
		})
	}

	t.Run("Should name the rejected host at the fallback card", func(t *testing.T) {
		t.Parallel()
		r := Resolver{Whitelist: []string{"youtube.com"}}
		result := r.Resolve(Descriptor{Type: TypeIframe, URL: "https://evil.com"})
		require.Contains(t, string(result.HTML), "Embedding content from evil.com is not allowed.")
	})

	t.Run("Should prefer the descriptor whitelist", func(t *testing.T) {
		t.Parallel()
		r := Resolver{Whitelist: []string{"youtube.com"}}
		result := r.Resolve(Descriptor{Type: TypeIframe, URL: "https://app.example.com", Whitelist: []string{"example.com"}})
		require.True(t, result.Rendered())
	})

	t.Run("Should not apply the whitelist to dedicated types", func(t *testing.T) {
		t.Parallel()
		r := Resolver{Whitelist: []string{"example.com"}}
		for _, d := range minimalDescriptors() {
			if d.Type == TypeIframe {
				continue
			}
			require.True(t, r.Resolve(d).Rendered(), "type %s", d.Type)
		}
	})
}

func TestResolverStrategies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message     string
		descriptor  Descriptor
		contains    []string
		notContains []string
	}{
		{
			message:    "render the pdf viewer with open and download actions",
			descriptor: Descriptor{Type: TypePDF, URL: "https://example.com/a.pdf", Caption: "Report"},
			contains: []string{
				`<iframe src="https://example.com/a.pdf"`, "height:600px", ">Open</a>", "download>Download</a>",
				`<figcaption class="embed-caption">Report</figcaption>`,
			},
		},
		{
			message:    "render the youtube placeholder before the player",
			descriptor: Descriptor{Type: "YouTube", URL: "https://www.youtube.com/watch?v=abc123&t=5", StartTime: 30, Title: "Demo"},
			contains: []string{
				`data-video-id="abc123"`, `src="https://img.youtube.com/vi/abc123/hqdefault.jpg"`,
				`data-embed-player="https://www.youtube.com/embed/abc123?autoplay=1&amp;start=30"`,
				`aria-label="Play Demo"`,
			},
			notContains: []string{"<iframe"},
		},
		{
			message:    "render the audio control",
			descriptor: Descriptor{Type: TypeAudio, Src: "https://example.com/a.mp3", Title: "Episode"},
			contains:   []string{`<audio controls preload="metadata" src="https://example.com/a.mp3">`, "Episode"},
		},
		{
			message:    "rewrite google docs addresses to the preview",
			descriptor: Descriptor{Type: TypeGoogleDocs, URL: "https://docs.google.com/document/d/doc1/edit?usp=sharing"},
			contains:   []string{`src="https://docs.google.com/document/d/doc1/preview"`, "height:500px"},
		},
		{
			message:    "rewrite google sheets addresses to the preview",
			descriptor: Descriptor{Type: TypeGoogleSheets, URL: "https://docs.google.com/spreadsheets/d/sheet1/edit#gid=0"},
			contains:   []string{`src="https://docs.google.com/spreadsheets/d/sheet1/preview"`},
		},
		{
			message:    "pass office documents through the viewer",
			descriptor: Descriptor{Type: TypeMSOffice, URL: "https://example.com/deck.pptx"},
			contains:   []string{`src="https://view.officeapps.live.com/op/embed.aspx?src=https%3A%2F%2Fexample.com%2Fdeck.pptx"`},
		},
		{
			message:    "render the image with the lightbox trigger",
			descriptor: Descriptor{Type: TypeImage, URL: "https://example.com/a.png", Title: "Chart"},
			contains:   []string{`data-lightbox="single"`, `<img src="https://example.com/a.png" alt="Chart"`},
		},
		{
			message: "render the gallery grid skipping images without source",
			descriptor: Descriptor{Type: TypeGallery, Images: []Image{
				{Src: "https://example.com/1.png", Alt: "One", Caption: "First"},
				{Src: " "},
				{Src: "https://example.com/2.png", Alt: "Two"},
			}},
			contains: []string{
				`data-count="2"`, `data-index="0" title="First"`, `data-index="1"`,
				`<img src="https://example.com/2.png" alt="Two"`,
			},
			notContains: []string{`data-index="2"`},
		},
		{
			message:    "pass figma files through the embed endpoint",
			descriptor: Descriptor{Type: TypeFigma, URL: "https://www.figma.com/file/abc/Design"},
			contains: []string{
				`src="https://www.figma.com/embed?embed_host=share&amp;url=https%3A%2F%2Fwww.figma.com%2Ffile%2Fabc%2FDesign"`,
				"padding-bottom:56.25%", "allowfullscreen",
			},
		},
		{
			message:    "render the code escaped with its language",
			descriptor: Descriptor{Type: TypeCode, Code: "<b>x</b>\n    indented", Language: "html"},
			contains: []string{
				`<span class="embed-code-language">html</span>`, `data-copy="code"`,
				`<code class="language-html">&lt;b&gt;x&lt;/b&gt;` + "\n    indented</code>",
			},
			notContains: []string{"<b>"},
		},
		{
			message:    "default the code language",
			descriptor: Descriptor{Type: TypeCode, Code: "x"},
			contains:   []string{`<span class="embed-code-language">text</span>`},
		},
		{
			message:    "render the gist script through a generated document",
			descriptor: Descriptor{Type: TypeGist, URL: "https://gist.github.com/user/abc/"},
			contains:   []string{"srcdoc=", "https://gist.github.com/user/abc.js", `data-autoresize="content"`},
			notContains: []string{
				"<script", "abc/.js",
			},
		},
		{
			message:    "not duplicate the gist script extension",
			descriptor: Descriptor{Type: TypeGist, URL: "https://gist.github.com/user/abc.js"},
			contains:   []string{"https://gist.github.com/user/abc.js"},
			notContains: []string{
				"abc.js.js",
			},
		},
		{
			message:    "render the generic iframe sandboxed",
			descriptor: Descriptor{Type: TypeIframe, URL: "https://example.com/widget", AspectRatio: "21/9", AllowFullscreen: boolPtr(false)},
			contains:   []string{`sandbox="allow-scripts`, "padding-bottom:42.8571%"},
			notContains: []string{
				"allowfullscreen",
			},
		},
		{
			message:    "default the chart ratio to 4/3",
			descriptor: Descriptor{Type: TypeChart, URL: "https://charts.example.com/c/1"},
			contains:   []string{"padding-bottom:75%"},
		},
		{
			message:    "ignore an invalid aspect ratio",
			descriptor: Descriptor{Type: TypeIframe, URL: "https://example.com/widget", AspectRatio: "wide"},
			contains:   []string{"padding-bottom:56.25%"},
		},
		{
			message: "render the file card with name, type and size",
			descriptor: Descriptor{
				Type: TypeFile, URL: "https://example.com/files/report%20final.pdf", FileType: "PDF", FileSize: "1.2 MB",
			},
			contains: []string{
				`<span class="embed-file-icon">PDF</span>`, ">report final.pdf</a>", "PDF · 1.2 MB",
			},
		},
		{
			message:    "render the file card without address",
			descriptor: Descriptor{Type: TypeFile, FileName: "notes.txt"},
			contains:   []string{`<span class="embed-file-name">notes.txt</span>`},
			notContains: []string{
				"href",
			},
		},
		{
			message:    "neutralize script addresses",
			descriptor: Descriptor{Type: TypeImage, URL: "javascript:alert(1)"},
			notContains: []string{
				"javascript:",
			},
		},
	}

	for i := 0; i < len(tests); i++ {
		tt := tests[i]
		t.Run("Should "+tt.message, func(t *testing.T) {
			t.Parallel()
			var r Resolver
			result := r.Resolve(tt.descriptor)
			require.True(t, result.Rendered(), "fallback: %+v", result.Fallback)
			for _, expected := range tt.contains {
				require.Contains(t, string(result.HTML), expected)
			}
			for _, unexpected := range tt.notContains {
				require.NotContains(t, string(result.HTML), unexpected)
			}
		})
	}
}

func TestResolverGistScheme(t *testing.T) {
	t.Parallel()

	var r Resolver
	result := r.Resolve(Descriptor{Type: TypeGist, URL: "javascript:alert(1)"})
	require.False(t, result.Rendered())
	require.Equal(t, ReasonMissingField, result.Fallback.Reason)
	require.Equal(t, "url", result.Fallback.Field)
	require.ErrorIs(t, result.Fallback.Err, ErrMissingField)
	require.False(t, strings.Contains(string(result.HTML), "<iframe"))
}

func TestResolverYouTubeWithoutID(t *testing.T) {
	t.Parallel()

	var r Resolver
	result := r.Resolve(Descriptor{Type: TypeYouTube, URL: "https://www.youtube.com/channel/"})
	require.False(t, result.Rendered())
	require.Equal(t, ReasonMissingField, result.Fallback.Reason)
	require.Equal(t, "url", result.Fallback.Field)
}

func boolPtr(value bool) *bool {
	return &value
}
