package embed

import "errors"

// Stage of a mounted embed.
type Stage int

// Stages of the component lifecycle. StageFailed is terminal.
const (
	StageRendered Stage = iota
	StagePlaceholder
	StageMounted
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageRendered:
		return "rendered"
	case StagePlaceholder:
		return "placeholder"
	case StageMounted:
		return "mounted"
	default:
		return "failed"
	}
}

// Component tracks an embed across the interactions it receives during a render.
type Component struct {
	resolver   Resolver
	descriptor Descriptor
	stage      Stage
	result     Result
}

// Mount resolves the descriptor into a component. YouTube embeds start as a click-to-play placeholder.
func (r Resolver) Mount(d Descriptor) *Component {
	c := Component{resolver: r, descriptor: d, result: r.Resolve(d)}
	switch {
	case !c.result.Rendered():
		c.stage = StageFailed
	case c.result.Type == TypeYouTube:
		c.stage = StagePlaceholder
	default:
		c.stage = StageRendered
	}
	return &c
}

// Stage returns the current stage.
func (c *Component) Stage() Stage {
	return c.stage
}

// Result returns the current output.
func (c *Component) Result() Result {
	return c.result
}

// Interact mounts the real player of a placeholder. Any other stage is left as it is.
func (c *Component) Interact() Result {
	if c.stage != StagePlaceholder {
		return c.result
	}
	c.descriptor.Type = TypeYouTube
	c.result = c.resolver.player(c.descriptor)
	if c.result.Rendered() {
		c.stage = StageMounted
	} else {
		c.stage = StageFailed
	}
	return c.result
}

// LoadError moves the component into the failed stage, the fallback card stays for the rest of the component life.
func (c *Component) LoadError() Result {
	if c.stage == StageFailed {
		return c.result
	}
	c.descriptor.Type = c.result.Type
	c.result = c.resolver.Fail(c.descriptor, errors.New("load error event"))
	c.stage = StageFailed
	return c.result
}

// Lightbox is the overlay state of an image or gallery embed. Index navigation wraps around the image count.
type Lightbox struct {
	Count int
	Index int
	Open  bool
}

// Show opens the lightbox at the given index.
func (l Lightbox) Show(index int) Lightbox {
	if l.Count <= 0 {
		return l
	}
	l.Open = true
	l.Index = wrap(index, l.Count)
	return l
}

// Navigate moves the index by the direction.
func (l Lightbox) Navigate(direction int) Lightbox {
	if l.Count <= 0 {
		return l
	}
	l.Index = wrap(l.Index+direction, l.Count)
	return l
}

// Close the lightbox keeping the last index.
func (l Lightbox) Close() Lightbox {
	l.Open = false
	return l
}

// HandleKey applies the keyboard navigation of an open lightbox.
func (l Lightbox) HandleKey(key string) Lightbox {
	if !l.Open {
		return l
	}
	switch key {
	case "ArrowLeft":
		return l.Navigate(-1)
	case "ArrowRight":
		return l.Navigate(1)
	case "Escape":
		return l.Close()
	default:
		return l
	}
}

func wrap(index, count int) int {
	return ((index % count) + count) % count
}
