package carousel

import (
	"time"

	"github.com/tanema/gween/ease"
)

// CarouselBuilderOption is a functional option for configuring a Carousel.
type CarouselBuilderOption func(*carouselImpl)

// WithAutoAdvance sets how long a settled slide is shown before advancing. Zero disables auto-advance.
//
// Parameters:
//   - d: display time per slide
//
// Returns:
//   - CarouselBuilderOption: functional option to set the auto-advance delay
func WithAutoAdvance(d time.Duration) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.autoAdvance = max(d, 0)
	}
}

// WithTransition sets the duration and easing of the track animation.
//
// Parameters:
//   - d: transition duration
//   - easing: easing curve (unchanged if nil)
//
// Returns:
//   - CarouselBuilderOption: functional option to set the transition
func WithTransition(d time.Duration, easing ease.TweenFunc) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.transition = max(d, 0)
		if easing != nil {
			c.easing = easing
		}
	}
}

// WithStartIndex sets the initially shown slide, clamped to the slide range.
//
// Parameters:
//   - i: initial slide
//
// Returns:
//   - CarouselBuilderOption: functional option to set the initial slide
func WithStartIndex(i int) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.index = i
	}
}

// WithInView sets the initial in-view flag used to gate keyboard navigation.
//
// Parameters:
//   - inView: whether the carousel starts on screen
//
// Returns:
//   - CarouselBuilderOption: functional option to set the in-view flag
func WithInView(inView bool) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.inView = inView
	}
}
