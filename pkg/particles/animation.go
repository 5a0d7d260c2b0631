package particles

type animationFrame struct {
	ref      string
	duration float64 // seconds
}

// FrameAnimation cycles through a looping list of frame references.
// A frame with zero duration is held forever.
type FrameAnimation struct {
	frames  []animationFrame
	current int
	elapsed float64
}

// AddFrame appends a frame displayed for durationMs milliseconds.
func (a *FrameAnimation) AddFrame(ref string, durationMs int) {
	if durationMs < 0 {
		durationMs = 0
	}
	a.frames = append(a.frames, animationFrame{ref: ref, duration: float64(durationMs) / 1000.0})
}

// Update advances the cursor by dt seconds.
func (a *FrameAnimation) Update(dt float64) {
	if len(a.frames) == 0 {
		return
	}
	a.elapsed += dt
	for {
		d := a.frames[a.current].duration
		if d <= 0 {
			a.elapsed = 0
			return
		}
		if a.elapsed < d {
			return
		}
		a.elapsed -= d
		a.current = (a.current + 1) % len(a.frames)
	}
}

// Reset rewinds to the first frame.
func (a *FrameAnimation) Reset() {
	a.current = 0
	a.elapsed = 0
}

// Clear removes every frame.
func (a *FrameAnimation) Clear() {
	a.frames = a.frames[:0]
	a.Reset()
}

func (a *FrameAnimation) CurrentFrameIndex() int { return a.current }

func (a *FrameAnimation) NumFrames() int { return len(a.frames) }

// Frame returns the reference of frame i.
func (a *FrameAnimation) Frame(i int) string {
	if i < 0 || i >= len(a.frames) {
		return ""
	}
	return a.frames[i].ref
}

// PercentProgress is how far through the current frame the cursor is, in [0, 1).
func (a *FrameAnimation) PercentProgress() float64 {
	if len(a.frames) == 0 {
		return 0
	}
	d := a.frames[a.current].duration
	if d <= 0 {
		return 0
	}
	return a.elapsed / d
}
