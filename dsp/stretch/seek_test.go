package stretch

import (
	"testing"

	"github.com/cwbudde/algo-stretch/internal/testutil"
)

// plantedWindow returns a noise window with ref copied in at frame offset at.
func plantedWindow(channels, overlap, seekLen, at int) (ref, win []float64) {
	win = testutil.DeterministicNoise(11, 0.5, (seekLen-1+overlap)*channels)
	ref = testutil.DeterministicNoise(12, 1, overlap*channels)
	copy(win[at*channels:], ref)
	return ref, win
}

func TestSeekersFindPlantedSegment(t *testing.T) {
	seekers := []struct {
		name   string
		seeker Seeker
	}{
		{"exhaustive", ExhaustiveSeeker{}},
		{"quick", QuickSeeker{}},
		{"fft", NewFFTSeeker()},
	}
	cases := []struct {
		channels int
		overlap  int
		seekLen  int
		at       int
	}{
		{1, 64, 100, 37},
		{2, 48, 81, 0},
		{2, 32, 64, 63},
		{4, 16, 50, 25},
	}

	for _, s := range seekers {
		for _, c := range cases {
			ref, win := plantedWindow(c.channels, c.overlap, c.seekLen, c.at)
			got := s.seeker.Seek(ref, win, c.channels, c.seekLen)
			if s.name == "quick" {
				// Coarse scanning may miss a single-offset peak; it must at
				// least stay inside the window.
				if got < 0 || got >= c.seekLen {
					t.Errorf("%s %+v: offset %d out of range", s.name, c, got)
				}
				continue
			}
			if got != c.at {
				t.Errorf("%s %+v: offset = %d, want %d", s.name, c, got, c.at)
			}
		}
	}
}

func TestQuickSeekerFindsBroadPeak(t *testing.T) {
	const overlap, seekLen = 128, 100
	win := testutil.DeterministicSine(200, 44100, 1, seekLen-1+overlap)
	// A slow sine correlates smoothly with shifted copies of itself.
	ref := append([]float64(nil), win[40:40+overlap]...)

	want := ExhaustiveSeeker{}.Seek(ref, win, 1, seekLen)
	got := QuickSeeker{}.Seek(ref, win, 1, seekLen)
	if d := got - want; d < -3 || d > 3 {
		t.Fatalf("quick offset = %d, exhaustive = %d", got, want)
	}
}

func TestFFTSeekerMatchesExhaustive(t *testing.T) {
	const channels, overlap, seekLen = 2, 64, 200
	f := NewFFTSeeker()
	for seed := int64(1); seed <= 5; seed++ {
		win := testutil.DeterministicNoise(seed, 1, (seekLen-1+overlap)*channels)
		ref := testutil.DeterministicNoise(seed+100, 1, overlap*channels)
		want := ExhaustiveSeeker{}.Seek(ref, win, channels, seekLen)
		if got := f.Seek(ref, win, channels, seekLen); got != want {
			t.Errorf("seed %d: fft offset = %d, exhaustive = %d", seed, got, want)
		}
	}
}

func TestSeekTieResolvesToLowestOffset(t *testing.T) {
	// Silence scores every offset equally apart from the centre bias, which
	// is symmetric; the lower of the two central offsets must win.
	const overlap, seekLen = 16, 10
	ref := make([]float64, overlap)
	win := make([]float64, seekLen-1+overlap)
	for _, s := range []Seeker{ExhaustiveSeeker{}, QuickSeeker{}, NewFFTSeeker()} {
		if got := s.Seek(ref, win, 1, seekLen); got != 4 {
			t.Errorf("%T: offset = %d, want 4", s, got)
		}
	}
}

func TestScoreCentreBias(t *testing.T) {
	centre := score(1, 1, 1, 50, 101)
	edge := score(1, 1, 1, 0, 101)
	if !(centre > edge) {
		t.Fatalf("centre score %v not above edge score %v", centre, edge)
	}
	if got := score(1, 0, 1, 50, 101); got <= 0 {
		t.Fatalf("silent candidate score = %v, want positive bias only", got)
	}
}
