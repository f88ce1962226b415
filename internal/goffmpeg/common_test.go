package goffmpeg_test

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/wader/osleaktest"
	"github.com/wader/subcat/internal/goffmpeg"
)

func leakChecks(t *testing.T) func() {
	leakFn := leaktest.Check(t)
	osLeakFn := osleaktest.Check(t)
	return func() {
		leakFn()
		osLeakFn()
	}
}

func requireFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath(goffmpeg.FFmpegPath); err != nil {
		t.Skip("ffmpeg not found")
	}
	if _, err := exec.LookPath(goffmpeg.FFprobePath); err != nil {
		t.Skip("ffprobe not found")
	}
}

// generateTestVideo writes a short testsrc clip and returns its path
func generateTestVideo(t *testing.T, width, height int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mkv")
	c := &goffmpeg.FFmpegCmd{
		Context: context.Background(),
		Flags:   []string{"-y"},
		Inputs: []*goffmpeg.Input{{
			Format: "lavfi",
			File:   "testsrc=size=" + itoa(width) + "x" + itoa(height) + ":rate=10:duration=2",
		}},
		Outputs: []*goffmpeg.Output{{
			Maps:   []*goffmpeg.Map{{Specifier: "0", Codec: "ffv1"}},
			Format: "matroska",
			File:   path,
		}},
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	return path
}
