package ocr

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls [][]string
	out   string
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return []byte(f.out), nil, f.err
}

func TestBuildTesseractArgs(t *testing.T) {
	cfg := TesseractConfig{PSM: 6, OEM: 1, TessdataDir: "/usr/share/tessdata"}
	args := buildTesseractArgs(cfg, "/tmp/page-1.jpg")
	assert.Equal(t, []string{
		"/tmp/page-1.jpg", "stdout", "-l", "eng",
		"--psm", "6", "--oem", "1",
		"--tessdata-dir", "/usr/share/tessdata",
	}, args)

	minimal := buildTesseractArgs(TesseractConfig{}, "p.jpg")
	assert.Equal(t, []string{"p.jpg", "stdout", "-l", "eng"}, minimal)
}

func TestTesseractWorkerRecognize(t *testing.T) {
	runner := &fakeRunner{out: "BARANGAY CLEARANCE\n"}
	factory := NewTesseractFactoryWithRunner(TesseractConfig{WorkDir: t.TempDir()}, runner)

	worker, err := factory.NewWorker(context.Background())
	require.NoError(t, err)

	var progress []int
	text, err := worker.Recognize(context.Background(), []byte("not-a-real-jpeg"), func(p int) {
		progress = append(progress, p)
	})
	require.NoError(t, err)
	assert.Equal(t, "BARANGAY CLEARANCE\n", text)
	assert.Equal(t, []int{0, 100}, progress)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "tesseract", runner.calls[0][0])

	// scratch dir is removed on terminate
	scratch := worker.(*tesseractWorker).scratch
	_, statErr := os.Stat(scratch)
	require.NoError(t, statErr)
	require.NoError(t, worker.Terminate())
	_, statErr = os.Stat(scratch)
	assert.True(t, os.IsNotExist(statErr))
}
