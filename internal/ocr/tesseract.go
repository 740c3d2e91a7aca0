package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// TesseractConfig configures the exec-based tesseract engine
type TesseractConfig struct {
	Binary      string // binary name or absolute path; if empty -> "tesseract"
	TessdataDir string
	WorkDir     string // scratch dir for page images; if empty -> os.TempDir()

	PSM int // page segmentation mode; 0 = tesseract default
	OEM int // 1 = LSTM; 0 = tesseract default
}

func (c TesseractConfig) withDefaults() TesseractConfig {
	if c.Binary == "" {
		c.Binary = "tesseract"
	}
	if c.WorkDir == "" {
		c.WorkDir = os.TempDir()
	}
	return c
}

// Runner executes external commands; swapped for a fake in tests
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return out, exitErr.Stderr, err
		}
		return out, nil, err
	}
	return out, nil, nil
}

// TesseractFactory creates tesseract workers
type TesseractFactory struct {
	cfg    TesseractConfig
	runner Runner
}

func NewTesseractFactory(cfg TesseractConfig) *TesseractFactory {
	return &TesseractFactory{cfg: cfg.withDefaults(), runner: execRunner{}}
}

// NewTesseractFactoryWithRunner injects a command runner (tests)
func NewTesseractFactoryWithRunner(cfg TesseractConfig, runner Runner) *TesseractFactory {
	return &TesseractFactory{cfg: cfg.withDefaults(), runner: runner}
}

func (f *TesseractFactory) NewWorker(ctx context.Context) (Worker, error) {
	scratch := filepath.Join(f.cfg.WorkDir, "ocr-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, fmt.Errorf("create ocr scratch dir: %w", err)
	}
	return &tesseractWorker{cfg: f.cfg, runner: f.runner, scratch: scratch}, nil
}

// tesseractWorker shells out to the tesseract binary once per page image
type tesseractWorker struct {
	cfg     TesseractConfig
	runner  Runner
	scratch string
	pages   int
}

func (w *tesseractWorker) Recognize(ctx context.Context, imageData []byte, onProgress ProgressFunc) (string, error) {
	report := func(p int) {
		if onProgress != nil {
			onProgress(p)
		}
	}
	report(0)

	w.pages++
	imgPath := filepath.Join(w.scratch, fmt.Sprintf("page-%d.jpg", w.pages))
	if err := os.WriteFile(imgPath, imageData, 0o644); err != nil {
		return "", fmt.Errorf("write page image: %w", err)
	}

	out, errb, err := w.runner.Run(ctx, w.cfg.Binary, buildTesseractArgs(w.cfg, imgPath)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (stderr: %s)", err, string(errb))
	}

	report(100)
	return string(out), nil
}

// Terminate removes the scratch directory. The exec model holds no process
// between calls, so cleanup is the whole teardown.
func (w *tesseractWorker) Terminate() error {
	return os.RemoveAll(w.scratch)
}

func buildTesseractArgs(cfg TesseractConfig, imgPath string) []string {
	args := []string{imgPath, "stdout", "-l", Language}
	if cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(cfg.PSM))
	}
	if cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(cfg.OEM))
	}
	if cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", cfg.TessdataDir)
	}
	return args
}
