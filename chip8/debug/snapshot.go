package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-chip8/chip8/video"
)

// TakeSnapshot handles the snapshot key for interactive backends, writing a
// PNG of frame to the working directory.
func TakeSnapshot(frame video.Frame) {
	baseName := fmt.Sprintf("chip8_snapshot_%s", time.Now().Format("20060102_150405"))
	if _, err := SaveFramePNG(frame, baseName, ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// SaveFramePNG saves a frame as <baseName>.png in directory, or in the
// working directory when directory is empty. Set pixels are white.
func SaveFramePNG(frame video.Frame, baseName, directory string) (string, error) {
	img := image.NewGray(image.Rect(0, 0, video.FramebufferWidth, video.FramebufferHeight))
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			if frame[y][x] {
				img.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}

	filePath, err := outputPath(directory, baseName+".png")
	if err != nil {
		return "", err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Info("Snapshot saved", "path", filePath, "format", "PNG")
	return filePath, nil
}

// SaveFrameText saves a frame as <baseName>.txt, one line per row with '#'
// for set pixels and '.' for clear ones.
func SaveFrameText(frame video.Frame, baseName, directory string) (string, error) {
	filePath, err := outputPath(directory, baseName+".txt")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filePath, []byte(frame.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", filePath, err)
	}

	slog.Debug("Snapshot saved", "path", filePath, "format", "text")
	return filePath, nil
}

func outputPath(directory, filename string) (string, error) {
	if directory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		directory = cwd
	}
	return filepath.Join(directory, filename), nil
}
