package pkg

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/ChaseLewis/SOARandomizer/pkg/aklz"
	"github.com/ChaseLewis/SOARandomizer/pkg/common"
)

// AKLZProcessor handles standalone AKLZ files (unpack/pack)
type AKLZProcessor struct {
	fs afero.Fs
}

// NewAKLZProcessor creates a processor working on the OS file system
func NewAKLZProcessor() *AKLZProcessor {
	return NewAKLZProcessorFs(afero.NewOsFs())
}

// NewAKLZProcessorFs creates a processor working on fs
func NewAKLZProcessorFs(fs afero.Fs) *AKLZProcessor {
	return &AKLZProcessor{fs: fs}
}

// Unpack decompresses an AKLZ file
func (p *AKLZProcessor) Unpack(inputFile, outputFile string) error {
	compressed, err := afero.ReadFile(p.fs, inputFile)
	if err != nil {
		return fmt.Errorf("failed to read AKLZ file: %w", err)
	}

	data, err := aklz.Decompress(compressed)
	if err != nil {
		return fmt.Errorf("failed to decompress %s: %w", inputFile, err)
	}

	if err := afero.WriteFile(p.fs, outputFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write decompressed data: %w", err)
	}

	common.LogInfo(common.InfoAKLZUnpacked, inputFile, outputFile)
	common.LogInfo(common.InfoAKLZSizes, len(compressed), len(data))
	return nil
}

// Pack compresses a file into an AKLZ stream
func (p *AKLZProcessor) Pack(inputFile, outputFile string) error {
	data, err := afero.ReadFile(p.fs, inputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	compressed := aklz.Compress(data)
	if err := afero.WriteFile(p.fs, outputFile, compressed, 0o644); err != nil {
		return fmt.Errorf("failed to write AKLZ file: %w", err)
	}

	common.LogInfo(common.InfoAKLZPacked, inputFile, outputFile)
	common.LogInfo(common.InfoAKLZSizes, len(compressed), len(data))
	return nil
}
