package romfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"basic.bin", Raw},
		{"basic.rom", Raw},
		{"noext", Raw},
		{"kernal.hex", IntelHex},
		{"KERNAL.HEX", IntelHex},
		{"boot.ihx", IntelHex},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOf(tt.path))
		})
	}
}

func TestReadRaw(t *testing.T) {
	image, err := Read(bytes.NewReader([]byte{1, 2, 3}), Raw, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 0xff, 0xff, 0xff, 0xff, 0xff}, image)

	image, err = Read(bytes.NewReader([]byte{1, 2, 3, 4}), Raw, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, image)

	_, err = Read(bytes.NewReader(make([]byte, 5)), Raw, 4)
	var sizeErr *SizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, uint32(4), sizeErr.Address)
}

func TestReadHex(t *testing.T) {
	// Four bytes at 0x0010 and an end of file record.
	const src = ":0400100001020304E2\n:00000001FF\n"

	image, err := Read(strings.NewReader(src), IntelHex, 0x20)
	require.NoError(t, err)
	require.Len(t, image, 0x20)
	assert.Equal(t, []byte{1, 2, 3, 4}, image[0x10:0x14])
	assert.Equal(t, byte(Blank), image[0])
	assert.Equal(t, byte(Blank), image[0x1f])
}

func TestReadHexErrors(t *testing.T) {
	_, err := Read(strings.NewReader(":0400100001020304E2\n:00000001FF\n"), IntelHex, 0x12)
	var sizeErr *SizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, uint32(0x12), sizeErr.Address)

	_, err = Read(strings.NewReader(":04001000010203\n"), IntelHex, 0x20)
	assert.ErrorContains(t, err, "invalid Intel HEX")
}

func TestWriteReadHex(t *testing.T) {
	image := blank(0x800)
	copy(image[0x100:], "6540 mask rom")
	image[0x7ff] = 0x42

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, image, IntelHex))
	assert.Contains(t, buf.String(), ":10000000")
	assert.Contains(t, buf.String(), ":00000001FF")

	got, err := Read(&buf, IntelHex, 0x800)
	require.NoError(t, err)
	assert.Equal(t, image, got)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	image := make([]byte, 0x2000)
	for i := range image {
		image[i] = byte(i * 7)
	}

	for _, name := range []string{"image.bin", "image.hex"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, image))

			got, err := Load(path, len(image))
			require.NoError(t, err)
			assert.Equal(t, image, got)
		})
	}

	raw, err := os.ReadFile(filepath.Join(dir, "image.bin"))
	require.NoError(t, err)
	assert.Equal(t, image, raw)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bin"), 16)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
