package cgen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/scalp/internal/catalog"
	"github.com/danmuck/scalp/internal/protocol"
	"github.com/danmuck/scalp/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicCatalog(t *testing.T) protocol.Catalog {
	t.Helper()
	reg, err := catalog.Build("basic")
	require.NoError(t, err)
	return reg.Catalog()
}

func TestHeaderLayout(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, basicCatalog(t)))
	h := buf.String()

	assert.True(t, strings.HasPrefix(h, "#ifndef __FRAMES_H__\n# define __FRAMES_H__\n"))
	assert.True(t, strings.HasSuffix(h, "#endif\t// __FRAMES_H__\n"))
	assert.Contains(t, h, "# define FRAME_NB_ARGS\t6\n")
	assert.Contains(t, h, "# define FRAME_T_ID_OFFSET\t2\n")
	assert.Contains(t, h, "# define FRAME_ARGV_OFFSET\t5\n")
	assert.Contains(t, h, "\tFR_CONTAINER = 0x00,\n\t// encapsulated several other frames used for event handling\n")
	assert.Contains(t, h, "\tFR_WAIT = 0x0c,\n\t// wait some time given in ms\n")
	assert.Contains(t, h, "\tFR_NULL = 0x05,\n\t// no command\n\t// no arg\n")
	assert.Contains(t, h, "extern u8 frame_set_0(frame_t* fr, u8 dest, u8 orig, fr_cmdes_t cmde);\n")
	assert.Contains(t, h, "extern u8 frame_set_6(frame_t* fr, u8 dest, u8 orig, fr_cmdes_t cmde, u8 argv0, u8 argv1, u8 argv2, u8 argv3, u8 argv4, u8 argv5);\n")
	assert.NotContains(t, h, "frame_set_7")
	assert.NotContains(t, h, MissingDoc)

	// frame_t mirrors the 11-octet wire record, so every member is a u8.
	assert.Contains(t, h, "typedef struct __attribute__((packed)) {\n")
	assert.Contains(t, h, "\tu8 cmde;\t")
	assert.NotContains(t, h, "fr_cmdes_t cmde;")
	assert.Contains(t, h, "\tu8 argv[FRAME_NB_ARGS];")
}

func TestHeaderDefinesByValue(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, basicCatalog(t)))
	h := buf.String()

	block := "// CONTAINER\n# define PRE_0_STORAGE\t0x00\n"
	require.Contains(t, h, block)
	ram := strings.Index(h, "# define RAM_STORAGE\t0xaa")
	eep := strings.Index(h, "# define EEPROM_STORAGE\t0xee")
	flash := strings.Index(h, "# define FLASH_STORAGE\t0xff")
	pre9 := strings.Index(h, "# define PRE_9_STORAGE\t0x09")
	assert.True(t, pre9 < ram && ram < eep && eep < flash)
}

func TestHeaderMissingDoc(t *testing.T) {
	testlog.Start(t)
	reg := protocol.NewRegistry()
	require.NoError(t, reg.RegisterGroup(protocol.Group{Name: "x", Schemas: []protocol.Schema{{Name: "Bare"}}}))
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, reg.Catalog()))
	assert.Contains(t, buf.String(), "\tFR_BARE = 0x00,\n\t// "+MissingDoc+"\n")
}

func TestSourceConstructors(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSource(&buf, basicCatalog(t)))
	c := buf.String()

	assert.True(t, strings.HasPrefix(c, "#include \"fr_cmdes.h\"\n"))
	assert.Equal(t, 7, strings.Count(c, "\treturn OK;\n"))
	assert.Contains(t, c, "u8 frame_set_2(frame_t* fr, u8 dest, u8 orig, fr_cmdes_t cmde, u8 argv0, u8 argv1)\n{\n")
	assert.Contains(t, c, "\tfr->len = 2;\n\tfr->argv[0] = argv0;\n\tfr->argv[1] = argv1;\n\n\treturn OK;\n")
	assert.Contains(t, c, "\tfr->argv[5] = argv5;\n")
}

func TestGenerateWritesFiles(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	h := filepath.Join(dir, "out", "fr_cmdes.h")
	c := filepath.Join(dir, "out", "fr_cmdes.c")
	require.NoError(t, Generate(basicCatalog(t), h, c))

	for _, path := range []string{h, c} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
