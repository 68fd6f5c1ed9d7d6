package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFile_TrimsToRecentLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bidboard.log")

	lf, err := openLogFile(path, 64, 32)
	require.NoError(t, err)
	defer lf.Close()

	for i := 0; i < 10; i++ {
		_, err := lf.Write([]byte("line-" + strings.Repeat("x", 4) + "-" + string(rune('0'+i)) + "\n"))
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.LessOrEqual(t, len(data), 64)
	require.True(t, strings.HasPrefix(string(data), "line-"), "trimmed log starts mid-line: %q", data)
	require.True(t, strings.HasSuffix(string(data), "line-xxxx-9\n"))
}

func TestLogFile_KeepsSmallFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bidboard.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	lf, err := openLogFile(path, maxLogSizeBytes, keepLogSizeBytes)
	require.NoError(t, err)
	_, err = lf.Write([]byte("next\n"))
	require.NoError(t, err)
	require.NoError(t, lf.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "existing\nnext\n", string(data))
}
