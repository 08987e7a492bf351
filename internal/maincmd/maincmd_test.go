package maincmd_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/tacit/internal/filetest"
	"github.com/mna/tacit/internal/maincmd"
	"github.com/mna/tacit/lang/machine"
)

func TestRunFiles(t *testing.T) {
	srcDir := filepath.Join("testdata", "in")
	for _, fi := range filetest.SourceFiles(t, srcDir, ".tac") {
		var buf, ebuf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
		err := maincmd.RunFiles(stdio, machine.Watch, filepath.Join(srcDir, fi.Name()))
		require.NoError(t, err)
		assert.Empty(t, ebuf.String())
		assert.Contains(t, buf.String(), "3")
	}
}

func TestDumpInstructions(t *testing.T) {
	srcDir := filepath.Join("testdata", "in")
	for _, fi := range filetest.SourceFiles(t, srcDir, ".tac") {
		var buf, ebuf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
		err := maincmd.DumpInstructions(stdio, true, filepath.Join(srcDir, fi.Name()))
		require.NoError(t, err)
		assert.Empty(t, ebuf.String())
		out := buf.String()
		assert.Contains(t, out, "; line 0")
		assert.Contains(t, out, "push")
		assert.Contains(t, out, "prim")
	}
}
