package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CherkashinEvgeny/goadvice/example/payment"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	t.Run("runs every scenario with the exception suppressed", func(t *testing.T) {
		out, err := execute(t, "--amount", "5000")

		require.NoError(t, err)
		assert.Contains(t, out, "Payment Starting...")
		assert.Contains(t, out, "Start around Incrementing...")
		assert.Contains(t, out, "total=5000")
		assert.Contains(t, out, "Exception caught")
		assert.Contains(t, out, "invocation error suppressed")
	})

	t.Run("returns the exception when suppression is off", func(t *testing.T) {
		_, err := execute(t, "--suppress=false")

		assert.ErrorIs(t, err, payment.ErrTestException)
	})

	t.Run("reads the config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log:\n  format: json\npayment:\n  amount: 12\n"), 0o600))

		out, err := execute(t, "--config", path)

		require.NoError(t, err)
		assert.Contains(t, out, `"total":12`)
	})

	t.Run("rejects bad flags", func(t *testing.T) {
		_, err := execute(t, "--log-format", "xml")

		assert.Error(t, err)
	})
}
