package browserutil_test

import (
	"os"
	"testing"

	"github.com/mattn/go-isatty"
	"github.com/stretchr/testify/require"

	"github.com/davedittrich/ocd/internal/browserutil"
)

func TestOpen_RefusesWithoutTTY(t *testing.T) {
	t.Parallel()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		t.Skip("stdin is a terminal")
	}

	err := browserutil.Open("https://platform.openai.com/docs", "", false)
	require.ErrorIs(t, err, browserutil.ErrNoTTY)
}

func TestOpen_ForcedWithMissingCommand(t *testing.T) {
	t.Parallel()

	err := browserutil.Open("https://platform.openai.com/docs", "definitely-not-a-browser", true)
	require.Error(t, err)
	require.NotErrorIs(t, err, browserutil.ErrNoTTY)
}
