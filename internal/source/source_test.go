package source

import (
	"bufio"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeane/devinsight/internal/domain"
)

func TestCommand_Open_StreamsStdout(t *testing.T) {
	src := &Command{Line: "printf 'one\\ntwo\\n'"}

	reader, err := src.Open(context.Background())
	require.NoError(t, err)
	defer src.Close()

	scanner := bufio.NewScanner(reader)
	require.True(t, scanner.Scan())
	assert.Equal(t, "one", scanner.Text())
	require.True(t, scanner.Scan())
	assert.Equal(t, "two", scanner.Text())
	assert.False(t, scanner.Scan())
}

func TestCommand_Open_Empty(t *testing.T) {
	src := &Command{}
	_, err := src.Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestCommand_Alive(t *testing.T) {
	src := &Command{Line: "sleep 10"}

	// Before Open there is nothing to be alive
	assert.Equal(t, domain.ConnectionDisconnected, src.Alive())

	_, err := src.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ConnectionConnected, src.Alive())

	src.Close()
}

func TestCommand_Close_BeforeOpen(t *testing.T) {
	src := &Command{Line: "true"}
	assert.NoError(t, src.Close())
}

func TestCommand_ContextCancelEndsStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &Command{Line: "sleep 10"}

	reader, err := src.Open(ctx)
	require.NoError(t, err)

	cancel()

	// The pipe drains to EOF once the subprocess is gone
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
	}
	src.Close()
}

func TestStdin(t *testing.T) {
	src := Stdin{}

	reader, err := src.Open(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, reader)
	assert.Equal(t, domain.ConnectionConnected, src.Alive())
	assert.NoError(t, src.Close())
}

func TestADB_Close_BeforeOpen(t *testing.T) {
	src := &ADB{}
	assert.NoError(t, src.Close())
}
