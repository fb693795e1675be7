package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stereosearch/stereo/internal/core/domain"
)

func TestDeleteCmd_Use(t *testing.T) {
	cmd := newDeleteCmd(NewApp())
	assert.Equal(t, "delete [path]", cmd.Use)
	assert.Equal(t, "Remove a document from the index", cmd.Short)
}

func TestDeleteCmd_RequiresArg(t *testing.T) {
	_, err := executeCmd(newTestApp(&mockIndexer{}, nil), "delete")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDeleteCmd_Deletes(t *testing.T) {
	indexer := &mockIndexer{}

	out, err := executeCmd(newTestApp(indexer, nil), "delete", "src/auth.go")

	require.NoError(t, err)
	assert.Equal(t, []string{"src/auth.go"}, indexer.deletes)
	assert.Contains(t, out, "Deleted src/auth.go from the index.")
}

func TestDeleteCmd_NotIndexed(t *testing.T) {
	indexer := &mockIndexer{deleteErr: domain.ErrNotFound}

	_, err := executeCmd(newTestApp(indexer, nil), "delete", "ghost.go")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost.go is not indexed")
}

func TestDeleteCmd_ServiceError(t *testing.T) {
	indexer := &mockIndexer{deleteErr: errors.New("qdrant down")}

	_, err := executeCmd(newTestApp(indexer, nil), "delete", "src/auth.go")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete failed")
}

func TestDropCollectionCmd_WithYesFlag(t *testing.T) {
	indexer := &mockIndexer{}

	out, err := executeCmd(newTestApp(indexer, nil), "drop-collection", "--yes")

	require.NoError(t, err)
	assert.True(t, indexer.dropped)
	assert.Contains(t, out, "Collection dropped.")
}

func TestDropCollectionCmd_PromptAccepts(t *testing.T) {
	indexer := &mockIndexer{}
	app := newTestApp(indexer, nil)

	buf := new(bytes.Buffer)
	root := NewRootCmd(app)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader("y\n"))
	root.SetArgs([]string{"drop-collection"})

	require.NoError(t, root.Execute())
	assert.True(t, indexer.dropped)
	assert.Contains(t, buf.String(), "Collection dropped.")
}

func TestDropCollectionCmd_PromptAborts(t *testing.T) {
	indexer := &mockIndexer{}
	app := newTestApp(indexer, nil)

	buf := new(bytes.Buffer)
	root := NewRootCmd(app)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader("n\n"))
	root.SetArgs([]string{"drop-collection"})

	require.NoError(t, root.Execute())
	assert.False(t, indexer.dropped)
	assert.Contains(t, buf.String(), "Aborted.")
}

func TestDropCollectionCmd_ServiceError(t *testing.T) {
	indexer := &mockIndexer{dropErr: errors.New("qdrant down")}

	_, err := executeCmd(newTestApp(indexer, nil), "drop-collection", "--yes")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "drop collection failed")
}
