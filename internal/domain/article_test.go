package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleJSONParentArticleID(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(Article{ID: "o1", Title: "T", VersionType: VersionOriginal})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	value, present := fields["parentArticleId"]
	assert.True(t, present)
	assert.Nil(t, value)
	assert.Equal(t, "T", fields["title"])
	assert.Equal(t, "original", fields["versionType"])

	raw, err = json.Marshal(&Article{ID: "e1", VersionType: VersionEnhanced, ParentArticleID: "o1"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"parentArticleId":"o1"`)

	var decoded Article
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "o1", decoded.ParentArticleID)
}
