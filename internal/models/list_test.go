package models

import (
	"encoding/json"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPage_NextCursor(t *testing.T) {
	last := "vs_3"

	tests := []struct {
		name string
		page ListPage[openai.VectorStore]
		want string
	}{
		{"has more", ListPage[openai.VectorStore]{HasMore: true, LastID: &last}, "vs_3"},
		{"last page", ListPage[openai.VectorStore]{HasMore: false, LastID: &last}, ""},
		{"no last id", ListPage[openai.VectorStore]{HasMore: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.page.NextCursor())
		})
	}
}

func TestListPage_Decode(t *testing.T) {
	raw := `{"object":"list","data":[{"id":"vs_1","name":"a"},{"id":"vs_2","name":"b"}],"first_id":"vs_1","last_id":"vs_2","has_more":true}`

	var page ListPage[openai.VectorStore]
	require.NoError(t, json.Unmarshal([]byte(raw), &page))

	require.Len(t, page.Data, 2)
	assert.Equal(t, "vs_2", page.NextCursor())
	assert.Equal(t, "b", page.Data[1].Name)
}

func TestNewExpiresAfter(t *testing.T) {
	assert.Nil(t, NewExpiresAfter(nil))

	days := 7
	policy := NewExpiresAfter(&days)
	require.NotNil(t, policy)
	assert.Equal(t, "last_active_at", policy.Anchor)
	assert.Equal(t, 7, policy.Days)
}

func TestModifyVectorStoreRequest_OmitsUnset(t *testing.T) {
	name := "renamed"
	out, err := json.Marshal(ModifyVectorStoreRequest{Name: &name})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"renamed"}`, string(out))
}
