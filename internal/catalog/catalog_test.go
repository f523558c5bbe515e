package catalog

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[
  {"id": "a", "brand": "Yonex", "model": "Nanoflare 700", "level": "进阶", "style": "进攻型", "stiffness": "中硬", "price": 500},
  {"id": "b", "brand": "Victor", "level": "专业", "style": "控制型", "stiffness": "硬", "price": 1200, "tags": ["head-heavy"]}
]`

func TestParseKeepsTypedAndPassThroughFields(t *testing.T) {
	cat, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	items := cat.Items()
	assert.Equal(t, "进阶", items[0].Level)
	assert.Equal(t, "进攻型", items[0].Style)
	assert.Equal(t, "中硬", items[0].Stiffness)
	assert.Equal(t, 500, items[0].Price)
	assert.Equal(t, "a", items[0].ID())

	brand, ok := items[0].Attr("brand")
	require.True(t, ok)
	assert.JSONEq(t, `"Yonex"`, string(brand))
	_, ok = items[0].Attr("level")
	assert.False(t, ok, "matching attributes are not duplicated in attrs")
}

func TestRacketEncodesAllFields(t *testing.T) {
	cat, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	out, err := json.Marshal(cat.Items()[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b","brand":"Victor","level":"专业","style":"控制型","stiffness":"硬","price":1200,"tags":["head-heavy"]}`, string(out))
}

func TestRacketWithoutAttrsEncodes(t *testing.T) {
	out, err := json.Marshal(Racket{Level: "初学", Style: "全能型", Stiffness: "软", Price: 199})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"初学","style":"全能型","stiffness":"软","price":199}`, string(out))
}

func TestParseRejectsMalformedResources(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{`,
		"not an array":    `{"level":"进阶"}`,
		"missing price":   `[{"level":"进阶","style":"进攻型","stiffness":"中硬"}]`,
		"missing style":   `[{"level":"进阶","stiffness":"中硬","price":1}]`,
		"price as string": `[{"level":"进阶","style":"进攻型","stiffness":"中硬","price":"cheap"}]`,
		"negative price":  `[{"level":"进阶","style":"进攻型","stiffness":"中硬","price":-1}]`,
		"level as number": `[{"level":3,"style":"进攻型","stiffness":"中硬","price":1}]`,
		"null record":     `[null]`,
		"null level":      `[{"level":null,"style":"进攻型","stiffness":"中硬","price":1}]`,
		"null price":      `[{"level":"进阶","style":"进攻型","stiffness":"中硬","price":null}]`,
		"all nulls":       `[{"level":null,"style":null,"stiffness":null,"price":null}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	cat := New([]Racket{{Level: "初学", Price: 100}, {Level: "进阶", Price: 200}})
	items := cat.Items()
	items[0].Level = "changed"

	again := cat.Items()
	require.Len(t, again, 2)
	assert.Equal(t, "初学", again[0].Level)
}

type memStore map[string]string

func (m memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	body, ok := m[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestLoadReadsFromStore(t *testing.T) {
	cat, err := Load(context.Background(), memStore{"data/rackets.json": sampleCatalog}, "data/rackets.json")
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
}

func TestLoadMissingResource(t *testing.T) {
	_, err := Load(context.Background(), memStore{}, "data/rackets.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open catalog data/rackets.json")
}
