package docstore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_PointID_Stable(t *testing.T) {
	assert.Equal(t, PointID("press-release.txt", 2), PointID("press-release.txt", 2))
}

func Test_PointID_InjectiveOverSourceAndIndex(t *testing.T) {
	seen := make(map[string]string)
	for _, source := range []string{"press-release.txt", "interview.txt", "notes/interview.txt"} {
		for i := range 10 {
			id := PointID(source, i)
			key := fmt.Sprintf("%s#%d", source, i)
			prev, ok := seen[id]
			assert.False(t, ok, "id collision between %s and %s", prev, key)
			seen[id] = key
		}
	}
}

func Test_Buckets(t *testing.T) {
	var cases = []struct {
		chunks []string
		budget int
		output []bucket
	}{
		{chunks: nil, budget: 10, output: nil},
		{chunks: []string{"abc"}, budget: 0, output: []bucket{{0, 1}}},
		{chunks: []string{"abc", "def"}, budget: 100, output: []bucket{{0, 2}}},
		{
			chunks: []string{"Bananas", "are", "berries", "but", "strawberries", "aren't"},
			budget: 13,
			output: []bucket{{0, 2}, {2, 4}, {4, 5}, {5, 6}},
		},
		{chunks: []string{"way too big for the budget"}, budget: 5, output: []bucket{{0, 1}}},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			assert.Equal(t, c.output, buckets(c.chunks, c.budget))
		})
	}
}
