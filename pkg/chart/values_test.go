package chart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helm.sh/helm/v3/pkg/chartutil"
)

func TestParseValues(t *testing.T) {
	t.Run("mapping", func(t *testing.T) {
		vals, err := ParseValues("replicaCount: 2\nimage:\n  repository: nginx\n")
		require.NoError(t, err)
		assert.EqualValues(t, 2, vals["replicaCount"])

		image, err := vals.Table("image")
		require.NoError(t, err)
		assert.Equal(t, "nginx", image["repository"])
	})

	t.Run("empty text is an empty document", func(t *testing.T) {
		vals, err := ParseValues("")
		require.NoError(t, err)
		assert.NotNil(t, vals)
		assert.Empty(t, vals)
	})

	for name, text := range map[string]string{
		"sequence":  "- a\n- b\n",
		"scalar":    "just text",
		"malformed": "key: [unclosed\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseValues(text)
			require.Error(t, err)
			var parseErr *YAMLParseError
			assert.True(t, errors.As(err, &parseErr))
		})
	}
}

func TestSerializeValues(t *testing.T) {
	vals, err := ParseValues("replicaCount: 2\nimage:\n  repository: nginx\n")
	require.NoError(t, err)

	out, err := SerializeValues(vals)
	require.NoError(t, err)
	assert.Equal(t, "image:\n  repository: nginx\nreplicaCount: 2\n", string(out))

	empty, err := SerializeValues(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(empty))
}

func TestValuesRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a: 1\n",
		"service:\n  type: ClusterIP\n  ports:\n    - 80\n    - 443\ningress:\n  enabled: false\n",
		"annotations:\n  example.com/key: \"true\"\nlist: []\n",
	}

	for _, in := range inputs {
		vals, err := ParseValues(in)
		require.NoError(t, err)

		first, err := SerializeValues(vals)
		require.NoError(t, err)

		reread, err := chartutil.ReadValues(first)
		require.NoError(t, err)

		second, err := SerializeValues(reread)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second), "input %q", in)
	}
}
