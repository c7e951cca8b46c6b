// AngelaMos | 2026
// entity_test.go

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{
		"pending", "under_review", "verified", "rejected", "archived",
	} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, status.String())
	}

	_, err := ParseStatus("approved")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestStringSliceRoundTrip(t *testing.T) {
	tags := StringSlice{"smoke", "industrial", "lahore"}

	value, err := tags.Value()
	require.NoError(t, err)

	var scanned StringSlice
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, tags, scanned)
}

func TestStringSliceScanNil(t *testing.T) {
	var scanned StringSlice
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
}

func TestStringSliceValueNil(t *testing.T) {
	var tags StringSlice

	value, err := tags.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestListReportsParamsNormalize(t *testing.T) {
	p := ListReportsParams{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)

	p = ListReportsParams{Page: 2, PageSize: 10}
	p.Normalize()
	assert.Equal(t, 10, p.Offset())

	p = ListReportsParams{PageSize: 1000}
	p.Normalize()
	assert.Equal(t, 100, p.PageSize)
}
