package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

func TestResultRegistry(t *testing.T) {
	r := NewResultRegistry(nil)
	assert.Equal(t, []string{"Applied", "Interview", "Offer", "Rejected", "Ghosted"}, r.Values())
	assert.True(t, r.Contains("Offer"))
	assert.False(t, r.Contains("offer"))

	custom := NewResultRegistry([]string{"Applied", " ", "Screen", "Applied"})
	assert.Equal(t, []string{"Applied", "Screen"}, custom.Values())
	assert.Equal(t, 2, custom.Len())

	values := custom.Values()
	values[0] = "changed"
	assert.Equal(t, "Applied", custom.Values()[0], "registry must not be mutable through Values")
}

func TestResultRegistryCheck(t *testing.T) {
	r := NewResultRegistry(nil)

	unknown, err := r.Check(PolicyLenient, entity.Fields{"result": "Phone screen"})
	require.NoError(t, err)
	assert.Equal(t, "Phone screen", unknown)

	unknown, err = r.Check(PolicyLenient, entity.Fields{"result": "Offer"})
	require.NoError(t, err)
	assert.Empty(t, unknown)

	_, err = r.Check(PolicyStrict, entity.Fields{"result": "Phone screen"})
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
	assert.Equal(t, "result must be one of [Applied, Interview, Offer, Rejected, Ghosted]", common.Message(err))

	for _, fields := range []entity.Fields{{}, {"result": nil}, {"result": ""}, {"company": "Acme"}} {
		_, err := r.Check(PolicyStrict, fields)
		assert.NoError(t, err)
	}
}

func TestParseResultPolicy(t *testing.T) {
	p, err := ParseResultPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyLenient, p)

	p, err = ParseResultPolicy(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParseResultPolicy("sometimes")
	assert.Error(t, err)
}
