package jwt

import (
	"testing"
	"time"

	types "readafrik-checkout/internal/common/type"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func admin() types.AdminWithAuth {
	return types.AdminWithAuth{ID: uuid.New(), Email: "ops@readafrik.com", Role: "admin"}
}

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()

	m := New("s3cret", time.Hour)
	want := admin()

	token, exp, err := m.GenerateToken(want)
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *exp, time.Minute)

	got, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestValidateRejectsOtherSecret(t *testing.T) {
	t.Parallel()

	token, _, err := New("one", time.Hour).GenerateToken(admin())
	require.NoError(t, err)

	_, err = New("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	t.Parallel()

	m := New("s3cret", time.Hour)
	m.ttl = -time.Minute
	token, _, err := m.GenerateToken(admin())
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	t.Parallel()

	m := New("", 0)
	_, _, err := m.GenerateToken(admin())
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = m.ValidateToken("anything")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestGenerateRejectsNonAdminRole(t *testing.T) {
	t.Parallel()

	a := admin()
	a.Role = "customer"
	_, _, err := New("s3cret", time.Hour).GenerateToken(a)
	assert.Error(t, err)
}
