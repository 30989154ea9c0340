package repository

import (
	"reflect"
	"testing"

	"github.com/icrowley/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	criteria "github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/mapping"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/utils/testentities"
)

func TestTyped(t *testing.T) {
	repo, err := NewTyped[testentities.User](newRepository(t, userType))
	require.NoError(t, err)

	ann := testentities.NewUserWithId(1, fake.EmailAddress(), "Ann")
	bob := testentities.NewUserWithId(2, fake.EmailAddress(), "Bob")
	require.NoError(t, repo.Manage(ann))
	require.NoError(t, repo.Manage(bob))

	found, err := repo.Find(2)
	require.NoError(t, err)
	assert.Same(t, bob, found.Unwrap())

	missing, err := repo.Find(3)
	require.NoError(t, err)
	assert.True(t, missing.IsNothing())

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Equal(t, []*testentities.User{ann, bob}, all)

	sorted, err := repo.FindBy(nil, OrderBy("lastName", "desc"))
	require.NoError(t, err)
	assert.Equal(t, []*testentities.User{bob, ann}, sorted)

	one, err := repo.FindOneBy(map[string]any{"lastName": "Ann"})
	require.NoError(t, err)
	assert.Same(t, ann, one.Unwrap())

	matched, err := repo.Matching(criteria.New().Where(criteria.StartsWith("lastName", "B")))
	require.NoError(t, err)
	assert.Equal(t, []*testentities.User{bob}, matched)

	n, err := repo.Count(map[string]any{"id": []int{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	repo.Remove(ann)
	assert.Equal(t, []any{bob}, repo.Untyped().Entities())

	_, err = repo.FindBy(map[string]any{"notAColumn": 1})
	assert.ErrorIs(t, err, mapping.ErrUnmappedField)
}

func TestNewTypedRejectsOtherTypes(t *testing.T) {
	_, err := NewTyped[testentities.Node](newRepository(t, reflect.TypeOf(testentities.User{})))
	assert.ErrorIs(t, err, mapping.ErrTypeMismatch)
}
