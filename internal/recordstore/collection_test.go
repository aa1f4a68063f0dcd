package recordstore

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/mrlokans/readinglog/internal/errors"
	"github.com/mrlokans/readinglog/internal/validation"
)

type item struct {
	ID    string   `json:"id" validate:"required"`
	Name  string   `json:"name" validate:"max=10"`
	Tags  []string `json:"tags"`
	Score *int     `json:"score,omitempty"`
}

func (i item) Key() string { return i.ID }

func setupCollection(t *testing.T) (*Collection[item], *FileBackend) {
	t.Helper()
	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return NewCollection[item](backend, "items", validation.New()), backend
}

func intPtr(v int) *int { return &v }

func TestCollection_LoadMissingDocumentIsEmpty(t *testing.T) {
	coll, _ := setupCollection(t)

	records, err := coll.Load()
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestCollection_RoundTrip(t *testing.T) {
	coll, _ := setupCollection(t)

	records := []item{
		{ID: "b", Name: "second", Tags: []string{"x", "y"}, Score: intPtr(0)},
		{ID: "a", Name: "first", Tags: []string{}},
		{ID: "c", Name: "third", Tags: []string{"z"}, Score: intPtr(5)},
	}
	require.NoError(t, coll.Save(records))

	loaded, err := coll.Load()
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestCollection_SaveReplacesInFull(t *testing.T) {
	coll, _ := setupCollection(t)

	require.NoError(t, coll.Save([]item{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, coll.Save([]item{{ID: "c"}}))

	loaded, err := coll.Load()
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "c"}}, loaded)
}

func TestCollection_SaveRejectsInvalidRecords(t *testing.T) {
	coll, _ := setupCollection(t)
	require.NoError(t, coll.Save([]item{{ID: "keep"}}))

	tests := []struct {
		name    string
		records []item
	}{
		{"missing id", []item{{ID: ""}}},
		{"field too long", []item{{ID: "a", Name: "far too long name"}}},
		{"duplicate key", []item{{ID: "a"}, {ID: "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := coll.Save(tt.records)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

			loaded, err := coll.Load()
			require.NoError(t, err)
			assert.Equal(t, []item{{ID: "keep"}}, loaded, "invalid save must not touch storage")
		})
	}
}

func TestCollection_SaveToUnwritableStorage(t *testing.T) {
	coll, backend := setupCollection(t)
	require.NoError(t, os.RemoveAll(backend.Dir()))

	err := coll.Save([]item{{ID: "a"}})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrIOFailure))
}

func TestCollection_LoadCorruptDocument(t *testing.T) {
	coll, backend := setupCollection(t)
	require.NoError(t, backend.WriteDocument("items", []byte("{not json")))

	_, err := coll.Load()
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrIOFailure))
}

func TestCollection_Mutate(t *testing.T) {
	coll, _ := setupCollection(t)

	err := coll.Mutate(func(records []item) ([]item, error) {
		return append(records, item{ID: "a"}), nil
	})
	require.NoError(t, err)

	errAbort := errors.New("abort")
	err = coll.Mutate(func(records []item) ([]item, error) {
		return nil, errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	loaded, err := coll.Load()
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "a"}}, loaded)
}

func TestCollection_MutateSerializesWriters(t *testing.T) {
	coll, backend := setupCollection(t)
	other := NewCollection[item](backend, "items", nil)

	const writers = 20
	done := make(chan error, writers)
	for i := 0; i < writers; i++ {
		c := coll
		if i%2 == 1 {
			c = other
		}
		id := string(rune('a' + i))
		go func() {
			done <- c.Mutate(func(records []item) ([]item, error) {
				return append(records, item{ID: id}), nil
			})
		}()
	}
	for i := 0; i < writers; i++ {
		require.NoError(t, <-done)
	}

	loaded, err := coll.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, writers)
}
