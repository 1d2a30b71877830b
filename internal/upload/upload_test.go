package upload

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_PreservesIndexOrder(t *testing.T) {
	items := []string{"a", "b", "c", "d"}

	// Later items finish first; results must still line up by request index.
	results, err := All(context.Background(), items, func(ctx context.Context, i int, s string) (string, error) {
		time.Sleep(time.Duration(len(items)-i) * 10 * time.Millisecond)
		return fmt.Sprintf("%s-%d", s, i), nil
	})

	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, fmt.Sprintf("%s-%d", items[i], i), r.Value)
	}
}

func TestAll_FirstErrorWins(t *testing.T) {
	boom := errors.New("boom")
	items := []int{0, 1, 2}

	results, err := All(context.Background(), items, func(ctx context.Context, i int, n int) (int, error) {
		if i == 1 {
			return 0, boom
		}
		return n * 2, nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, results)
}

func TestAll_CancelsSiblingsOnError(t *testing.T) {
	items := []int{0, 1}

	_, err := All(context.Background(), items, func(ctx context.Context, i int, n int) (int, error) {
		if i == 0 {
			return 0, errors.New("fast failure")
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(5 * time.Second):
			return n, nil
		}
	})

	assert.Error(t, err)
}

func TestAll_EmptyInput(t *testing.T) {
	results, err := All(context.Background(), nil, func(ctx context.Context, i int, s string) (string, error) {
		t.Fatal("fn should not be called")
		return "", nil
	})

	assert.NoError(t, err)
	assert.Nil(t, results)
}
