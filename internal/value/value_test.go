package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cbarrett/golox/internal/value"
)

func TestTruthy(t *testing.T) {
	require.False(t, value.Truthy(value.NilValue))
	require.False(t, value.Truthy(value.Bool(false)))
	require.True(t, value.Truthy(value.Bool(true)))
	require.True(t, value.Truthy(value.Number(0)))
	require.True(t, value.Truthy(value.String("")))
}

func TestEqualAcrossVariants(t *testing.T) {
	require.True(t, value.Equal(value.NilValue, value.NilValue))
	require.False(t, value.Equal(value.NilValue, value.Bool(false)))
	require.True(t, value.Equal(value.Number(1), value.Number(1)))
	require.False(t, value.Equal(value.Number(1), value.String("1")))
	require.True(t, value.Equal(value.String("a"), value.String("a")))
}

func TestClosureCloneKeepsSuperclass(t *testing.T) {
	super := &value.Class{Name: "Base"}
	c := &value.Closure{Name: "m", Superclass: super}
	clone := c.Clone("m2", true)
	require.Equal(t, super, clone.Superclass)
	require.True(t, clone.IsInitializer)
}
