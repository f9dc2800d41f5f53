package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

func structure(name, predecessor string) types.Structure {
	return types.Structure{
		Name:        name,
		Product:     types.ProductQuotaShare,
		Predecessor: predecessor,
		ClaimBasis:  types.ClaimBasisLossOccurring,
		Inception:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Expiry:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildOrdersPredecessorsFirst(t *testing.T) {
	// Declared out of topological order on purpose.
	g, err := Build([]types.Structure{
		structure("xol", "qs"),
		structure("qs", ""),
	})
	require.NoError(t, err)

	order := g.Order()
	require.Len(t, order, 2)
	assert.Equal(t, "qs", g.Structure(order[0]).Name)
	assert.Equal(t, "xol", g.Structure(order[1]).Name)
	assert.Equal(t, NoPredecessor, g.Predecessor(order[0]))
}

func TestBuildKeepsDeclarationOrderForIndependentChains(t *testing.T) {
	g, err := Build([]types.Structure{
		structure("a", ""),
		structure("b", ""),
		structure("c", "a"),
	})
	require.NoError(t, err)

	names := make([]string, 0, g.Len())
	for _, idx := range g.Order() {
		names = append(names, g.Structure(idx).Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestBuildSharedPredecessor(t *testing.T) {
	g, err := Build([]types.Structure{
		structure("qs", ""),
		structure("layer1", "qs"),
		structure("layer2", "qs"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, g.Predecessor(1), g.Predecessor(2))
}

func TestBuildRejectsDanglingPredecessor(t *testing.T) {
	_, err := Build([]types.Structure{
		structure("xol", "ghost"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
	assert.Contains(t, err.Error(), "ghost")
}

func TestBuildRejectsSelfReference(t *testing.T) {
	_, err := Build([]types.Structure{
		structure("loop", "loop"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loop")
}

func TestBuildRejectsCycle(t *testing.T) {
	_, err := Build([]types.Structure{
		structure("a", "b"),
		structure("b", "a"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuildRejectsDuplicateNames(t *testing.T) {
	_, err := Build([]types.Structure{
		structure("qs", ""),
		structure("qs", ""),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}
