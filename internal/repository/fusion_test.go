package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuseRRF(t *testing.T) {
	dense := []string{"p1", "p2", "p3"}
	sparse := []string{"p2", "p4", "p1"}

	ids := fuseRRF(dense, sparse, 10)

	// p2 and p1 appear in both lists and beat the single-list candidates;
	// p2's better ranks win overall, and sparse rank 2 puts p4 above p3.
	assert.Equal(t, []string{"p2", "p1", "p4", "p3"}, ids)
}

func TestFuseRRFTopKCap(t *testing.T) {
	dense := []string{"p1", "p2", "p3", "p4"}

	ids := fuseRRF(dense, nil, 2)
	assert.Equal(t, []string{"p1", "p2"}, ids)
}

func TestFuseRRFDeterministicTieBreak(t *testing.T) {
	// Same rank in disjoint lists gives identical scores; ties order
	// lexicographically so repeated searches return the same list.
	ids := fuseRRF([]string{"pb"}, []string{"pa"}, 10)
	assert.Equal(t, []string{"pa", "pb"}, ids)
}

func TestFuseRRFEmptyInputs(t *testing.T) {
	assert.Empty(t, fuseRRF(nil, nil, 10))
	assert.Equal(t, []string{"p1"}, fuseRRF(nil, []string{"p1"}, 10))
}

func TestCellToString(t *testing.T) {
	assert.Equal(t, "", cellToString(nil))
	assert.Equal(t, "Delhi", cellToString([]byte("Delhi")))
	assert.Equal(t, "Delhi", cellToString("Delhi"))
	assert.Equal(t, "42", cellToString(int64(42)))
	assert.Equal(t, "1.5", cellToString(1.5))
}
