package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	cases := []struct {
		op       CombineOp
		args     []int64
		want     int64
		wantErr  error
	}{
		{OpIdentity, []int64{5}, 5, nil},
		{OpAdd, []int64{2, 3}, 5, nil},
		{OpSub, []int64{5, 3}, 2, nil},
		{OpMul, []int64{4, 3}, 12, nil},
		{OpDiv, []int64{10, 2}, 5, nil},
		{OpDiv, []int64{10, 0}, 0, ErrDivideByZero},
		{CombineOp("xor"), []int64{1, 2}, 0, ErrUnknownOperator},
		{OpAdd, []int64{1}, 0, ErrInvalidOperatorArity},
	}

	for _, tc := range cases {
		got, err := Apply(tc.op, tc.args...)
		if tc.wantErr != nil {
			assert.ErrorIs(t, err, tc.wantErr)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestCombineOp_Arity(t *testing.T) {
	assert.Equal(t, 1, OpIdentity.Arity())
	assert.Equal(t, 2, OpAdd.Arity())
}

func TestCombineOp_Valid(t *testing.T) {
	assert.True(t, OpAdd.Valid())
	assert.False(t, CombineOp("nope").Valid())
}
