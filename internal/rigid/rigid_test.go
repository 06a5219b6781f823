package rigid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-9

func rotZ90() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -1, 0,
		1, 0, 0,
		0, 0, 1,
	})
}

func TestVecToSo3(t *testing.T) {
	got := VecToSo3(Vec3{1, 2, 3})
	want := mat.NewDense(3, 3, []float64{
		0, -3, 2,
		3, 0, -1,
		-2, 1, 0,
	})
	assert.True(t, mat.Equal(got, want))
	assert.Equal(t, Vec3{1, 2, 3}, So3ToVec(got))
}

func TestRodrigues(t *testing.T) {
	theta := math.Pi / 2
	omg := Vec3{1, 2, 3}

	got := Rodrigues(omg, theta)

	what := VecToSo3(omg.Normalize())
	var sq, want, term mat.Dense
	sq.Mul(what, what)
	want.CloneFrom(Identity(3))
	term.Scale(math.Sin(theta), what)
	want.Add(&want, &term)
	term.Scale(1-math.Cos(theta), &sq)
	want.Add(&want, &term)

	assert.True(t, mat.EqualApprox(got, &want, tol))
	assert.True(t, IsRotation(got, 1e-9))
}

func TestRodriguesZeroAngle(t *testing.T) {
	assert.True(t, mat.Equal(Identity(3), Rodrigues(Vec3{1, 2, 3}, 0)))
	assert.True(t, mat.Equal(Identity(3), Rodrigues(Vec3{}, 1.0)))
}

func TestRotationLogarithm(t *testing.T) {
	tests := []struct {
		name string
		R    *mat.Dense
		want Vec3
	}{
		{"identity", Identity(3), Vec3{0, 0, 0}},
		{"z quarter turn", rotZ90(), Vec3{0, 0, math.Pi / 2}},
		{"x half turn", mat.NewDense(3, 3, []float64{1, 0, 0, 0, -1, 0, 0, 0, -1}), Vec3{math.Pi, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RotationLogarithm(tt.R)
			assert.InDeltaSlice(t, tt.want[:], got[:], tol)
		})
	}
}

func TestMatrixExp3Log3RoundTrip(t *testing.T) {
	w := Vec3{0.3, -0.4, 1.1}
	R := MatrixExp3(VecToSo3(w))
	got := RotationLogarithm(R)
	assert.InDeltaSlice(t, w[:], got[:], 1e-9)
}

func TestMatrixLog3NearHalfTurn(t *testing.T) {
	axis := Vec3{1, 2, 3}.Normalize()
	for _, theta := range []float64{math.Pi - 1e-7, math.Pi - 3e-8, math.Pi - 1e-10, math.Pi, 2.5} {
		R := Rodrigues(axis, theta)
		got := RotationLogarithm(R)
		assert.InDelta(t, theta, got.Norm(), 1e-6, "theta=%v", theta)

		back := MatrixExp3(VecToSo3(got))
		assert.True(t, mat.EqualApprox(back, R, 1e-9), "theta=%v", theta)
	}
}

func TestMatrixLog6NearHalfTurn(t *testing.T) {
	R := Rodrigues(Vec3{1, 2, 3}, math.Pi-1e-9)
	T := RpToTrans(R, Vec3{0.4, -1, 2})
	back := MatrixExp6(MatrixLog6(T))
	assert.True(t, mat.EqualApprox(back, T, 1e-8))
}

func TestAdjoint(t *testing.T) {
	p := Vec3{1, 2, 3}
	R := rotZ90()
	T := RpToTrans(R, p)

	got := Adjoint(T)

	var pR mat.Dense
	pR.Mul(VecToSo3(p), R)
	want := mat.NewDense(6, 6, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want.Set(i, j, R.At(i, j))
			want.Set(i+3, j+3, R.At(i, j))
			want.Set(i+3, j, pR.At(i, j))
		}
	}
	assert.True(t, mat.EqualApprox(got, want, tol))
}

func TestTransInv(t *testing.T) {
	T := RpToTrans(Rodrigues(Vec3{1, 1, 0}, 0.7), Vec3{0.1, -2, 5})
	var prod mat.Dense
	prod.Mul(T, TransInv(T))
	assert.True(t, mat.EqualApprox(&prod, Identity(4), 1e-12))
}

func TestMatrixExp6(t *testing.T) {
	theta := math.Pi / 2
	w := Vec3{0, 0, 1}
	v := Vec3{0, -2, 0}
	S := NewTwist(w, v)

	got := ScrewExp(S, theta)

	what := VecToSo3(w)
	var sq mat.Dense
	sq.Mul(what, what)
	G := Identity(3)
	G.Scale(theta, G)
	var term mat.Dense
	term.Scale(1-math.Cos(theta), what)
	G.Add(G, &term)
	term.Scale(theta-math.Sin(theta), &sq)
	G.Add(G, &term)
	p := mulVec3(G, v)
	want := RpToTrans(Rodrigues(w, theta), p)

	assert.True(t, mat.EqualApprox(got, want, tol))
	// Rotation of 90 degrees about the z axis through (2, 0, 0).
	assert.InDeltaSlice(t, []float64{2, -2, 0}, []float64{got.At(0, 3), got.At(1, 3), got.At(2, 3)}, tol)
}

func TestMatrixExp6PureTranslation(t *testing.T) {
	got := ScrewExp(PrismaticAxis(Vec3{0, 0, 2}), 0.5)
	assert.True(t, mat.EqualApprox(got, Translation(Vec3{0, 0, 0.5}), tol))
}

func TestMatrixLog6RoundTrip(t *testing.T) {
	S := RevoluteAxis(Vec3{0.2, 0.3, 1}, Vec3{1, -1, 0.5})
	T := ScrewExp(S, 1.2)

	got := Se3ToVec(MatrixLog6(T))
	want := S.Scale(1.2)
	assert.InDeltaSlice(t, want[:], got[:], 1e-9)

	back := MatrixExp6(VecToSe3(got))
	assert.True(t, mat.EqualApprox(back, T, 1e-9))
}

func TestValidateSE3(t *testing.T) {
	require.NoError(t, ValidateSE3(RpToTrans(rotZ90(), Vec3{1, 2, 3}), 1e-9))

	bad := RpToTrans(rotZ90(), Vec3{})
	bad.Set(0, 0, 2)
	assert.ErrorIs(t, ValidateSE3(bad, 1e-9), ErrNotSE3)

	assert.ErrorIs(t, ValidateSE3(Identity(3), 1e-9), ErrShape)

	row := Identity(4)
	row.Set(3, 0, 1)
	assert.ErrorIs(t, ValidateSE3(row, 1e-9), ErrNotSE3)

	nanP := RpToTrans(rotZ90(), Vec3{math.NaN(), 0, 0})
	assert.ErrorIs(t, ValidateSE3(nanP, 1e-9), ErrNotSE3)

	nanRow := Identity(4)
	nanRow.Set(3, 0, math.NaN())
	assert.ErrorIs(t, ValidateSE3(nanRow, 1e-9), ErrNotSE3)

	infP := RpToTrans(rotZ90(), Vec3{0, math.Inf(1), 0})
	assert.ErrorIs(t, ValidateSE3(infP, 1e-9), ErrNotSE3)
}

func TestRevoluteAxis(t *testing.T) {
	S := RevoluteAxis(Vec3{0, 0, 1}, Vec3{3, 0, 0})
	assert.Equal(t, Twist{0, 0, 1, 0, -3, 0}, S)
}
