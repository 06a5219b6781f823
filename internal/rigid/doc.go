// Package rigid provides rigid-body motion primitives on SO(3) and SE(3).
//
// The package covers the building blocks of exponential-coordinate
// kinematics:
//
//   - [Vec3] and [Twist]: 3-vectors and 6-vector twists ordered (ω, v)
//   - [VecToSo3], [So3ToVec]: skew-symmetric matrix conversions
//   - [Rodrigues], [MatrixExp3], [MatrixLog3]: rotation exponential and log
//   - [RpToTrans], [TransToRp], [TransInv]: homogeneous transforms
//   - [Adjoint], [MatrixExp6], [MatrixLog6]: twist transforms and SE(3) exp/log
//
// Matrices are gonum [mat.Dense] values. Functions panic when handed a
// matrix of the wrong shape, following gonum's own convention; validate
// untrusted input with [ValidateSE3] first.
//
// # Example
//
//	R := rigid.Rodrigues(rigid.Vec3{0, 0, 1}, math.Pi/2)
//	T := rigid.RpToTrans(R, rigid.Vec3{1, 2, 3})
//	Ad := rigid.Adjoint(T)
package rigid
