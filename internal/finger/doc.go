// Package finger models a single tendon-actuated robotic finger as a serial
// open chain.
//
// A [Model] owns the finger configuration:
//
//   - joint angles in radians, proximal to distal
//   - link lengths in metres, base link first, then one phalanx per joint
//   - the fingertip home pose M and the per-joint screw axes in both the
//     space and body frame
//   - the tendon routing matrix R (tendons x joints), with tendon
//     excursions s = Rθ and joint torques τ = Rᵀf
//
// and computes forward kinematics, inverse kinematics and Jacobians in both
// conventions from it.
//
// # Thread Safety
//
// Model is NOT safe for concurrent use. Pose and Jacobian computations read
// several pieces of state that must stay consistent over a call; use
// [Model.Clone] to give each goroutine its own copy.
package finger
