package finger_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fingerkin/internal/finger"
	"github.com/san-kum/fingerkin/internal/rigid"
)

var _ = Describe("Model", func() {
	var m *finger.Model

	BeforeEach(func() {
		m = finger.NewDefault()
	})

	Describe("joint angles", func() {
		It("returns exactly what was set", func() {
			Expect(m.SetJointAngles([]float64{0.25, -0.5, 0.75})).To(Succeed())
			Expect(m.JointAngles()).To(Equal([]float64{0.25, -0.5, 0.75}))
		})

		It("rejects the wrong count", func() {
			Expect(m.SetJointAngles([]float64{1})).To(MatchError(finger.ErrInvalidDimension))
		})
	})

	Describe("tendon routing", func() {
		It("rejects a matrix that is not tendons x joints", func() {
			Expect(m.SetTendonRoutingMatrix(mat.NewDense(3, 3, nil))).To(MatchError(finger.ErrInvalidDimension))
		})
	})

	Describe("forward kinematics", func() {
		It("agrees between space and body conventions", func() {
			Expect(m.SetJointAngles([]float64{0.7, 0.3, 0.9})).To(Succeed())
			Ts, err := m.ForwardKinematicsSpace()
			Expect(err).NotTo(HaveOccurred())
			Tb, err := m.ForwardKinematicsBody()
			Expect(err).NotTo(HaveOccurred())
			Expect(mat.EqualApprox(Ts, Tb, 1e-12)).To(BeTrue())
		})

		It("places the tip at the home pose with zero angles", func() {
			Ts, err := m.ForwardKinematicsSpace()
			Expect(err).NotTo(HaveOccurred())
			Expect(mat.EqualApprox(Ts, m.HomePosition(), 1e-12)).To(BeTrue())
		})
	})

	Describe("inverse kinematics", func() {
		DescribeTable("reproduces a reachable target",
			func(useBody bool, angles []float64) {
				Expect(m.SetJointAngles(angles)).To(Succeed())
				target, err := m.ForwardKinematicsSpace()
				Expect(err).NotTo(HaveOccurred())

				guess := make([]float64, len(angles))
				for i := range angles {
					guess[i] = angles[i] * 0.7
				}
				Expect(m.SetJointAngles(guess)).To(Succeed())

				var sol finger.Solution
				if useBody {
					sol, err = m.InverseKinematicsBody(target)
				} else {
					sol, err = m.InverseKinematicsSpace(target)
				}
				Expect(err).NotTo(HaveOccurred())

				Expect(m.SetJointAngles(sol.JointAngles)).To(Succeed())
				got, err := m.ForwardKinematicsSpace()
				Expect(err).NotTo(HaveOccurred())
				Expect(mat.EqualApprox(got, target, 1e-6)).To(BeTrue())
			},
			Entry("space, gentle curl", false, []float64{0.3, 0.4, 0.3}),
			Entry("body, gentle curl", true, []float64{0.3, 0.4, 0.3}),
			Entry("space, deep curl", false, []float64{0.9, 1.1, 0.8}),
			Entry("body, deep curl", true, []float64{0.9, 1.1, 0.8}),
		)

		It("fails to converge on an unreachable target", func() {
			Expect(m.SetJointAngles([]float64{0.2, 0.2, 0.2})).To(Succeed())
			_, err := m.InverseKinematicsSpace(rigid.Translation(rigid.Vec3{0, 0, 2}))
			Expect(err).To(MatchError(finger.ErrConvergenceFailure))
		})
	})

	Describe("Jacobians", func() {
		It("are always 6 x joints", func() {
			for _, angles := range [][]float64{{0, 0, 0}, {1, 2, 3}, {-0.4, 0.1, 1.5}} {
				Expect(m.SetJointAngles(angles)).To(Succeed())
				Js, err := m.CalculateFingerSpaceJacobian()
				Expect(err).NotTo(HaveOccurred())
				Jb, err := m.CalculateFingerBodyJacobian()
				Expect(err).NotTo(HaveOccurred())

				r, c := Js.Dims()
				Expect([]int{r, c}).To(Equal([]int{6, 3}))
				r, c = Jb.Dims()
				Expect([]int{r, c}).To(Equal([]int{6, 3}))
			}
		})
	})
})
