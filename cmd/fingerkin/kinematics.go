package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fingerkin/internal/finger"
	"github.com/san-kum/fingerkin/internal/rigid"
)

func fkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fk [theta...]",
		Short: "forward kinematics of the fingertip",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := buildModel(args)
			if err != nil {
				return err
			}

			Ts, err := m.ForwardKinematicsSpace()
			if err != nil {
				return err
			}
			Tb, err := m.ForwardKinematicsBody()
			if err != nil {
				return err
			}

			fmt.Printf("joint angles: %s\n", formatFloats(m.JointAngles()))
			fmt.Println("\nfingertip pose (space):")
			printMatrix(Ts)

			var diff mat.Dense
			diff.Sub(Ts, Tb)
			fmt.Printf("\nspace/body difference: %.3e\n", mat.Norm(&diff, math.Inf(1)))

			fmt.Println("\njoint positions:")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "POINT\tX\tY\tZ")
			points := m.JointPositions()
			for i, p := range points {
				label := fmt.Sprintf("joint %d", i-1)
				switch i {
				case 0:
					label = "base"
				case len(points) - 1:
					label = "tip"
				}
				fmt.Fprintf(w, "%s\t%.5f\t%.5f\t%.5f\n", label, p[0], p[1], p[2])
			}
			return w.Flush()
		},
	}
}

func ikCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ik x y [phi]",
		Short: "inverse kinematics to a planar fingertip target",
		Long: "Solves for joint angles placing the fingertip at (x, y) in the flexion plane\n" +
			"with orientation phi about z. The current joint angles are the initial guess.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := parseFloats(args)
			if err != nil {
				return err
			}
			body, err := bodyFrame()
			if err != nil {
				return err
			}
			m, _, err := buildModel(nil)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("initial") {
				if err := m.SetJointAngles(initial); err != nil {
					return err
				}
			}

			phi := 0.0
			if len(vals) == 3 {
				phi = vals[2]
			}
			target := planarPose(vals[0], vals[1], phi)

			var sol finger.Solution
			if body {
				sol, err = m.InverseKinematicsBody(target)
			} else {
				sol, err = m.InverseKinematicsSpace(target)
			}
			logger.Debug().
				Int("iterations", sol.Iterations).
				Float64("angular_error", sol.AngularError).
				Float64("linear_error", sol.LinearError).
				Msg("ik finished")
			if err != nil {
				return err
			}

			fmt.Printf("converged in %d iterations (ω err %.2e, v err %.2e)\n", sol.Iterations, sol.AngularError, sol.LinearError)
			fmt.Printf("joint angles: %s\n", formatFloats(sol.JointAngles))
			return nil
		},
	}
	cmd.Flags().StringVar(&frame, "frame", "space", "frame of the error twist (space, body)")
	cmd.Flags().Float64SliceVar(&initial, "initial", nil, "initial joint angles")
	return cmd
}

func planarPose(x, y, phi float64) *mat.Dense {
	return rigid.RpToTrans(rigid.Rodrigues(rigid.Vec3{0, 0, 1}, phi), rigid.Vec3{x, y, 0})
}

func jacobianCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jacobian [theta...]",
		Short: "space or body Jacobian and manipulability",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := bodyFrame()
			if err != nil {
				return err
			}
			m, _, err := buildModel(args)
			if err != nil {
				return err
			}

			var J *mat.Dense
			if body {
				J, err = m.CalculateFingerBodyJacobian()
			} else {
				J, err = m.CalculateFingerSpaceJacobian()
			}
			if err != nil {
				return err
			}
			w, err := m.Manipulability()
			if err != nil {
				return err
			}

			fmt.Printf("%s jacobian at %s:\n", frame, formatFloats(m.JointAngles()))
			printMatrix(J)
			fmt.Printf("\nmanipulability: %.6e\n", w)
			return nil
		},
	}
	cmd.Flags().StringVar(&frame, "frame", "space", "jacobian frame (space, body)")
	return cmd
}

func tendonCommand() *cobra.Command {
	var tensions, torques []float64
	cmd := &cobra.Command{
		Use:   "tendon [theta...]",
		Short: "tendon routing, excursions and force mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := buildModel(args)
			if err != nil {
				return err
			}

			fmt.Println("routing matrix (tendons x joints):")
			printMatrix(m.TendonRoutingMatrix())
			fmt.Printf("\nexcursions: %s\n", formatFloats(m.TendonExcursions()))

			if len(tensions) > 0 {
				tau, err := m.JointTorques(tensions)
				if err != nil {
					return err
				}
				fmt.Printf("joint torques for tensions %s: %s\n", formatFloats(tensions), formatFloats(tau))
			}
			if len(torques) > 0 {
				f, err := m.TendonTensions(torques)
				if err != nil {
					return err
				}
				fmt.Printf("minimum-norm tensions for torques %s: %s\n", formatFloats(torques), formatFloats(f))
				for _, v := range f {
					if v < 0 {
						logger.Warn().Msg("tension solution pushes on a tendon; add internal tension")
						break
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&tensions, "tensions", nil, "tendon tensions to map to joint torques")
	cmd.Flags().Float64SliceVar(&torques, "torques", nil, "joint torques to map to tendon tensions")
	return cmd
}

func printMatrix(m mat.Matrix) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			fmt.Fprintf(w, "%.6f\t", m.At(i, j))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func formatFloats(v []float64) string {
	return fmt.Sprintf("%.4f", v)
}
