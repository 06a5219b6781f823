package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fingerkin/internal/render"
	"github.com/san-kum/fingerkin/internal/rigid"
	"github.com/san-kum/fingerkin/internal/storage"
	"github.com/san-kum/fingerkin/internal/sweep"
	"github.com/san-kum/fingerkin/internal/trajectory"
	"github.com/san-kum/fingerkin/internal/workspace"
)

func sweepCommand() *cobra.Command {
	var (
		target   []float64
		twist    []float64
		method   string
		samples  int
		dt       float64
		duration float64
		integ    string
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the finger along a joint trajectory or a constant tip twist and save the run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, cfg, err := buildModel(nil)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("target") {
				target = cfg.Sweep.Target
			}
			if !cmd.Flags().Changed("method") {
				method = cfg.Sweep.TimeScaling
			}
			if !cmd.Flags().Changed("samples") {
				samples = cfg.Sweep.Samples
			}
			if !cmd.Flags().Changed("dt") {
				dt = cfg.Sweep.Dt
			}
			if !cmd.Flags().Changed("duration") {
				duration = cfg.Sweep.Duration
			}
			sc := cfg.SweepConfig()
			sc.Dt, sc.Duration = dt, duration
			if cmd.Flags().Changed("integrator") {
				sc.Integrator = integ
			}

			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			runner := sweep.New(m)
			for _, metric := range sweep.DefaultMetrics() {
				runner.AddMetric(metric)
			}

			meta := storage.RunMetadata{Name: cfg.Name, Duration: duration}
			start := time.Now()
			var result *sweep.Result
			if len(twist) > 0 {
				if len(twist) != 6 {
					return fmt.Errorf("twist wants 6 values (wx wy wz vx vy vz), got %d", len(twist))
				}
				var V rigid.Twist
				copy(V[:], twist)
				meta.Kind = "resolved_rate"
				meta.Dt = dt
				logger.Info().Floats64("twist", twist).Float64("dt", dt).Float64("duration", duration).Str("integrator", sc.Integrator).Msg("resolved-rate sweep")
				result, err = runner.RunResolvedRate(ctx, V, sc)
			} else {
				ts, perr := trajectory.ParseMethod(method)
				if perr != nil {
					return perr
				}
				if len(target) == 0 {
					return fmt.Errorf("no sweep target: pass --target or set sweep.target")
				}
				traj, terr := trajectory.JointTrajectory(m.JointAngles(), target, duration, samples, ts)
				if terr != nil {
					return terr
				}
				meta.Kind = "trajectory"
				meta.TimeScaling = ts.String()
				logger.Info().Floats64("target", target).Str("time_scaling", ts.String()).Int("samples", samples).Msg("trajectory sweep")
				result, err = runner.RunTrajectory(ctx, traj)
			}
			if err != nil {
				return err
			}

			runID, err := st.Save(meta, m, result)
			if err != nil {
				return err
			}
			logger.Info().Str("run", runID).Dur("elapsed", time.Since(start)).Msg("sweep saved")

			fmt.Printf("run id: %s\n", runID)
			fmt.Printf("steps: %d\n", result.StepsTaken)
			fmt.Printf("final angles: %s\n", formatFloats(m.JointAngles()))
			printMetrics(result.Metrics)
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&target, "target", nil, "target joint angles")
	cmd.Flags().Float64SliceVar(&twist, "twist", nil, "constant body twist for a resolved-rate sweep")
	cmd.Flags().StringVar(&method, "method", "quintic", "time scaling (cubic, quintic)")
	cmd.Flags().IntVar(&samples, "samples", 50, "trajectory samples")
	cmd.Flags().Float64Var(&dt, "dt", 0.01, "resolved-rate timestep")
	cmd.Flags().Float64Var(&duration, "duration", 1.0, "sweep duration")
	cmd.Flags().StringVar(&integ, "integrator", "rk4", "resolved-rate integrator (rk4, euler)")
	return cmd
}

func printMetrics(metrics map[string]float64) {
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func workspaceCommand() *cobra.Command {
	opts := workspace.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "sample the reachable fingertip workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := buildModel(nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			start := time.Now()
			points, err := workspace.Sample(ctx, m, opts)
			if err != nil {
				return err
			}
			logger.Info().Int("points", len(points)).Int("workers", opts.Workers).Dur("elapsed", time.Since(start)).Msg("workspace sampled")

			lo, hi := workspace.Bounds(points)
			fmt.Printf("points: %d\n", len(points))
			fmt.Printf("x: [%.5f, %.5f]\n", lo[0], hi[0])
			fmt.Printf("y: [%.5f, %.5f]\n", lo[1], hi[1])
			fmt.Printf("reach: %.5f\n", m.Reach())

			if output != "" {
				if err := render.PlotWorkspace(points, output); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", output)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Samples, "samples", opts.Samples, "number of joint configurations")
	cmd.Flags().IntVar(&opts.Workers, "workers", opts.Workers, "parallel workers")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write a scatter plot (png, svg, pdf)")
	return cmd
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tTIME\tJOINTS\tTENDONS\tSTEPS\tDURATION")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.2fs\n",
					run.ID,
					run.Kind,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Joints,
					run.Tendons,
					run.Steps,
					run.Duration,
				)
			}
			return w.Flush()
		},
	}
}

func plotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "terminal plots of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			samples, err := st.LoadSamples(args[0])
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("no data to plot")
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("kind: %s\n", meta.Kind)
			fmt.Printf("samples: %d\n\n", len(samples))

			series := map[string]func(sweep.Sample) float64{
				"tip x":          func(s sweep.Sample) float64 { return s.Tip[0] },
				"tip y":          func(s sweep.Sample) float64 { return s.Tip[1] },
				"manipulability": func(s sweep.Sample) float64 { return s.Manipulability },
			}
			for j := 0; j < meta.Joints; j++ {
				series[fmt.Sprintf("theta%d", j)] = func(s sweep.Sample) float64 { return s.JointAngles[j] }
			}

			names := make([]string, 0, len(series))
			for name := range series {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				data := make([]float64, len(samples))
				for i, s := range samples {
					data[i] = series[name](s)
				}
				graph := asciigraph.Plot(data,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(name),
				)
				fmt.Println(graph)
				fmt.Println()
			}
			return nil
		},
	}
}

func exportSVGCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a saved run's tip path, or the configured pose when no run is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var svg string
			if len(args) == 0 {
				m, _, err := buildModel(nil)
				if err != nil {
					return err
				}
				svg = render.FingerSVG(m.JointPositions(), 600, 600)
			} else {
				st := storage.New(dataDir)
				samples, err := st.LoadSamples(args[0])
				if err != nil {
					return err
				}
				m, err := st.LoadModel(args[0])
				if err != nil {
					return err
				}
				path := make([]rigid.Vec3, len(samples))
				for i, s := range samples {
					path[i] = s.Tip
				}
				svg = render.TipPathSVG(path, m.JointPositions(), 600, 600, "#ff5555")
			}
			if svg == "" {
				return fmt.Errorf("nothing to draw")
			}

			if output == "" {
				fmt.Println(svg)
				return nil
			}
			if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	return cmd
}

func exportPNGCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "write tip path and joint angle plots of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := storage.New(dataDir).LoadSamples(args[0])
			if err != nil {
				return err
			}

			dir := output
			if dir == "" {
				dir = "."
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}

			tipPath := filepath.Join(dir, args[0]+"_tip.png")
			if err := render.PlotTipPath(samples, tipPath); err != nil {
				return err
			}
			jointPath := filepath.Join(dir, args[0]+"_joints.png")
			if err := render.PlotJointAngles(samples, jointPath); err != nil {
				return err
			}
			fmt.Printf("wrote %s\nwrote %s\n", tipPath, jointPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	return cmd
}

func deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.New(dataDir).Delete(args[0]); err != nil {
				return err
			}
			logger.Info().Str("run", args[0]).Msg("run deleted")
			return nil
		},
	}
}
