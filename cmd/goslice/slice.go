package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goslice/pkg/gcode"
	"github.com/philipparndt/goslice/pkg/geometry"
	"github.com/philipparndt/goslice/pkg/mesh"
	"github.com/philipparndt/goslice/pkg/organizer"
	"github.com/philipparndt/goslice/pkg/postprocess"
	"github.com/philipparndt/goslice/pkg/slicer"
	"github.com/philipparndt/goslice/pkg/stl"
	"github.com/philipparndt/goslice/pkg/watcher"
)

var (
	sliceLayerHeight   float64
	sliceWeldTolerance float64
	sliceSimplify      float64
	sliceSeamMode      string
	sliceSeamPoint     []float64
	sliceBrimWidth     float64
	sliceBrimOffsets   int
	sliceRaftOffset    float64
	sliceRaftSpacing   float64
	sliceRaftLayers    int
	sliceVelocity      float64
	sliceZHop          float64
	sliceOutput        string
	sliceNested        bool
	sliceGcodeOutput   string
	sliceProfile       string
	sliceWatch         bool
)

var sliceCmd = &cobra.Command{
	Use:   "slice [file]",
	Short: "Slice an STL file into print paths",
	Long: `Slice an STL file into planar layers, post-process the paths and
export the organized print points as JSON, and optionally as G-code.`,
	Args: cobra.ExactArgs(1),
	RunE: runSlice,
}

func init() {
	rootCmd.AddCommand(sliceCmd)

	sliceCmd.Flags().Float64Var(&sliceLayerHeight, "layer-height", 0.2, "Layer height in mm")
	sliceCmd.Flags().Float64Var(&sliceWeldTolerance, "weld-tolerance", 1e-6, "Distance below which vertices are welded")
	sliceCmd.Flags().Float64Var(&sliceSimplify, "simplify", 0, "Path simplification threshold in mm, 0 disables")
	sliceCmd.Flags().StringVar(&sliceSeamMode, "seam", "next_path", "Seam alignment: next_path, origin, x_axis, y_axis or point")
	sliceCmd.Flags().Float64SliceVar(&sliceSeamPoint, "seam-point", nil, "Seam alignment point as x,y,z")
	sliceCmd.Flags().Float64Var(&sliceBrimWidth, "brim-width", 0, "Brim path width in mm, 0 disables the brim")
	sliceCmd.Flags().IntVar(&sliceBrimOffsets, "brim-offsets", 3, "Number of brim offsets")
	sliceCmd.Flags().Float64Var(&sliceRaftOffset, "raft-offset", 0, "Raft footprint offset in mm, 0 disables the raft")
	sliceCmd.Flags().Float64Var(&sliceRaftSpacing, "raft-spacing", 2, "Distance between raft fill lines in mm")
	sliceCmd.Flags().IntVar(&sliceRaftLayers, "raft-layers", 1, "Number of raft layers")
	sliceCmd.Flags().Float64Var(&sliceVelocity, "velocity", 25, "Print velocity in mm/s")
	sliceCmd.Flags().Float64Var(&sliceZHop, "zhop", 10, "Safety point height above interruptions in mm, 0 disables")
	sliceCmd.Flags().StringVarP(&sliceOutput, "output", "o", "", "JSON output file (default: input file with .json)")
	sliceCmd.Flags().BoolVar(&sliceNested, "nested", false, "Export nested by layer and path instead of flat")
	sliceCmd.Flags().StringVar(&sliceGcodeOutput, "gcode", "", "G-code output file")
	sliceCmd.Flags().StringVar(&sliceProfile, "profile", "", "YAML printer profile for G-code generation")
	sliceCmd.Flags().BoolVar(&sliceWatch, "watch", false, "Re-slice whenever the input file changes")
}

func runSlice(cmd *cobra.Command, args []string) error {
	filename := args[0]

	if err := sliceOnce(filename); err != nil {
		return err
	}
	if !sliceWatch {
		return nil
	}

	fw, err := watcher.New(500 * time.Millisecond)
	if err != nil {
		return err
	}
	defer fw.Close()

	files := []string{filename}
	if sliceProfile != "" {
		files = append(files, sliceProfile)
	}
	err = fw.Watch(files, func(string) {
		if err := sliceOnce(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("Watching %s, press Ctrl-C to stop\n", filename)
	fw.Start()
	select {}
}

func sliceOnce(filename string) error {
	m, err := stlMesh(filename)
	if err != nil {
		return err
	}

	s, err := slicer.NewPlanarSlicer(m, slicer.PlanarConfig{LayerHeight: sliceLayerHeight})
	if err != nil {
		return err
	}
	if err := s.SliceModel(); err != nil {
		return fmt.Errorf("slicing %s: %w", filename, err)
	}
	r := s.Result()

	if err := postProcess(r); err != nil {
		return err
	}
	for _, d := range r.Diagnostics() {
		fmt.Fprintf(os.Stderr, "Warning: [%s] %s\n", d.Code, d.Message)
	}
	open, closed := r.OpenClosedCounts()
	fmt.Printf("Sliced %d layers: %d paths (%d open, %d closed), %d points\n",
		len(r.Layers), len(r.AllPaths()), open, closed, r.TotalPoints())

	o, err := organizer.New(r)
	if err != nil {
		return err
	}
	if err := o.CreatePrintPoints(); err != nil {
		return err
	}
	if err := organizer.SetExtruderToggle(o); err != nil {
		return err
	}
	if err := organizer.SetVelocityConstant(o, sliceVelocity); err != nil {
		return err
	}
	if sliceZHop > 0 {
		if err := organizer.AddSafetyPoints(o, sliceZHop); err != nil {
			return err
		}
	}
	if err := organizer.SetBlendRadius(o, 10, 0.3); err != nil {
		return err
	}

	if sliceGcodeOutput != "" {
		if err := writeGcode(o.Collection()); err != nil {
			return err
		}
	}
	return writeJSON(o, filename)
}

func stlMesh(filename string) (*mesh.Mesh, error) {
	m, err := stl.LoadMesh(filename, sliceWeldTolerance)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}
	return m, nil
}

func postProcess(r *slicer.Result) error {
	if sliceSimplify > 0 {
		if err := postprocess.SimplifyPaths(r, sliceSimplify); err != nil {
			return err
		}
	}

	if sliceBrimWidth > 0 && sliceRaftOffset > 0 {
		return fmt.Errorf("brim and raft cannot be combined, choose one")
	}
	if sliceBrimWidth > 0 {
		if err := postprocess.GenerateBrim(r, sliceBrimWidth, sliceBrimOffsets); err != nil {
			return err
		}
	}
	if sliceRaftOffset > 0 {
		err := postprocess.GenerateRaft(r, postprocess.RaftConfig{
			Offset:               sliceRaftOffset,
			DistanceBetweenPaths: sliceRaftSpacing,
			Layers:               sliceRaftLayers,
		})
		if err != nil {
			return err
		}
	}

	mode, point, err := seamAlignment()
	if err != nil {
		return err
	}
	return postprocess.AlignSeams(r, mode, point)
}

func seamAlignment() (postprocess.AlignMode, geometry.Vector3, error) {
	var point geometry.Vector3
	switch strings.ToLower(sliceSeamMode) {
	case "next_path":
		return postprocess.AlignNextPath, point, nil
	case "origin":
		return postprocess.AlignOrigin, point, nil
	case "x_axis":
		return postprocess.AlignXAxis, point, nil
	case "y_axis":
		return postprocess.AlignYAxis, point, nil
	case "point":
		if len(sliceSeamPoint) != 3 {
			return 0, point, fmt.Errorf("seam mode 'point' needs --seam-point x,y,z")
		}
		point = geometry.NewVector3(sliceSeamPoint[0], sliceSeamPoint[1], sliceSeamPoint[2])
		return postprocess.AlignPoint, point, nil
	}
	return 0, point, fmt.Errorf("unknown seam mode %q", sliceSeamMode)
}

func writeGcode(c *organizer.Collection) error {
	profile := gcode.DefaultProfile()
	if sliceProfile != "" {
		var err error
		profile, err = gcode.LoadProfile(sliceProfile)
		if err != nil {
			return err
		}
	}

	text, err := gcode.Generate(c, profile)
	if err != nil {
		return err
	}
	if err := os.WriteFile(sliceGcodeOutput, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing G-code: %w", err)
	}
	fmt.Printf("Wrote G-code to %s\n", sliceGcodeOutput)
	return nil
}

func writeJSON(o *organizer.Organizer, inputFile string) error {
	var data []byte
	var err error
	if sliceNested {
		data, err = o.ExportNested()
	} else {
		data, err = o.ExportFlat()
	}
	if err != nil {
		return err
	}

	output := sliceOutput
	if output == "" {
		output = strings.TrimSuffix(inputFile, ".stl") + ".json"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing print points: %w", err)
	}
	fmt.Printf("Wrote %d print points to %s\n", o.Collection().NumberOfPoints(), output)
	return nil
}
