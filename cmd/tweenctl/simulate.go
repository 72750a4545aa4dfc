// Simulate command steps a scene headlessly and prints property values.
package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/decker502/proptween/internal/valueparse"
	"github.com/decker502/proptween/pkg/config"
	"github.com/decker502/proptween/pkg/scenes"
	"github.com/spf13/cobra"
)

// Simulate flag values.
var (
	simTicks     int
	simTPS       int
	simTimeScale float64
	simRunAll    []string
	simSubsets   []string
	simResetAt   []string
	simEvery     int
	simWatch     []string
	simPointer   []string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scene.yaml>",
	Short: "Step a scene without a window and print property values",
	Long: `Simulate builds the scene, applies the scripted triggers and advances it
by a fixed time step, printing every animatable property of the watched
entities.

Triggers are applied before the update of the tick they name. Tick 0 is the
first update.

Examples:
  tweenctl simulate scene.yaml --run-all button --ticks 30
  tweenctl simulate scene.yaml --subset button=2,0 --reset-at button=20
  tweenctl simulate scene.yaml --pointer-at 0=120,80 --pointer-at 40=-1,-1`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simTicks, "ticks", 60, "number of updates to run")
	simulateCmd.Flags().IntVar(&simTPS, "tps", 0, "ticks per second (default: scene playback, then config)")
	simulateCmd.Flags().Float64Var(&simTimeScale, "time-scale", 0, "time scale (default: scene playback, then config)")
	simulateCmd.Flags().StringArrayVar(&simRunAll, "run-all", nil, "run every state of ENTITY at tick 0 (repeatable)")
	simulateCmd.Flags().StringArrayVar(&simSubsets, "subset", nil, "run states ENTITY=I,J,... at tick 0, stopping running ones (repeatable)")
	simulateCmd.Flags().StringArrayVar(&simResetAt, "reset-at", nil, "reset ENTITY=TICK (repeatable)")
	simulateCmd.Flags().IntVar(&simEvery, "every", 1, "print every N ticks (the last tick is always printed)")
	simulateCmd.Flags().StringArrayVar(&simWatch, "watch", nil, "entities to print (default all)")
	simulateCmd.Flags().StringArrayVar(&simPointer, "pointer-at", nil, "move the pointer at TICK=X,Y (repeatable)")
}

type subsetTrigger struct {
	Entity  string
	Indices []int
}

type resetTrigger struct {
	Entity string
	Tick   int
}

type pointerEvent struct {
	Tick int
	X, Y int
}

// simulationPlan is a fully parsed simulate invocation.
type simulationPlan struct {
	Ticks   int
	DT      float64
	RunAll  []string
	Subsets []subsetTrigger
	Resets  []resetTrigger
	Pointer []pointerEvent
	Every   int
	Watch   []string
}

// scriptedPointer replays pointer positions instead of reading the mouse.
type scriptedPointer struct {
	x, y int
}

func (p *scriptedPointer) CursorPosition() (int, int) {
	return p.x, p.y
}

// offscreenPointer starts far outside any listener bounds.
func offscreenPointer() *scriptedPointer {
	return &scriptedPointer{x: -1 << 20, y: -1 << 20}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	pointer := offscreenPointer()
	scene, err := scenes.LoadTweenScene(args[0], config.NewActionRegistry(), scenes.WithPointerInput(pointer))
	if err != nil {
		return err
	}

	tps, timeScale := scenePlayback(scene, simTPS, simTimeScale)
	plan, err := buildPlan(simTicks, tps, timeScale)
	if err != nil {
		return err
	}
	return simulate(cmd.OutOrStdout(), scene, pointer, plan)
}

// scenePlayback resolves tps and time scale: explicit flags, then the scene's
// playback block, then tweenctl.yaml / TWEENCTL_*, then 60 and 1.
func scenePlayback(scene *scenes.TweenScene, flagTPS int, flagTimeScale float64) (int, float64) {
	p := scene.Playback()
	return playback(
		[]int{flagTPS, p.TPS, settings.TPS},
		[]float64{flagTimeScale, p.TimeScale, settings.TimeScale},
	)
}

// buildPlan parses the trigger flags.
func buildPlan(ticks, tps int, timeScale float64) (simulationPlan, error) {
	plan := simulationPlan{
		Ticks:  ticks,
		RunAll: simRunAll,
		Every:  simEvery,
		Watch:  simWatch,
	}
	if ticks < 0 {
		return plan, fmt.Errorf("--ticks must not be negative, got %d", ticks)
	}
	if tps <= 0 {
		return plan, fmt.Errorf("tps must be positive, got %d", tps)
	}
	if timeScale <= 0 {
		return plan, fmt.Errorf("time scale must be positive, got %v", timeScale)
	}
	plan.DT = timeScale / float64(tps)

	for _, s := range simSubsets {
		t, err := parseSubset(s)
		if err != nil {
			return plan, err
		}
		plan.Subsets = append(plan.Subsets, t)
	}
	for _, s := range simResetAt {
		r, err := parseReset(s)
		if err != nil {
			return plan, err
		}
		plan.Resets = append(plan.Resets, r)
	}
	for _, s := range simPointer {
		e, err := parsePointerEvent(s)
		if err != nil {
			return plan, err
		}
		plan.Pointer = append(plan.Pointer, e)
	}
	return plan, nil
}

// parseSubset parses "entity=2,0".
func parseSubset(s string) (subsetTrigger, error) {
	entity, list, ok := strings.Cut(s, "=")
	if !ok || entity == "" {
		return subsetTrigger{}, fmt.Errorf("invalid subset %q: want ENTITY=I,J", s)
	}
	indices, err := valueparse.ParseIndexList(list)
	if err != nil {
		return subsetTrigger{}, fmt.Errorf("invalid subset %q: %w", s, err)
	}
	if len(indices) == 0 {
		return subsetTrigger{}, fmt.Errorf("invalid subset %q: no indices", s)
	}
	return subsetTrigger{Entity: entity, Indices: indices}, nil
}

// parseReset parses "entity=20".
func parseReset(s string) (resetTrigger, error) {
	entity, tick, ok := strings.Cut(s, "=")
	if !ok || entity == "" {
		return resetTrigger{}, fmt.Errorf("invalid reset %q: want ENTITY=TICK", s)
	}
	n, err := strconv.Atoi(tick)
	if err != nil || n < 0 {
		return resetTrigger{}, fmt.Errorf("invalid reset %q: tick must be a non-negative integer", s)
	}
	return resetTrigger{Entity: entity, Tick: n}, nil
}

// parsePointerEvent parses "tick=x,y".
func parsePointerEvent(s string) (pointerEvent, error) {
	tick, pos, ok := strings.Cut(s, "=")
	if !ok {
		return pointerEvent{}, fmt.Errorf("invalid pointer event %q: want TICK=X,Y", s)
	}
	n, err := strconv.Atoi(tick)
	if err != nil || n < 0 {
		return pointerEvent{}, fmt.Errorf("invalid pointer event %q: tick must be a non-negative integer", s)
	}
	xy, err := valueparse.ParseFloatsN(pos, 2)
	if err != nil {
		return pointerEvent{}, fmt.Errorf("invalid pointer event %q: %w", s, err)
	}
	return pointerEvent{Tick: n, X: int(xy[0]), Y: int(xy[1])}, nil
}

// simulate runs the plan against an already built scene.
func simulate(w io.Writer, scene *scenes.TweenScene, pointer *scriptedPointer, plan simulationPlan) error {
	watch := plan.Watch
	if len(watch) == 0 {
		watch = scene.IDs()
	}
	for _, id := range watch {
		if _, ok := scene.Entity(id); !ok {
			return fmt.Errorf("unknown entity %q", id)
		}
	}

	for _, id := range plan.RunAll {
		c, ok := scene.Controller(id)
		if !ok {
			return fmt.Errorf("entity %q has no animator", id)
		}
		if err := c.RunAll(false); err != nil {
			return fmt.Errorf("run-all %s: %w", id, err)
		}
	}
	for _, t := range plan.Subsets {
		c, ok := scene.Controller(t.Entity)
		if !ok {
			return fmt.Errorf("entity %q has no animator", t.Entity)
		}
		if err := c.RunSubset(t.Indices, true); err != nil {
			return fmt.Errorf("subset %s: %w", t.Entity, err)
		}
	}

	resets := make(map[int][]string)
	for _, r := range plan.Resets {
		if _, ok := scene.Controller(r.Entity); !ok {
			return fmt.Errorf("entity %q has no animator", r.Entity)
		}
		resets[r.Tick] = append(resets[r.Tick], r.Entity)
	}
	moves := append([]pointerEvent(nil), plan.Pointer...)
	sort.SliceStable(moves, func(i, j int) bool { return moves[i].Tick < moves[j].Tick })

	every := plan.Every
	if every <= 0 {
		every = 1
	}

	for tick := 0; tick < plan.Ticks; tick++ {
		for len(moves) > 0 && moves[0].Tick == tick {
			pointer.x, pointer.y = moves[0].X, moves[0].Y
			moves = moves[1:]
		}
		for _, id := range resets[tick] {
			c, _ := scene.Controller(id)
			if err := c.Reset(); err != nil {
				return fmt.Errorf("reset %s: %w", id, err)
			}
		}

		scene.Update(plan.DT)

		if tick%every == 0 || tick == plan.Ticks-1 {
			if err := printSnapshot(w, scene, tick, watch); err != nil {
				return err
			}
		}
	}
	return nil
}

func printSnapshot(w io.Writer, scene *scenes.TweenScene, tick int, watch []string) error {
	for _, id := range watch {
		values, err := scene.Snapshot(id)
		if err != nil {
			return err
		}
		for _, v := range values {
			fmt.Fprintf(w, "tick=%4d t=%.3fs %s %s.%s=%s\n", tick, scene.Elapsed(), id, v.Component, v.Property, v.Value)
		}
	}
	return nil
}
