package tween

import (
	"errors"
	"math"
	"testing"

	"github.com/decker502/proptween/pkg/property"
	"github.com/decker502/proptween/pkg/types"
	"github.com/decker502/proptween/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionWritesExactDestinationAndFiresOnce(t *testing.T) {
	kinds := []utils.EasingKind{
		utils.EaseKindLinear, utils.EaseKindEaseIn, utils.EaseKindEaseOut,
		utils.EaseKindExponential, utils.EaseKindSmoothstep, utils.EaseKindSmootherstep,
	}

	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			f := newFixture(t)
			f.widget.Pos = types.Vector2{X: 3, Y: -7}
			completed := 0
			c := f.controller([]Descriptor{{
				Name:          "move",
				ComponentType: "Widget",
				PropertyName:  "Pos",
				Value:         types.Vector2Value(0.1, 0.7),
				Duration:      0.37,
				Easing:        kind,
				OnComplete:    []func(){func() { completed++ }},
			}})
			c.Initialize()
			require.NoError(t, c.RunAll(false))

			runToEnd(t, c, 1.0/60, 100)

			assert.Equal(t, types.Vector2{X: 0.1, Y: 0.7}, f.widget.Pos)
			assert.Equal(t, 1, completed)

			// 结束后继续 tick 不会再次回调
			tickN(c, 10, 1.0/60)
			assert.Equal(t, 1, completed)
		})
	}
}

func TestInterpolationFollowsEasing(t *testing.T) {
	f := newFixture(t)
	f.widget.Alpha = 0
	c := f.controller([]Descriptor{{
		ComponentType: "Widget",
		PropertyName:  "Alpha",
		Value:         types.FloatValue(10),
		Duration:      1,
		Easing:        utils.EaseKindExponential,
	}})
	c.Initialize()
	require.NoError(t, c.RunAll(false))

	c.Update(0.5)
	assert.InDelta(t, 2.5, f.widget.Alpha, 1e-12) // 10 * 0.5²

	c.Update(0.25)
	assert.InDelta(t, 5.625, f.widget.Alpha, 1e-12) // 10 * 0.75²
}

func TestCancelledDriverKeepsPartialValueAndSkipsCallback(t *testing.T) {
	f := newFixture(t)
	f.widget.Alpha = 0
	completed := 0
	c := f.controller([]Descriptor{floatState("fade", 1, 1, &completed)})
	c.Initialize()
	require.NoError(t, c.RunAll(false))

	tickN(c, 3, 0.1)
	partial := f.widget.Alpha
	assert.InDelta(t, 0.3, partial, 1e-9)

	c.StopRunning()
	assert.False(t, c.IsAnimating())

	tickN(c, 20, 0.1)
	assert.Equal(t, partial, f.widget.Alpha)
	assert.Equal(t, 0, completed)
}

func TestResetRestoresFirstCapturedBaseline(t *testing.T) {
	tests := []struct {
		name     string
		property string
		setup    func(w *widget)
		dest     []types.Value
		baseline types.Value
	}{
		{
			name:     "float",
			property: "Alpha",
			setup:    func(w *widget) { w.Alpha = 0.25 },
			dest:     []types.Value{types.FloatValue(1), types.FloatValue(0.6)},
			baseline: types.FloatValue(0.25),
		},
		{
			name:     "vector3",
			property: "Pos3",
			setup:    func(w *widget) { w.Pos3 = types.Vector3{X: 1, Y: 2, Z: 3} },
			dest:     []types.Value{types.Vector3Value(10, 10, 10), types.Vector3Value(-5, 0, 5)},
			baseline: types.Vector3Value(1, 2, 3),
		},
		{
			name:     "color",
			property: "Tint",
			setup:    func(w *widget) { w.Tint = types.Color{R: 1, G: 1, B: 1, A: 1} },
			dest:     []types.Value{types.ColorValue(1, 0, 0, 0.5), types.ColorValue(0, 0, 1, 0)},
			baseline: types.ColorValue(1, 1, 1, 1),
		},
		{
			name:     "integer",
			property: "Count",
			setup:    func(w *widget) { w.Count = 7 },
			dest:     []types.Value{types.IntValue(100), types.IntValue(-40)},
			baseline: types.IntValue(7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f.widget)

			descs := make([]Descriptor, 0, len(tt.dest))
			for _, v := range tt.dest {
				descs = append(descs, Descriptor{
					ComponentType: "Widget",
					PropertyName:  tt.property,
					Value:         v,
					Duration:      0.2,
					Easing:        utils.EaseKindSmoothstep,
				})
			}
			c := f.controller(descs, WithResetDuration(0.3), WithResetEasing(utils.EaseKindEaseOut))
			c.Initialize()

			// 依次跑完两段动画，第二段覆盖第一段的结果
			require.NoError(t, c.TriggerOne(0))
			runToEnd(t, c, 1.0/30, 100)
			require.NoError(t, c.TriggerOne(1))
			runToEnd(t, c, 1.0/30, 100)

			b, err := f.registry.Resolve(f.owner, "Widget", tt.property)
			require.NoError(t, err)
			got, err := b.Get()
			require.NoError(t, err)
			require.True(t, got.ApproxEqual(tt.dest[1], 1e-9), "got %v", got)

			require.NoError(t, c.Reset())
			runToEnd(t, c, 1.0/30, 100)

			got, err = b.Get()
			require.NoError(t, err)
			assert.True(t, got.ApproxEqual(tt.baseline, 1e-9), "got %v, want %v", got, tt.baseline)
		})
	}
}

func TestBaselineDeduplication(t *testing.T) {
	f := newFixture(t)
	f.widget.Alpha = 0.4
	c := f.controller([]Descriptor{
		floatState("a", 1, 0.5, nil),
		floatState("b", 0, 0.5, nil),
		{ComponentType: "Widget", PropertyName: "Count", Value: types.IntValue(3), Duration: 1},
	})
	c.Initialize()

	baselines := c.Baselines()
	require.Len(t, baselines, 2)
	assert.Equal(t, BaselineKey{Target: f.owner, ComponentType: "Widget", PropertyName: "Alpha"}, baselines[0].Key)
	assert.Equal(t, types.FloatValue(0.4), baselines[0].Value)
	assert.Equal(t, "Count", baselines[1].Key.PropertyName)

	// 再次 Initialize 不会重新记录（此时值已改变）
	require.NoError(t, c.RunAll(false))
	runToEnd(t, c, 0.1, 100)
	c.Initialize()
	assert.Equal(t, types.FloatValue(0.4), c.Baselines()[0].Value)
}

func TestIntegerInterpolationRoundsEveryTick(t *testing.T) {
	f := newFixture(t)
	f.widget.Count = 0
	c := f.controller([]Descriptor{{
		ComponentType: "Widget",
		PropertyName:  "Count",
		Value:         types.IntValue(100),
		Duration:      1,
		Easing:        utils.EaseKindLinear,
	}})
	c.Initialize()
	require.NoError(t, c.RunAll(false))

	progress := 0.0
	for i := 1; i <= 10; i++ {
		c.Update(0.1)
		progress += 0.1
		want := int(math.Round(100 * math.Min(progress, 1)))
		assert.Equal(t, want, f.widget.Count, "tick %d", i)
		assert.Equal(t, i*10, f.widget.Count, "tick %d", i)
	}

	runToEnd(t, c, 0.1, 5)
	assert.Equal(t, 100, f.widget.Count)
}

func TestRunSubsetOrderAndCancellation(t *testing.T) {
	f := newFixture(t)
	other := f.addWidget(&widget{})
	var fired []string
	record := func(name string) []func() {
		return []func(){func() { fired = append(fired, name) }}
	}

	c := f.controller([]Descriptor{
		{Name: "zero", ComponentType: "Widget", PropertyName: "Alpha", Value: types.FloatValue(0), Duration: 0.2, OnComplete: record("zero")},
		{Name: "one", ComponentType: "Widget", PropertyName: "Count", Value: types.IntValue(50), Duration: 1, OnComplete: record("one")},
		{Name: "two", Target: LinkedTo(other), ComponentType: "Widget", PropertyName: "Pos", Value: types.Vector2Value(5, 5), Duration: 0.2, OnComplete: record("two")},
	})
	c.Initialize()

	require.NoError(t, c.TriggerOne(1))
	c.Update(0.1)
	partial := f.widget.Count
	assert.Equal(t, 5, partial)

	require.NoError(t, c.RunSubset([]int{2, 0}, true))
	running := c.Running()
	require.Len(t, running, 2)
	assert.Equal(t, "two", running[0].Name)
	assert.Equal(t, "zero", running[1].Name)

	runToEnd(t, c, 0.05, 100)
	assert.Equal(t, []string{"two", "zero"}, fired)
	assert.Equal(t, partial, f.widget.Count, "cancelled animation must not keep writing")
}

func TestRunSubsetWithoutStopKeepsRunning(t *testing.T) {
	f := newFixture(t)
	counter := 0
	c := f.controller([]Descriptor{
		floatState("fade", 0, 1, &counter),
		{ComponentType: "Widget", PropertyName: "Count", Value: types.IntValue(10), Duration: 0.5, OnComplete: []func(){func() { counter++ }}},
	})
	c.Initialize()
	require.NoError(t, c.TriggerOne(0))
	require.NoError(t, c.RunSubset([]int{1}, false))
	assert.Len(t, c.Running(), 2)

	runToEnd(t, c, 0.1, 100)
	assert.Equal(t, 2, counter)
}

func TestIndexOutOfRangeIsAnError(t *testing.T) {
	f := newFixture(t)
	counter := 0
	c := f.controller([]Descriptor{floatState("a", 0, 1, &counter), floatState("b", 0.5, 1, &counter)})
	c.Initialize()
	require.NoError(t, c.TriggerOne(0))

	err := c.RunSubset([]int{1, 2}, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	var ie *IndexError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 2, ie.Index)
	assert.Equal(t, 2, ie.Len)

	// 越界时什么都不做：原动画仍在运行，未触发新动画
	running := c.Running()
	require.Len(t, running, 1)
	assert.Equal(t, "a", running[0].Name)

	assert.ErrorIs(t, c.TriggerOne(-1), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.TriggerOne(2), ErrIndexOutOfRange)
}

func TestTriggerBeforeInitialize(t *testing.T) {
	f := newFixture(t)
	c := f.controller([]Descriptor{floatState("a", 0, 1, nil)})

	assert.ErrorIs(t, c.RunAll(false), ErrNotInitialized)
	assert.ErrorIs(t, c.RunSubset([]int{0}, false), ErrNotInitialized)
	assert.ErrorIs(t, c.TriggerOne(0), ErrNotInitialized)
	assert.ErrorIs(t, c.Reset(), ErrNotInitialized)
	assert.False(t, c.IsAnimating())
}

func TestComponentMissingDoesNotAbortBatch(t *testing.T) {
	f := newFixture(t)
	counter := 0
	c := f.controller([]Descriptor{
		{Name: "ghost", ComponentType: "Camera", PropertyName: "Zoom", Value: types.FloatValue(2), Duration: 1},
		{Name: "typo", ComponentType: "Widget", PropertyName: "Alpah", Value: types.FloatValue(2), Duration: 1},
		floatState("ok", 0, 0.2, &counter),
	})
	c.Initialize()
	assert.Len(t, c.Baselines(), 1)

	require.NoError(t, c.RunAll(true))
	running := c.Running()
	require.Len(t, running, 1)
	assert.Equal(t, "ok", running[0].Name)
	assert.Contains(t, f.logs.String(), "ghost")
	assert.Contains(t, f.logs.String(), "typo")

	runToEnd(t, c, 0.1, 100)
	assert.Equal(t, 1, counter)

	issues := c.Diagnose()
	require.Len(t, issues, 2)
	assert.Equal(t, 0, issues[0].Index)
	assert.Equal(t, "ghost", issues[0].Name)
	assert.ErrorIs(t, issues[0].Err, property.ErrComponentMissing)
	assert.Equal(t, "typo", issues[1].Name)

	// 直接调用 TriggerOne 时把解析错误返回给调用方
	err := c.TriggerOne(0)
	assert.ErrorIs(t, err, property.ErrComponentMissing)
	err = c.TriggerOne(1)
	assert.ErrorIs(t, err, property.ErrPropertyMissing)
	assert.False(t, c.IsAnimating())
}

func TestKindMismatchIsNotTriggered(t *testing.T) {
	f := newFixture(t)
	c := f.controller([]Descriptor{
		{Name: "wrong", ComponentType: "Widget", PropertyName: "Alpha", Value: types.IntValue(1), Duration: 1},
	})
	c.Initialize()
	assert.Empty(t, c.Baselines())

	err := c.TriggerOne(0)
	assert.ErrorIs(t, err, property.ErrKindMismatch)
	assert.False(t, c.IsAnimating())
}

func TestNonPositiveDurationCompletesOnFirstTick(t *testing.T) {
	for _, duration := range []float64{0, -1} {
		f := newFixture(t)
		f.widget.Alpha = 0
		counter := 0
		c := f.controller([]Descriptor{floatState("snap", 0.75, duration, &counter)})
		c.Initialize()
		require.NoError(t, c.RunAll(false))

		// 触发本身不写入
		assert.Equal(t, 0.0, f.widget.Alpha)

		c.Update(1.0 / 60)
		assert.Equal(t, 0.75, f.widget.Alpha)
		assert.False(t, math.IsNaN(f.widget.Alpha))
		assert.Equal(t, 1, counter)
		assert.False(t, c.IsAnimating())
	}
}

func TestRetriggerStartsFromCurrentValue(t *testing.T) {
	f := newFixture(t)
	f.widget.Alpha = 0
	c := f.controller([]Descriptor{floatState("rise", 10, 1, nil)})
	c.Initialize()

	require.NoError(t, c.RunAll(false))
	c.Update(0.5)
	assert.InDelta(t, 5, f.widget.Alpha, 1e-12)

	require.NoError(t, c.RunAll(true))
	c.Update(0.5)
	assert.InDelta(t, 7.5, f.widget.Alpha, 1e-12)
}

func TestTargetRemovedMidFlightAbortsSilently(t *testing.T) {
	f := newFixture(t)
	linked := &widget{}
	other := f.addWidget(linked)
	counter := 0
	c := f.controller([]Descriptor{
		{Name: "linked", Target: LinkedTo(other), ComponentType: "Widget", PropertyName: "Alpha", Value: types.FloatValue(1), Duration: 1, OnComplete: []func(){func() { counter++ }}},
		floatState("own", 0, 0.5, &counter),
	})
	c.Initialize()
	require.NoError(t, c.RunAll(false))

	c.Update(0.1)
	assert.InDelta(t, 0.1, linked.Alpha, 1e-12)

	f.em.RemoveEntity(other)
	c.Update(0.1)
	running := c.Running()
	require.Len(t, running, 1)
	assert.Equal(t, "own", running[0].Name)

	runToEnd(t, c, 0.1, 100)
	assert.Equal(t, 1, counter, "only the surviving animation completes")

	// Reset 跳过已不存在的目标，仍然恢复其他属性
	require.NoError(t, c.Reset())
	runToEnd(t, c, 0.1, 100)
	assert.Equal(t, 1.0, f.widget.Alpha)
}

func TestLinkedTargetBaselineKey(t *testing.T) {
	f := newFixture(t)
	other := f.addWidget(&widget{Count: 9})
	c := f.controller([]Descriptor{
		{ComponentType: "Widget", PropertyName: "Count", Value: types.IntValue(1), Duration: 1},
		{Target: LinkedTo(other), ComponentType: "Widget", PropertyName: "Count", Value: types.IntValue(2), Duration: 1},
	})
	c.Initialize()

	baselines := c.Baselines()
	require.Len(t, baselines, 2)
	assert.Equal(t, f.owner, baselines[0].Key.Target)
	assert.Equal(t, other, baselines[1].Key.Target)
	assert.Equal(t, types.IntValue(9), baselines[1].Value)
}

func TestResetUsesResetTimingWithoutCallbacks(t *testing.T) {
	f := newFixture(t)
	f.widget.Alpha = 0
	counter := 0
	c := f.controller([]Descriptor{floatState("up", 1, 0.1, &counter)},
		WithResetDuration(1), WithResetEasing(utils.EaseKindExponential))
	c.Initialize()

	require.NoError(t, c.RunAll(false))
	runToEnd(t, c, 0.1, 10)
	require.Equal(t, 1, counter)

	require.NoError(t, c.Reset())
	c.Update(0.5)
	assert.InDelta(t, 0.75, f.widget.Alpha, 1e-12) // 1 + (0-1) * 0.5²

	runToEnd(t, c, 0.1, 100)
	assert.Equal(t, 0.0, f.widget.Alpha)
	assert.Equal(t, 1, counter, "reset never fires completion callbacks")
}

func TestResetCancelsRunningAnimations(t *testing.T) {
	f := newFixture(t)
	f.widget.Alpha = 0
	counter := 0
	c := f.controller([]Descriptor{floatState("up", 1, 1, &counter)}, WithResetDuration(0.2))
	c.Initialize()
	require.NoError(t, c.RunAll(false))
	c.Update(0.5)

	require.NoError(t, c.Reset())
	running := c.Running()
	require.Len(t, running, 1)
	assert.Equal(t, "reset:Widget.Alpha", running[0].Name)

	runToEnd(t, c, 0.1, 100)
	assert.Equal(t, 0.0, f.widget.Alpha)
	assert.Equal(t, 0, counter)
}

func TestCallbackTriggeredAnimationStartsNextTick(t *testing.T) {
	f := newFixture(t)
	f.widget.Alpha = 0
	f.widget.Count = 0
	var c *Controller
	c = f.controller([]Descriptor{
		{Name: "first", ComponentType: "Widget", PropertyName: "Alpha", Value: types.FloatValue(1), Duration: 0,
			OnComplete: []func(){func() { require.NoError(t, c.TriggerOne(1)) }}},
		{Name: "second", ComponentType: "Widget", PropertyName: "Count", Value: types.IntValue(10), Duration: 1},
	})
	c.Initialize()
	require.NoError(t, c.TriggerOne(0))

	c.Update(0.5)
	assert.Equal(t, 1.0, f.widget.Alpha)
	assert.Equal(t, 0, f.widget.Count, "chained animation must not advance in the tick that spawned it")
	running := c.Running()
	require.Len(t, running, 1)
	assert.Equal(t, "second", running[0].Name)

	c.Update(0.5)
	assert.Equal(t, 5, f.widget.Count)
}

func TestCallbackStoppingOthersCancelsThemThisTick(t *testing.T) {
	f := newFixture(t)
	f.widget.Alpha = 0
	f.widget.Count = 0
	var c *Controller
	c = f.controller([]Descriptor{
		{Name: "stopper", ComponentType: "Widget", PropertyName: "Alpha", Value: types.FloatValue(1), Duration: 0,
			OnComplete: []func(){func() { c.StopRunning() }}},
		{Name: "victim", ComponentType: "Widget", PropertyName: "Count", Value: types.IntValue(10), Duration: 1},
	})
	c.Initialize()
	require.NoError(t, c.RunAll(false))

	c.Update(0.5)
	assert.Equal(t, 0, f.widget.Count)
	assert.False(t, c.IsAnimating())
}

func TestControllerAccessors(t *testing.T) {
	f := newFixture(t)
	descs := []Descriptor{floatState("a", 0, 1, nil)}
	c := f.controller(descs)

	assert.Equal(t, f.owner, c.Owner())
	assert.False(t, c.Initialized())
	c.Initialize()
	assert.True(t, c.Initialized())

	got := c.Descriptors()
	require.Len(t, got, 1)
	got[0].Name = "mutated"
	assert.Equal(t, "a", c.Descriptors()[0].Name, "descriptors are read-only")
}
