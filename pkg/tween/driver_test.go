package tween

import (
	"errors"
	"testing"

	"github.com/decker502/proptween/pkg/types"
	"github.com/decker502/proptween/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBinding 记录每次写入的值
type fakeBinding struct {
	value  types.Value
	writes []types.Value
	setErr error
	getErr error
}

func (b *fakeBinding) Kind() types.ValueKind { return b.value.Kind }

func (b *fakeBinding) Get() (types.Value, error) {
	if b.getErr != nil {
		return types.Value{}, b.getErr
	}
	return b.value, nil
}

func (b *fakeBinding) Set(v types.Value) error {
	if b.setErr != nil {
		return b.setErr
	}
	b.value = v
	b.writes = append(b.writes, v)
	return nil
}

func TestDriverLifecycle(t *testing.T) {
	b := &fakeBinding{value: types.FloatValue(0)}
	calls := 0
	d := newDriver("fade", b, types.FloatValue(4), 0.5, utils.EaseKindLinear, []func(){
		func() { calls++ },
		nil,
		func() { calls += 10 },
	})

	assert.Equal(t, DriverPending, d.State())
	assert.False(t, d.Tick(0.1), "pending driver does not advance")
	assert.Empty(t, b.writes)

	require.NoError(t, d.begin())
	assert.Equal(t, DriverRunning, d.State())

	assert.False(t, d.Tick(0.25))
	assert.InDelta(t, 0.5, d.Progress(), 1e-12)
	assert.InDelta(t, 2, b.value.Float, 1e-12)

	assert.True(t, d.Tick(0.25))
	assert.Equal(t, DriverCompleted, d.State())
	assert.Equal(t, 1.0, d.Progress())
	assert.Equal(t, types.FloatValue(4), b.value)
	assert.Equal(t, 11, calls)

	assert.True(t, d.Tick(0.25))
	assert.Equal(t, 11, calls)
	assert.Len(t, b.writes, 2)
}

func TestDriverNegativeDtDoesNotRewind(t *testing.T) {
	b := &fakeBinding{value: types.FloatValue(0)}
	d := newDriver("x", b, types.FloatValue(1), 1, utils.EaseKindLinear, nil)
	require.NoError(t, d.begin())

	d.Tick(0.4)
	d.Tick(-5)
	assert.InDelta(t, 0.4, d.Progress(), 1e-12)
	assert.InDelta(t, 0.4, b.value.Float, 1e-12)
}

// 每条曲线的中间写入都落在起点与终点之间，且单调推进
func TestDriverIntermediateWritesStayInRange(t *testing.T) {
	kinds := []utils.EasingKind{
		utils.EaseKindLinear, utils.EaseKindEaseIn, utils.EaseKindEaseOut,
		utils.EaseKindExponential, utils.EaseKindSmoothstep, utils.EaseKindSmootherstep,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			b := &fakeBinding{value: types.FloatValue(10)}
			d := newDriver("x", b, types.FloatValue(20), 1, kind, nil)
			require.NoError(t, d.begin())

			for !d.Tick(0.07) {
			}
			prev := 10.0
			for _, w := range b.writes {
				assert.GreaterOrEqual(t, w.Float, prev)
				assert.LessOrEqual(t, w.Float, 20.0)
				prev = w.Float
			}
			assert.Equal(t, types.FloatValue(20), b.value)
		})
	}
}

func TestDriverCancel(t *testing.T) {
	b := &fakeBinding{value: types.FloatValue(0)}
	called := false
	d := newDriver("x", b, types.FloatValue(1), 1, utils.EaseKindLinear, []func(){func() { called = true }})
	require.NoError(t, d.begin())
	d.Tick(0.5)

	d.Cancel()
	assert.Equal(t, DriverCancelled, d.State())
	assert.True(t, d.Finished())
	assert.NoError(t, d.Err())

	assert.True(t, d.Tick(1))
	assert.InDelta(t, 0.5, b.value.Float, 1e-12)
	assert.False(t, called)

	// 已完成的驱动器不能被改为取消
	done := newDriver("y", b, types.FloatValue(1), 0, utils.EaseKindLinear, nil)
	require.NoError(t, done.begin())
	done.Tick(0)
	done.Cancel()
	assert.Equal(t, DriverCompleted, done.State())
}

func TestDriverWriteFailureAborts(t *testing.T) {
	gone := errors.New("gone")
	b := &fakeBinding{value: types.FloatValue(0)}
	called := false
	d := newDriver("x", b, types.FloatValue(1), 1, utils.EaseKindLinear, []func(){func() { called = true }})
	require.NoError(t, d.begin())

	b.setErr = gone
	assert.True(t, d.Tick(2))
	assert.Equal(t, DriverCancelled, d.State())
	assert.ErrorIs(t, d.Err(), gone)
	assert.False(t, called)
}

func TestDriverBeginReadFailure(t *testing.T) {
	gone := errors.New("gone")
	b := &fakeBinding{value: types.FloatValue(0), getErr: gone}
	d := newDriver("x", b, types.FloatValue(1), 1, utils.EaseKindLinear, nil)

	assert.ErrorIs(t, d.begin(), gone)
	assert.Equal(t, DriverCancelled, d.State())
	assert.NotEqual(t, d.ID().String(), newDriver("x", b, types.FloatValue(1), 1, utils.EaseKindLinear, nil).ID().String())
}

func TestDriverStateString(t *testing.T) {
	assert.Equal(t, "pending", DriverPending.String())
	assert.Equal(t, "running", DriverRunning.String())
	assert.Equal(t, "completed", DriverCompleted.String())
	assert.Equal(t, "cancelled", DriverCancelled.String())
	assert.Equal(t, "unknown", DriverState(42).String())
}

func TestBaselineTableFirstWins(t *testing.T) {
	table := NewBaselineTable()
	key := BaselineKey{Target: 1, ComponentType: "A", PropertyName: "x"}

	assert.True(t, table.Capture(key, types.FloatValue(1)))
	assert.False(t, table.Capture(key, types.FloatValue(2)))

	v, ok := table.Get(key)
	require.True(t, ok)
	assert.Equal(t, types.FloatValue(1), v)
	assert.True(t, table.Has(key))
	assert.Equal(t, 1, table.Len())

	_, ok = table.Get(BaselineKey{Target: 2, ComponentType: "A", PropertyName: "x"})
	assert.False(t, ok)
}

func TestDescriptorValidate(t *testing.T) {
	ok := Descriptor{ComponentType: "A", PropertyName: "x", Value: types.FloatValue(1)}
	assert.NoError(t, ok.Validate())

	noProp := ok
	noProp.PropertyName = ""
	assert.Error(t, noProp.Validate())

	badLink := ok
	badLink.Target = TargetRef{Linked: true}
	assert.Error(t, badLink.Validate())

	assert.Equal(t, "A.x", ok.label())
}
