package times

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noProbe(t *testing.T) Probe {
	t.Helper()
	return func(path string) (Triple, bool) {
		t.Fatalf("unexpected live probe of %s", path)
		return Triple{}, false
	}
}

func fixedProbe(tr Triple) Probe {
	return func(string) (Triple, bool) { return tr, true }
}

func missingProbe(string) (Triple, bool) { return Triple{}, false }

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"current", "symlink", "target", "preserve-all"} {
		s, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, Strategy(name), s)
	}
	_, err := ParseStrategy("birth")
	assert.Error(t, err)
}

func TestResolveCurrentIsNoop(t *testing.T) {
	src := Sources{
		Link:   Triple{Modified: Stamp(10)},
		Target: Triple{Modified: Stamp(20)},
	}
	_, ok := Resolve(src, StrategyCurrent, true, noProbe(t))
	assert.False(t, ok)
}

func TestResolveSymlink(t *testing.T) {
	src := Sources{Link: Triple{Modified: Stamp(10)}}
	res, ok := Resolve(src, StrategySymlink, false, noProbe(t))
	require.True(t, ok)
	assert.Equal(t, float64(10), *res.Triple.Modified)
	assert.Equal(t, "recorded link", res.Source)

	_, ok = Resolve(Sources{}, StrategySymlink, false, noProbe(t))
	assert.False(t, ok)
}

func TestResolveTargetPrefersLive(t *testing.T) {
	src := Sources{
		Target:      Triple{Modified: Stamp(200)},
		TargetPaths: []string{"/data/file"},
	}
	res, ok := Resolve(src, StrategyTarget, true, fixedProbe(Triple{Modified: Stamp(100)}))
	require.True(t, ok)
	assert.Equal(t, float64(100), *res.Triple.Modified)
	assert.Equal(t, "live target", res.Source)
}

func TestResolveTargetPrefersStoredWithoutLiveFlag(t *testing.T) {
	src := Sources{
		Target:      Triple{Modified: Stamp(200)},
		TargetPaths: []string{"/data/file"},
	}
	res, ok := Resolve(src, StrategyTarget, false, fixedProbe(Triple{Modified: Stamp(100)}))
	require.True(t, ok)
	assert.Equal(t, float64(200), *res.Triple.Modified)
	assert.Equal(t, "recorded target", res.Source)
}

func TestResolveTargetFallsBackToLive(t *testing.T) {
	src := Sources{TargetPaths: []string{"/data/file"}}
	res, ok := Resolve(src, StrategyTarget, false, fixedProbe(Triple{Modified: Stamp(100)}))
	require.True(t, ok)
	assert.Equal(t, "live target", res.Source)
}

func TestResolveTargetExhausted(t *testing.T) {
	src := Sources{TargetPaths: []string{"/gone"}}
	_, ok := Resolve(src, StrategyTarget, true, missingProbe)
	assert.False(t, ok)
}

func TestResolvePreserveAllFallsBackToLink(t *testing.T) {
	src := Sources{
		Link:        Triple{Modified: Stamp(50)},
		TargetPaths: []string{"/gone"},
	}
	res, ok := Resolve(src, StrategyPreserveAll, true, missingProbe)
	require.True(t, ok)
	assert.Equal(t, float64(50), *res.Triple.Modified)
	assert.Equal(t, "recorded link", res.Source)
}

func TestResolveSkipsUnusableProbeResults(t *testing.T) {
	probed := []string{}
	probe := func(p string) (Triple, bool) {
		probed = append(probed, p)
		if p == "/second" {
			return Triple{Modified: Stamp(7)}, true
		}
		// A reading with no modification time is unusable even when the
		// probe itself succeeds.
		return Triple{Created: Stamp(1)}, true
	}
	src := Sources{TargetPaths: []string{"/first", "/second"}}
	res, ok := Resolve(src, StrategyTarget, true, probe)
	require.True(t, ok)
	assert.Equal(t, []string{"/first", "/second"}, probed)
	assert.Equal(t, float64(7), *res.Triple.Modified)
}
