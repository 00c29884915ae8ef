package lanes

import (
	"errors"
	"fmt"
	"github.com/xor-shift/lanerand/common"
	"github.com/xor-shift/lanerand/rng"
	"runtime"
	"sync"
	"time"
)

type drawFunc func(*rng.State) [4]float64

func drawFuncFor(distribution, precision string) (drawFunc, error) {
	switch distribution {
	case "uniform":
		switch precision {
		case "f64":
			return func(state *rng.State) [4]float64 {
				return [4]float64(state.Rand4())
			}, nil
		case "f32":
			return func(state *rng.State) [4]float64 {
				v := state.FRand4()
				return [4]float64{float64(v[0]), float64(v[1]), float64(v[2]), float64(v[3])}
			}, nil
		}
	case "normal":
		switch precision {
		case "f64":
			return func(state *rng.State) [4]float64 {
				return [4]float64(state.Randn4())
			}, nil
		case "f32":
			return func(state *rng.State) [4]float64 {
				v := state.FRandn4()
				return [4]float64{float64(v[0]), float64(v[1]), float64(v[2]), float64(v[3])}
			}, nil
		}
	}

	return nil, errors.New(fmt.Sprintf("no such distribution/precision pair: %s/%s", distribution, precision))
}

// Run draws every lane of a job to completion and reports per-lane and merged
// moments. Lanes are handed out to a small worker pool; each lane's stream
// only depends on its own lane ID, so the report is the same regardless of
// which worker draws it.
func Run(spec common.MomentsSpec) (common.RunReport, error) {
	started := time.Now()

	if spec.Lanes == 0 {
		return common.RunReport{}, errors.New("a run needs at least one lane")
	}

	if spec.Draws <= 0 {
		return common.RunReport{}, errors.New("a run needs a positive draw count")
	}

	gen, err := rng.ByName(spec.Generator)
	if err != nil {
		return common.RunReport{}, err
	}

	draw, err := drawFuncFor(spec.Distribution, spec.Precision)
	if err != nil {
		return common.RunReport{}, err
	}

	accumulators := make([]Moments, spec.Lanes)
	counters := make([][4]uint32, spec.Lanes)

	laneIDs := make(chan uint32, spec.Lanes)
	for lane := uint32(0); lane < spec.Lanes; lane++ {
		laneIDs <- lane
	}
	close(laneIDs)

	workers := runtime.NumCPU()
	if workers > int(spec.Lanes) {
		workers = int(spec.Lanes)
	}

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()

			for lane := range laneIDs {
				state := rng.NewStateSharedWith(gen, spec.Counter, spec.Seed, lane)

				remaining := spec.Draws
				for remaining > 0 {
					block := draw(&state)

					take := len(block)
					if remaining < take {
						take = remaining
					}

					for _, v := range block[:take] {
						accumulators[lane].Push(v)
					}

					remaining -= take
				}

				counters[lane] = [4]uint32(state.Counter)
			}
		}()
	}

	wg.Wait()

	report := common.RunReport{
		Spec:  spec,
		Lanes: make([]common.LaneReport, spec.Lanes),
	}

	var merged Moments
	for lane := uint32(0); lane < spec.Lanes; lane++ {
		report.Lanes[lane] = common.LaneReport{
			Lane:         lane,
			Summary:      accumulators[lane].Summary(),
			CounterAfter: counters[lane],
		}

		merged.Merge(accumulators[lane])
	}

	report.Merged = merged.Summary()
	report.ElapsedMillis = time.Since(started).Milliseconds()

	return report, nil
}

// Head materializes the first blocks of a single lane's stream.
func Head(spec common.StreamSpec) (common.StreamHead, error) {
	if spec.Count <= 0 {
		return common.StreamHead{}, errors.New("a stream head needs a positive block count")
	}

	gen, err := rng.ByName(spec.Generator)
	if err != nil {
		return common.StreamHead{}, err
	}

	draw, err := drawFuncFor(spec.Distribution, spec.Precision)
	if err != nil {
		return common.StreamHead{}, err
	}

	state := rng.NewStateSharedWith(gen, spec.Counter, spec.Seed, spec.Lane)
	state.Skip(spec.Skip)

	head := common.StreamHead{
		Spec:   spec,
		Values: make([][4]float64, spec.Count),
	}

	for i := 0; i < spec.Count; i++ {
		head.Values[i] = draw(&state)
	}

	head.CounterAfter = [4]uint32(state.Counter)

	return head, nil
}
