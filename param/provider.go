// Package param enumerates parameter sets negotiated against a filter.
//
// A Provider exposes the parameter sets a component supports, grouped by
// parameter id. Enum intersects every offered set with a caller filter and
// yields the ones that survive, so a caller can ask "which formats do you
// support that are also acceptable to me". Enumeration is lazy and
// restartable: each Result carries the index to resume from.
//
// The package also reads and writes the common raw audio and video Format
// objects.
package param

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/arloliu/pod/builder"
	"github.com/arloliu/pod/compare"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/filter"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/internal/collision"
	"github.com/arloliu/pod/parser"
)

// Result is one enumerated parameter set.
type Result struct {
	ID    format.ParamID
	Index int    // index of the offer that produced Param
	Next  int    // start index that resumes the enumeration after this result
	Param []byte // the filtered parameter set, owned by the caller
}

// Provider enumerates parameter sets.
type Provider interface {
	// Enum yields up to num results (0 means all) for id, starting at offer
	// index start. A nil filter accepts every offer unchanged. The sequence
	// may be iterated again to restart it.
	Enum(id format.ParamID, start, num int, filter []byte) iter.Seq2[Result, error]
}

// StaticProvider offers a fixed list of parameter sets per id.
//
// Enumerations may run concurrently; Add must not race with them.
type StaticProvider struct {
	cfg    *Config
	mu     sync.RWMutex
	offers map[format.ParamID][]parser.Pod
}

var _ Provider = (*StaticProvider)(nil)

// NewStaticProvider creates an empty provider.
func NewStaticProvider(opts ...Option) (*StaticProvider, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &StaticProvider{
		cfg:    cfg,
		offers: make(map[format.ParamID][]parser.Pod),
	}, nil
}

// Add appends a copy of the parameter set data to the offers of id.
func (p *StaticProvider) Add(id format.ParamID, data []byte) error {
	pod, err := parser.Parse(slices.Clone(data), parser.WithByteOrder(p.cfg.engine))
	if err != nil {
		return fmt.Errorf("param %d: %w", id, err)
	}

	p.mu.Lock()
	p.offers[id] = append(p.offers[id], pod)
	p.mu.Unlock()

	return nil
}

// Len returns the number of offers for id.
func (p *StaticProvider) Len(id format.ParamID) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.offers[id])
}

// Enum implements Provider. Offers with no common value with the filter are
// skipped; any other failure ends the sequence with that error.
func (p *StaticProvider) Enum(id format.ParamID, start, num int, filterData []byte) iter.Seq2[Result, error] {
	return func(yield func(Result, error) bool) {
		var want parser.Pod
		if filterData != nil {
			var err error
			if want, err = parser.Parse(filterData, parser.WithByteOrder(p.cfg.engine)); err != nil {
				yield(Result{}, fmt.Errorf("filter: %w", err))
				return
			}
		}

		p.mu.RLock()
		offers := p.offers[id]
		p.mu.RUnlock()

		b, err := builder.NewGrowable(builder.WithByteOrder(p.cfg.engine))
		if err != nil {
			yield(Result{}, err)
			return
		}
		defer b.Release()
		empty := b.State()

		var seen *collision.Tracker[parser.Pod]
		if p.cfg.dedup {
			seen = collision.NewTracker(compare.Equal)
		}

		count := 0
		for idx := max(start, 0); idx < len(offers); idx++ {
			b.Reset(empty)
			err := filter.Filter(b, offers[idx], want)
			if errors.Is(err, errs.ErrNoCommonValue) {
				p.cfg.logger.Debug().
					Uint32("param", uint32(id)).
					Int("index", idx).
					Err(err).
					Msg("offer rejected by filter")
				continue
			}
			if err != nil {
				yield(Result{}, fmt.Errorf("param %d offer %d: %w", id, idx, err))
				return
			}

			data, err := b.Finish()
			if err != nil {
				yield(Result{}, err)
				return
			}
			data = slices.Clone(data)

			if seen != nil {
				pod, err := parser.Parse(data, parser.WithByteOrder(p.cfg.engine))
				if err != nil {
					yield(Result{}, err)
					return
				}
				if err := seen.Track(compare.Hash(pod), pod); err != nil {
					p.cfg.logger.Debug().
						Uint32("param", uint32(id)).
						Int("index", idx).
						Msg("duplicate result dropped")
					continue
				}
			}

			if !yield(Result{ID: id, Index: idx, Next: idx + 1, Param: data}, nil) {
				return
			}
			count++
			if num > 0 && count >= num {
				return
			}
		}
	}
}

// Collect runs an enumeration to completion.
func Collect(seq iter.Seq2[Result, error]) ([]Result, error) {
	var out []Result
	for r, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}

	return out, nil
}
